// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
)

var ErrUnderflow = errors.New("uint256 underflow")

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// It can also be accessed directly in the relevant built-in contract if declared in the same `pos`
type Uint256 struct {
	context *Context
	pos     ronin.Bytes32
}

func NewUint256(context *Context, pos ronin.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.UseGas(ronin.SloadGas)
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

// Uint64 reads the slot as a uint64, for counters and timestamps.
func (u *Uint256) Uint64() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (u *Uint256) Set(value *uint256.Int) error {
	storage := ronin.Bytes32(value.Bytes32())
	if err := u.context.chargeStore(u.pos, storage.Bytes()); err != nil {
		return err
	}
	u.context.state.SetStorage(u.context.address, u.pos, storage)
	return nil
}

func (u *Uint256) SetUint64(value uint64) error {
	return u.Set(uint256.NewInt(value))
}

func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	return u.Set(storage)
}

func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Lt(value) {
		return ErrUnderflow
	}
	storage.Sub(storage, value)
	return u.Set(storage)
}
