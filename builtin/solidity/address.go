// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ronin-chain/dpos-contract/ronin"
)

// Address is a wrapper for storage and retrieval of an address. Similar to storing an address in a smart contract.
type Address struct {
	context *Context
	pos     ronin.Bytes32
}

func NewAddress(context *Context, pos ronin.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (ronin.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return ronin.Address{}, err
	}
	a.context.UseGas(ronin.SloadGas)
	return ronin.BytesToAddress(storage.Bytes()), nil
}

// Set stores addr, a nil addr clears the slot.
func (a *Address) Set(addr *ronin.Address) error {
	var storage ronin.Bytes32
	if addr != nil {
		storage = ronin.BytesToBytes32(addr.Bytes())
	}
	if err := a.context.chargeStore(a.pos, storage.Bytes()); err != nil {
		return err
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
	return nil
}
