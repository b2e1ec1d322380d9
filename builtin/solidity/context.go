// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
)

// Context binds the storage helpers to the account of one native contract and
// charges every slot access to the calling tx. A nil charger makes access free,
// which is what off-chain readers and tests use.
type Context struct {
	address ronin.Address
	state   *state.State
	charge  func(gas uint64)
}

func NewContext(address ronin.Address, state *state.State, charger func(gas uint64)) *Context {
	return &Context{address, state, charger}
}

func (c *Context) UseGas(gas uint64) {
	if c.charge != nil {
		c.charge(gas)
	}
}

// words is the number of 32 bytes words occupied by length bytes, at least one.
func words(length int) uint64 {
	return max(1, uint64(length+31)/32)
}

func (c *Context) chargeLoad(raw []byte) {
	c.UseGas(words(len(raw)) * ronin.SloadGas)
}

// chargeStore charges the set price per word when the slot was empty, the reset price otherwise.
func (c *Context) chargeStore(key ronin.Bytes32, val []byte) error {
	prev, err := c.state.GetRawStorage(c.address, key)
	if err != nil {
		return err
	}
	price := ronin.SstoreResetGas
	if len(prev) == 0 && len(val) > 0 {
		price = ronin.SstoreSetGas
	}
	c.UseGas(words(len(val)) * price)
	return nil
}
