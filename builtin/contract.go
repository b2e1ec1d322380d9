// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/ronin"
)

type contract struct {
	name    string
	Type    dpos.ContractType
	Address ronin.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string, t dpos.ContractType) *contract {
	return &contract{
		name,
		t,
		ronin.BytesToAddress([]byte(name)),
		gen.MustABI(name),
	}
}

// Name returns the contract name the ABI is embedded under.
func (c *contract) Name() string { return c.name }

func (c *contract) method(name string) *abi.Method {
	m, found := c.ABI.MethodByName(name)
	if !found {
		panic("method not found: " + c.name + "." + name)
	}
	return m
}
