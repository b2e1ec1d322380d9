// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// OnlyContract requires the caller to be the peer contract of type t.
func OnlyContract(env *xenv.Environment, linker Linker, t ContractType, sig abi.MethodID) error {
	if env.Caller() != linker.Address(t) {
		return reverts.ErrUnexpectedInternalCall.New(sig, uint8(t), env.Caller())
	}
	return nil
}

// OnlyAdmin requires the caller to be the governance admin.
func OnlyAdmin(env *xenv.Environment, linker Linker, sig abi.MethodID) error {
	if env.Caller() != linker.Address(ContractGovernanceAdmin) {
		return reverts.ErrUnauthorized.New(sig, ronin.RoleAdmin)
	}
	return nil
}

// OnlyCoinbase requires the call to come from the block coinbase.
func OnlyCoinbase(env *xenv.Environment) error {
	if env.Caller() != env.BlockContext().Coinbase {
		return reverts.ErrCallerMustBeCoinbase
	}
	return nil
}

// AddressToUint256 renders an address the way uint256(uint160(addr)) does.
func AddressToUint256(addr ronin.Address) *uint256.Int {
	return new(uint256.Int).SetBytes(addr[:])
}
