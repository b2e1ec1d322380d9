// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the native DPoS contracts to their addresses and
// dispatches ABI encoded calls to them.
package builtin

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/finality"
	"github.com/ronin-chain/dpos-contract/builtin/governance"
	"github.com/ronin-chain/dpos-contract/builtin/profile"
	"github.com/ronin-chain/dpos-contract/builtin/slashing"
	"github.com/ronin-chain/dpos-contract/builtin/staking"
	"github.com/ronin-chain/dpos-contract/builtin/trustedorg"
	"github.com/ronin-chain/dpos-contract/builtin/validatorset"
	"github.com/ronin-chain/dpos-contract/builtin/vesting"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// Builtin contracts binding.
var (
	Profile         = &profileContract{mustLoadContract(profile.ContractName, dpos.ContractProfile)}
	Staking         = &stakingContract{mustLoadContract(staking.ContractName, dpos.ContractStaking)}
	ValidatorSet    = &validatorSetContract{mustLoadContract(validatorset.ContractName, dpos.ContractValidator)}
	FastFinality    = &finalityContract{mustLoadContract(finality.ContractName, dpos.ContractFastFinality)}
	Vesting         = &vestingContract{mustLoadContract(vesting.ContractName, dpos.ContractStakingVesting)}
	SlashIndicator  = &slashingContract{mustLoadContract(slashing.ContractName, dpos.ContractSlashIndicator)}
	TrustedOrg      = &trustedOrgContract{mustLoadContract(trustedorg.ContractName, dpos.ContractTrustedOrg)}
	GovernanceAdmin = &governanceContract{mustLoadContract(governance.ContractName, dpos.ContractGovernanceAdmin)}
)

type (
	profileContract      struct{ *contract }
	stakingContract      struct{ *contract }
	validatorSetContract struct{ *contract }
	finalityContract     struct{ *contract }
	vestingContract      struct{ *contract }
	slashingContract     struct{ *contract }
	trustedOrgContract   struct{ *contract }
	governanceContract   struct{ *contract }
)

// Contracts lists every builtin contract.
func Contracts() []*contract {
	return []*contract{
		Profile.contract,
		Staking.contract,
		ValidatorSet.contract,
		FastFinality.contract,
		Vesting.contract,
		SlashIndicator.contract,
		TrustedOrg.contract,
		GovernanceAdmin.contract,
	}
}

// ByType returns the contract of type t, or nil.
func ByType(t dpos.ContractType) *contract {
	for _, c := range Contracts() {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// RevertReason renders the revert data of any builtin contract, falling back to hex.
func RevertReason(data []byte) string {
	for _, c := range Contracts() {
		if reason, ok := c.ABI.DecodeRevert(data); ok {
			return reason
		}
	}
	return hexutil.Encode(data)
}

// ByAddress returns the contract deployed at addr, or nil.
func ByAddress(addr ronin.Address) *contract {
	for _, c := range Contracts() {
		if c.Address == addr {
			return c
		}
	}
	return nil
}

// Native binds the contract to an env whose callee is the contract address.

func (c *profileContract) Native(env *xenv.Environment) *profile.Profile {
	return profile.New(env, Link)
}

func (c *stakingContract) Native(env *xenv.Environment) *staking.Staking {
	return staking.New(env, Link)
}

func (c *validatorSetContract) Native(env *xenv.Environment) *validatorset.ValidatorSet {
	return validatorset.New(env, Link)
}

func (c *finalityContract) Native(env *xenv.Environment) *finality.Tracker {
	return finality.New(env, Link)
}

func (c *vestingContract) Native(env *xenv.Environment) *vesting.Vesting {
	return vesting.New(env, Link)
}

func (c *slashingContract) Native(env *xenv.Environment) *slashing.Indicator {
	return slashing.New(env, Link)
}

func (c *trustedOrgContract) Native(env *xenv.Environment) *trustedorg.Registry {
	return trustedorg.New(env, Link)
}

func (c *governanceContract) Native(env *xenv.Environment) *governance.Admin {
	return governance.New(env, Link)
}
