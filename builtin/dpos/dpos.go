// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dpos declares the types shared by the builtin contracts and the
// interfaces each contract exposes to its peers. Concrete contracts are wired
// together by the builtin package through a Linker.
package dpos

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ContractType mirrors the ContractType enum used by the Ronin contracts.
type ContractType uint8

const (
	ContractUnknown         ContractType = 0
	ContractGovernanceAdmin ContractType = 4
	ContractSlashIndicator  ContractType = 6
	ContractStakingVesting  ContractType = 7
	ContractValidator       ContractType = 8
	ContractStaking         ContractType = 9
	ContractTrustedOrg      ContractType = 10
	ContractFastFinality    ContractType = 14
	ContractProfile         ContractType = 15
)

func (t ContractType) String() string {
	switch t {
	case ContractGovernanceAdmin:
		return "governance-admin"
	case ContractSlashIndicator:
		return "slash-indicator"
	case ContractStakingVesting:
		return "staking-vesting"
	case ContractValidator:
		return "validator"
	case ContractStaking:
		return "staking"
	case ContractTrustedOrg:
		return "trusted-org"
	case ContractFastFinality:
		return "fast-finality"
	case ContractProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// LookupMode selects how an address is resolved to a candidate id.
type LookupMode uint8

const (
	// ByConsensus resolves through the current consensus address mapping.
	ByConsensus LookupMode = iota
	// ById accepts the address only if it is a registered id.
	ById
)

// CandidateProfile is the joined identity view of a candidate.
type CandidateProfile struct {
	ID           ronin.Address
	Consensus    ronin.Address
	Admin        ronin.Address
	Treasury     ronin.Address
	Pubkey       []byte
	LastChange   uint64
	RegisteredAt uint64
}

// Exists reports whether the profile was ever registered.
func (p *CandidateProfile) Exists() bool {
	return p != nil && !p.ID.IsZero()
}

// Profiles is the identity registry as seen by other contracts.
type Profiles interface {
	Resolve(addr ronin.Address, mode LookupMode) (ronin.Address, error)
	ResolveMany(addrs []ronin.Address, mode LookupMode) ([]ronin.Address, error)
	GetId2Profile(id ronin.Address) (*CandidateProfile, error)
	GetManyId2Consensus(ids []ronin.Address) ([]ronin.Address, error)
	IsAdminInHistory(addr ronin.Address) (bool, error)
	ExecApplyValidatorCandidate(admin, id ronin.Address, pubkey, proof []byte) error
}

// Staking is the reward ledger as seen by other contracts.
type Staking interface {
	GetCommissionRateRange() (min, max uint64, err error)
	GetManyStakingTotalsById(ids []ronin.Address) ([]*uint256.Int, error)
	RecordRewards(ids []ronin.Address, rewards []*uint256.Int, period uint64) error
	DeductStakingAmount(id ronin.Address, amount *uint256.Int) (*uint256.Int, error)
	ExecDeprecatePools(ids []ronin.Address, period uint64) error
	ExecChangeAdminAddr(id, newAdmin ronin.Address) error
}

// ValidatorSet is the validator set and epoch controller as seen by other contracts.
type ValidatorSet interface {
	ExecApplyValidatorCandidate(admin, id ronin.Address, commissionRate uint64) error
	ExecRequestRenounceCandidate(id ronin.Address, secsLeft uint64) error
	ExecRequestUpdateCommissionRate(id ronin.Address, effectiveTimestamp, rate uint64) error
	ExecSlash(id ronin.Address, newJailedUntil uint64, slashAmount *uint256.Int, cannotBailout bool) error
	IsValidatorCandidate(id ronin.Address) (bool, error)
	IsBlockProducer(id ronin.Address) (bool, error)
	CurrentPeriod() (uint64, error)
	EpochOf(block uint64) (uint64, error)
}

// Finality is the fast finality vote tracker as seen by other contracts.
type Finality interface {
	GetManyFinalityVoteCountsById(epoch uint64, ids []ronin.Address) ([]uint64, error)
}

// Vesting is the staking vesting source as seen by other contracts.
type Vesting interface {
	RequestBonus(forBlockProducer bool) (success bool, bonus *uint256.Int, err error)
	FastFinalityRewardPercentage() (uint64, error)
	Receive() error
}

// TrustedOrgs is the trusted organization registry as seen by other contracts.
type TrustedOrgs interface {
	GetConsensusWeightsById(ids []ronin.Address) ([]uint64, error)
	GetGovernorWeight(governor ronin.Address) (uint64, error)
}

// Linker resolves peer contracts. Each peer is opened as a nested call from the
// given env, with the current contract as caller and value moved along.
type Linker interface {
	Address(t ContractType) ronin.Address
	Profiles(from *xenv.Environment, value *uint256.Int) (Profiles, error)
	Staking(from *xenv.Environment, value *uint256.Int) (Staking, error)
	ValidatorSet(from *xenv.Environment, value *uint256.Int) (ValidatorSet, error)
	Finality(from *xenv.Environment, value *uint256.Int) (Finality, error)
	Vesting(from *xenv.Environment, value *uint256.Int) (Vesting, error)
	TrustedOrgs(from *xenv.Environment, value *uint256.Int) (TrustedOrgs, error)
	// Dispatch performs an ABI encoded call against any address.
	Dispatch(from *xenv.Environment, to ronin.Address, value *uint256.Int, data []byte) ([]byte, error)
}
