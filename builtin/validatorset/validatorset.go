// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package validatorset implements the validator set and epoch controller. It
// stages block rewards per candidate id, settles them when a period ends and
// recomputes the validator set from the candidates' stakes.
package validatorset

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/linkedlist"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ContractName is the name of the embedded ABI.
const ContractName = "RoninValidatorSet"

var (
	logger = log.WithContext("pkg", "validatorset")

	metricWrapUps       = metrics.LazyLoadCounterVec("validatorset_wrapups_count", []string{"period_ending"})
	metricValidators    = metrics.LazyLoadGauge("validatorset_validators")
	metricDeprecatedRON = metrics.LazyLoadCounter("validatorset_deprecated_reward_count")
)

var (
	slotMaxValidatorNumber            = solidity.Slot(ContractName, "vs-max-validator-number", "uint256")
	slotMaxValidatorCandidate         = solidity.Slot(ContractName, "vs-max-validator-candidate", "uint256")
	slotMaxPrioritizedValidatorNumber = solidity.Slot(ContractName, "vs-max-prioritized-validator-number", "uint256")
	slotNumberOfBlocksInEpoch         = solidity.Slot(ContractName, "vs-number-of-blocks-in-epoch", "uint256")

	slotCandidatesHead  = solidity.Slot(ContractName, "vs-candidates-head", "address")
	slotCandidatesTail  = solidity.Slot(ContractName, "vs-candidates-tail", "address")
	slotCandidatesCount = solidity.Slot(ContractName, "vs-candidates-count", "uint256")
	slotCandidateInfo   = solidity.Slot(ContractName, "vs-candidate-info", "mapping(address => struct Candidate)")
	slotCommissionSched = solidity.Slot(ContractName, "vs-commission-schedule", "mapping(address => struct CommissionSchedule)")

	slotValidators     = solidity.Slot(ContractName, "vs-validators", "address[]")
	slotBlockProducers = solidity.Slot(ContractName, "vs-block-producers", "address[]")

	slotLastUpdatedBlock   = solidity.Slot(ContractName, "vs-last-updated-block", "uint256")
	slotLastUpdatedPeriod  = solidity.Slot(ContractName, "vs-last-updated-period", "uint256")
	slotPeriodStartAtBlock = solidity.Slot(ContractName, "vs-period-start-at-block", "uint256")
	slotPeriodOf           = solidity.Slot(ContractName, "vs-period-of", "mapping(uint256 => uint256)")
	slotEpochEndRequested  = solidity.Slot(ContractName, "vs-epoch-end-requested", "uint256")
	slotMiningReward       = solidity.Slot(ContractName, "vs-mining-reward", "mapping(address => uint256)")
	slotDelegatingReward   = solidity.Slot(ContractName, "vs-delegating-reward", "mapping(address => uint256)")
	slotFastFinalityReward = solidity.Slot(ContractName, "vs-fast-finality-reward", "mapping(address => uint256)")
	slotTotalFastFinality  = solidity.Slot(ContractName, "vs-total-fast-finality-reward", "uint256")
	slotTotalDeprecated    = solidity.Slot(ContractName, "vs-total-deprecated-reward", "uint256")
	slotJailedUntil        = solidity.Slot(ContractName, "vs-jailed-until", "mapping(address => uint256)")
	slotMiningDeprecatedAt = solidity.Slot(ContractName, "vs-mining-reward-deprecated-at", "mapping(bytes32 => bool)")
)

var (
	evCandidateGranted                     = gen.MustEvent(ContractName, "CandidateGranted")
	evCandidateRevokingTimestampUpdated    = gen.MustEvent(ContractName, "CandidateRevokingTimestampUpdated")
	evCommissionRateUpdateScheduled        = gen.MustEvent(ContractName, "CommissionRateUpdateScheduled")
	evCommissionRateUpdated                = gen.MustEvent(ContractName, "CommissionRateUpdated")
	evCandidatesRevoked                    = gen.MustEvent(ContractName, "CandidatesRevoked")
	evBlockRewardDeprecated                = gen.MustEvent(ContractName, "BlockRewardDeprecated")
	evBlockRewardSubmitted                 = gen.MustEvent(ContractName, "BlockRewardSubmitted")
	evValidatorPunished                    = gen.MustEvent(ContractName, "ValidatorPunished")
	evMiningRewardDistributed              = gen.MustEvent(ContractName, "MiningRewardDistributed")
	evFastFinalityRewardDistributed        = gen.MustEvent(ContractName, "FastFinalityRewardDistributed")
	evStakingRewardDistributed             = gen.MustEvent(ContractName, "StakingRewardDistributed")
	evDeprecatedRewardRecycled             = gen.MustEvent(ContractName, "DeprecatedRewardRecycled")
	evValidatorSetUpdated                  = gen.MustEvent(ContractName, "ValidatorSetUpdated")
	evWrappedUpEpoch                       = gen.MustEvent(ContractName, "WrappedUpEpoch")
	evEpochEndRequested                    = gen.MustEvent(ContractName, "EpochEndRequested")
	evMaxValidatorNumberUpdated            = gen.MustEvent(ContractName, "MaxValidatorNumberUpdated")
	evMaxValidatorCandidateUpdated         = gen.MustEvent(ContractName, "MaxValidatorCandidateUpdated")
	evMaxPrioritizedValidatorNumberUpdated = gen.MustEvent(ContractName, "MaxPrioritizedValidatorNumberUpdated")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// DeprecatedType tells why a block reward was not staged.
type DeprecatedType uint8

const (
	DeprecatedUnknown DeprecatedType = iota
	DeprecatedUnavailability
)

// ValidatorSet implements the native methods of the `RoninValidatorSet` contract.
type ValidatorSet struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable *solidity.Initializable

	maxValidatorNumber            *solidity.Uint256
	maxValidatorCandidate         *solidity.Uint256
	maxPrioritizedValidatorNumber *solidity.Uint256
	numberOfBlocksInEpoch         *solidity.Uint256

	candidates    *linkedlist.LinkedList
	candidateInfo *solidity.Mapping[ronin.Address, *Candidate]
	schedules     *solidity.Mapping[ronin.Address, *CommissionSchedule]

	validators     *solidity.Value[[]ronin.Address]
	blockProducers *solidity.Value[[]ronin.Address]

	lastUpdatedBlock   *solidity.Uint256
	lastUpdatedPeriod  *solidity.Uint256
	periodStartAtBlock *solidity.Uint256
	periodOf           *solidity.Mapping[solidity.Uint64Key, uint64]
	epochEndRequested  *solidity.Uint256

	miningReward       *solidity.Mapping[ronin.Address, *uint256.Int]
	delegatingReward   *solidity.Mapping[ronin.Address, *uint256.Int]
	fastFinalityReward *solidity.Mapping[ronin.Address, *uint256.Int]
	totalFastFinality  *solidity.Uint256
	totalDeprecated    *solidity.Uint256

	jailedUntil      *solidity.Mapping[ronin.Address, uint64]
	miningDeprecated *solidity.Mapping[ronin.Bytes32, bool]
}

// New binds the contract to the call env, env.To() is the contract address.
func New(env *xenv.Environment, linker dpos.Linker) *ValidatorSet {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &ValidatorSet{
		env:                           env,
		linker:                        linker,
		initializable:                 solidity.NewInitializable(sctx),
		maxValidatorNumber:            solidity.NewUint256(sctx, slotMaxValidatorNumber),
		maxValidatorCandidate:         solidity.NewUint256(sctx, slotMaxValidatorCandidate),
		maxPrioritizedValidatorNumber: solidity.NewUint256(sctx, slotMaxPrioritizedValidatorNumber),
		numberOfBlocksInEpoch:         solidity.NewUint256(sctx, slotNumberOfBlocksInEpoch),
		candidates:                    linkedlist.NewLinkedList(sctx, slotCandidatesHead, slotCandidatesTail, slotCandidatesCount),
		candidateInfo:                 solidity.NewMapping[ronin.Address, *Candidate](sctx, slotCandidateInfo),
		schedules:                     solidity.NewMapping[ronin.Address, *CommissionSchedule](sctx, slotCommissionSched),
		validators:                    solidity.NewValue[[]ronin.Address](sctx, slotValidators),
		blockProducers:                solidity.NewValue[[]ronin.Address](sctx, slotBlockProducers),
		lastUpdatedBlock:              solidity.NewUint256(sctx, slotLastUpdatedBlock),
		lastUpdatedPeriod:             solidity.NewUint256(sctx, slotLastUpdatedPeriod),
		periodStartAtBlock:            solidity.NewUint256(sctx, slotPeriodStartAtBlock),
		periodOf:                      solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotPeriodOf),
		epochEndRequested:             solidity.NewUint256(sctx, slotEpochEndRequested),
		miningReward:                  solidity.NewMapping[ronin.Address, *uint256.Int](sctx, slotMiningReward),
		delegatingReward:              solidity.NewMapping[ronin.Address, *uint256.Int](sctx, slotDelegatingReward),
		fastFinalityReward:            solidity.NewMapping[ronin.Address, *uint256.Int](sctx, slotFastFinalityReward),
		totalFastFinality:             solidity.NewUint256(sctx, slotTotalFastFinality),
		totalDeprecated:               solidity.NewUint256(sctx, slotTotalDeprecated),
		jailedUntil:                   solidity.NewMapping[ronin.Address, uint64](sctx, slotJailedUntil),
		miningDeprecated:              solidity.NewMapping[ronin.Bytes32, bool](sctx, slotMiningDeprecatedAt),
	}
}

var _ dpos.ValidatorSet = (*ValidatorSet)(nil)

//
// Initializers
//

// Initialize sets the set limits and the epoch length. The current period is
// taken from the block time so that the first wrap up of the day does not end it.
func (v *ValidatorSet) Initialize(maxValidatorNumber, maxValidatorCandidate, numberOfBlocksInEpoch uint64) error {
	if err := v.initializable.Reinitialize(1); err != nil {
		return err
	}
	if numberOfBlocksInEpoch == 0 {
		return reverts.ErrInvalidArguments.New(sig("initialize"))
	}
	if err := v.numberOfBlocksInEpoch.SetUint64(numberOfBlocksInEpoch); err != nil {
		return err
	}
	if err := v.setMaxValidatorNumber(maxValidatorNumber); err != nil {
		return err
	}
	if err := v.setMaxValidatorCandidate(maxValidatorCandidate); err != nil {
		return err
	}
	period := computePeriod(v.env.BlockContext().Time)
	if err := v.lastUpdatedPeriod.SetUint64(period); err != nil {
		return err
	}
	return v.periodOf.Set(solidity.Uint64Key(v.epochOf(v.env.BlockContext().Number, numberOfBlocksInEpoch)), period)
}

// InitializeV4 reserves slots for prioritized validators.
func (v *ValidatorSet) InitializeV4(maxPrioritizedValidatorNumber uint64) error {
	if err := v.initializable.Reinitialize(4); err != nil {
		return err
	}
	return v.setMaxPrioritizedValidatorNumber(maxPrioritizedValidatorNumber)
}

//
// Peers
//

func (v *ValidatorSet) profiles() (dpos.Profiles, error) {
	return v.linker.Profiles(v.env, nil)
}

func (v *ValidatorSet) staking(value *uint256.Int) (dpos.Staking, error) {
	return v.linker.Staking(v.env, value)
}

func (v *ValidatorSet) vesting(value *uint256.Int) (dpos.Vesting, error) {
	return v.linker.Vesting(v.env, value)
}

// IdOf resolves a consensus address to its candidate id.
func (v *ValidatorSet) IdOf(consensus ronin.Address) (ronin.Address, error) {
	profiles, err := v.profiles()
	if err != nil {
		return ronin.Address{}, err
	}
	return profiles.Resolve(consensus, dpos.ByConsensus)
}

// consensusOf maps ids to their current consensus addresses.
func (v *ValidatorSet) consensusOf(ids []ronin.Address) ([]ronin.Address, error) {
	if len(ids) == 0 {
		return []ronin.Address{}, nil
	}
	profiles, err := v.profiles()
	if err != nil {
		return nil, err
	}
	return profiles.GetManyId2Consensus(ids)
}

//
// Configuration
//

func (v *ValidatorSet) MaxValidatorNumber() (uint64, error) {
	return v.maxValidatorNumber.Uint64()
}

func (v *ValidatorSet) MaxValidatorCandidate() (uint64, error) {
	return v.maxValidatorCandidate.Uint64()
}

func (v *ValidatorSet) MaxPrioritizedValidatorNumber() (uint64, error) {
	return v.maxPrioritizedValidatorNumber.Uint64()
}

func (v *ValidatorSet) NumberOfBlocksInEpoch() (uint64, error) {
	return v.numberOfBlocksInEpoch.Uint64()
}

func (v *ValidatorSet) SetMaxValidatorNumber(n uint64) error {
	if err := dpos.OnlyAdmin(v.env, v.linker, sig("setMaxValidatorNumber")); err != nil {
		return err
	}
	return v.setMaxValidatorNumber(n)
}

func (v *ValidatorSet) SetMaxValidatorCandidate(n uint64) error {
	if err := dpos.OnlyAdmin(v.env, v.linker, sig("setMaxValidatorCandidate")); err != nil {
		return err
	}
	return v.setMaxValidatorCandidate(n)
}

func (v *ValidatorSet) SetMaxPrioritizedValidatorNumber(n uint64) error {
	if err := dpos.OnlyAdmin(v.env, v.linker, sig("setMaxPrioritizedValidatorNumber")); err != nil {
		return err
	}
	return v.setMaxPrioritizedValidatorNumber(n)
}

func (v *ValidatorSet) setMaxValidatorNumber(n uint64) error {
	prioritized, err := v.MaxPrioritizedValidatorNumber()
	if err != nil {
		return err
	}
	if prioritized > n {
		return reverts.ErrInvalidMaxPrioritizedNumber
	}
	if err := v.maxValidatorNumber.SetUint64(n); err != nil {
		return err
	}
	v.env.Log(evMaxValidatorNumberUpdated, n)
	return nil
}

func (v *ValidatorSet) setMaxValidatorCandidate(n uint64) error {
	if err := v.maxValidatorCandidate.SetUint64(n); err != nil {
		return err
	}
	v.env.Log(evMaxValidatorCandidateUpdated, n)
	return nil
}

func (v *ValidatorSet) setMaxPrioritizedValidatorNumber(n uint64) error {
	maxNumber, err := v.MaxValidatorNumber()
	if err != nil {
		return err
	}
	if n > maxNumber {
		return reverts.ErrInvalidMaxPrioritizedNumber
	}
	if err := v.maxPrioritizedValidatorNumber.SetUint64(n); err != nil {
		return err
	}
	v.env.Log(evMaxPrioritizedValidatorNumberUpdated, n)
	return nil
}
