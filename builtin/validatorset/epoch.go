// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"strconv"

	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

func computePeriod(timestamp uint64) uint64 {
	return timestamp / ronin.DefaultPeriodDuration
}

// epochOf numbers epochs from 1, block 0 belongs to epoch 0.
func (v *ValidatorSet) epochOf(block, blocksInEpoch uint64) uint64 {
	if block == 0 {
		return 0
	}
	return block/blocksInEpoch + 1
}

func (v *ValidatorSet) EpochOf(block uint64) (uint64, error) {
	n, err := v.NumberOfBlocksInEpoch()
	if err != nil {
		return 0, err
	}
	return v.epochOf(block, n), nil
}

func (v *ValidatorSet) CurrentEpoch() (uint64, error) {
	return v.EpochOf(v.env.BlockContext().Number)
}

// EpochEndingAt reports whether block is the last block of its epoch.
func (v *ValidatorSet) EpochEndingAt(block uint64) (bool, error) {
	n, err := v.NumberOfBlocksInEpoch()
	if err != nil {
		return false, err
	}
	return block%n == n-1, nil
}

func (v *ValidatorSet) GetLastUpdatedBlock() (uint64, error) {
	return v.lastUpdatedBlock.Uint64()
}

// CurrentPeriod is the period of the last wrap up. It only advances at epoch boundaries.
func (v *ValidatorSet) CurrentPeriod() (uint64, error) {
	return v.lastUpdatedPeriod.Uint64()
}

// PeriodOf returns the period an epoch belongs to, zero for epochs not reached yet.
func (v *ValidatorSet) PeriodOf(epoch uint64) (uint64, error) {
	return v.periodOf.Get(solidity.Uint64Key(epoch))
}

// IsPeriodEnding reports whether a wrap up now would end the current period.
func (v *ValidatorSet) IsPeriodEnding() (bool, error) {
	current, err := v.CurrentPeriod()
	if err != nil {
		return false, err
	}
	return computePeriod(v.env.BlockContext().Time) > current, nil
}

func (v *ValidatorSet) CurrentPeriodStartAtBlock() (uint64, error) {
	return v.periodStartAtBlock.Uint64()
}

func (v *ValidatorSet) TotalDeprecatedReward() (*uint256.Int, error) {
	return v.totalDeprecated.Get()
}

// PendingReward returns what id has staged in the current period.
func (v *ValidatorSet) PendingReward(id ronin.Address) (mining, delegating, fastFinality *uint256.Int, err error) {
	if mining, err = v.miningReward.Get(id); err != nil {
		return
	}
	if delegating, err = v.delegatingReward.Get(id); err != nil {
		return
	}
	fastFinality, err = v.fastFinalityReward.Get(id)
	return
}

// lookup resolves the consensus address, reporting false when it is unknown.
func (v *ValidatorSet) lookup(consensus ronin.Address) (ronin.Address, bool, error) {
	id, err := v.IdOf(consensus)
	if err != nil {
		if reverts.Is(err, reverts.ErrLookUpIdFailed) {
			return ronin.Address{}, false, nil
		}
		return ronin.Address{}, false, err
	}
	return id, true, nil
}

// SubmitBlockReward stages the call value and the block producer bonus against
// the id of the coinbase. Rewards of jailed, deprecated or unknown producers are
// deprecated and recycled at the end of the period.
func (v *ValidatorSet) SubmitBlockReward() error {
	if err := dpos.OnlyCoinbase(v.env); err != nil {
		return err
	}
	coinbase := v.env.Caller()
	value := v.env.Value()

	id, known, err := v.lookup(coinbase)
	if err != nil {
		return err
	}
	producer := false
	if known {
		if producer, err = v.rewardable(id); err != nil {
			return err
		}
	}

	vesting, err := v.vesting(nil)
	if err != nil {
		return err
	}
	_, bonus, err := vesting.RequestBonus(producer)
	if err != nil {
		return err
	}

	if !producer {
		if !known {
			id = coinbase
		}
		if err := v.totalDeprecated.Add(value); err != nil {
			return err
		}
		v.env.Log(evBlockRewardDeprecated, id, value, uint8(DeprecatedUnavailability))
		return nil
	}
	v.env.Log(evBlockRewardSubmitted, id, value, bonus)

	reward := new(uint256.Int).Add(value, bonus)
	percentage, err := vesting.FastFinalityRewardPercentage()
	if err != nil {
		return err
	}
	fastFinality := mulDiv(reward, percentage, ronin.MaxPercentage)
	if err := v.totalFastFinality.Add(fastFinality); err != nil {
		return err
	}

	producing := new(uint256.Int).Sub(reward, fastFinality)
	info, err := v.candidateInfo.Get(id)
	if err != nil {
		return err
	}
	mining := mulDiv(producing, info.CommissionRate, ronin.MaxPercentage)
	if err := addTo(v.miningReward, id, mining); err != nil {
		return err
	}
	return addTo(v.delegatingReward, id, new(uint256.Int).Sub(producing, mining))
}

// rewardable reports whether id may stage block rewards now.
func (v *ValidatorSet) rewardable(id ronin.Address) (bool, error) {
	producer, err := v.IsBlockProducer(id)
	if err != nil || !producer {
		return false, err
	}
	jailed, err := v.jailedAt(id, v.env.BlockContext().Number)
	if err != nil || jailed {
		return false, err
	}
	deprecated, err := v.CheckMiningRewardDeprecated(id)
	return !deprecated, err
}

// requireEpochEnd checks the current block closes an epoch not wrapped up yet,
// and returns that epoch.
func (v *ValidatorSet) requireEpochEnd() (uint64, error) {
	block := v.env.BlockContext().Number
	ending, err := v.EpochEndingAt(block)
	if err != nil {
		return 0, err
	}
	if !ending {
		return 0, reverts.ErrAtEndOfEpochOnly
	}
	epoch, err := v.EpochOf(block)
	if err != nil {
		return 0, err
	}
	last, err := v.GetLastUpdatedBlock()
	if err != nil {
		return 0, err
	}
	lastEpoch, err := v.EpochOf(last)
	if err != nil {
		return 0, err
	}
	if last != 0 && lastEpoch == epoch {
		return 0, reverts.ErrAlreadyWrappedEpoch
	}
	return epoch, nil
}

// EndEpoch marks the current epoch as ending. It is the first of the two steps
// closing an epoch and is a no-op when repeated.
func (v *ValidatorSet) EndEpoch() error {
	if err := dpos.OnlyCoinbase(v.env); err != nil {
		return err
	}
	epoch, err := v.requireEpochEnd()
	if err != nil {
		return err
	}
	requested, err := v.epochEndRequested.Uint64()
	if err != nil {
		return err
	}
	if requested == epoch {
		return nil
	}
	if err := v.epochEndRequested.SetUint64(epoch); err != nil {
		return err
	}
	v.env.Log(evEpochEndRequested, epoch, v.env.BlockContext().Number)
	return nil
}

// WrapUpEpoch settles the ending epoch. Fast finality rewards are split every
// epoch, while staged rewards are paid out, candidates revoked and the validator
// set recomputed only when the period ends.
func (v *ValidatorSet) WrapUpEpoch() error {
	if err := dpos.OnlyCoinbase(v.env); err != nil {
		return err
	}
	epoch, err := v.requireEpochEnd()
	if err != nil {
		return err
	}
	requested, err := v.epochEndRequested.Uint64()
	if err != nil {
		return err
	}
	if requested != epoch {
		return reverts.ErrAtEndOfEpochOnly
	}

	var (
		block     = v.env.BlockContext().Number
		now       = v.env.BlockContext().Time
		newPeriod = computePeriod(now)
	)
	lastPeriod, err := v.CurrentPeriod()
	if err != nil {
		return err
	}
	periodEnding := newPeriod > lastPeriod
	ids, err := v.GetValidatorIds()
	if err != nil {
		return err
	}

	if err := v.syncFastFinalityReward(epoch, ids); err != nil {
		return err
	}
	if periodEnding {
		if err := v.distributeRewards(lastPeriod, ids); err != nil {
			return err
		}
		if err := v.recycleDeprecatedRewards(); err != nil {
			return err
		}
		revoked, err := v.revokeCandidates(now)
		if err != nil {
			return err
		}
		if len(revoked) > 0 {
			staking, err := v.staking(nil)
			if err != nil {
				return err
			}
			if err := staking.ExecDeprecatePools(revoked, newPeriod); err != nil {
				return err
			}
			v.env.Log(evCandidatesRevoked, revoked)
		}
		if err := v.applyCommissionSchedules(now); err != nil {
			return err
		}
		if err := v.syncValidatorSet(newPeriod, block+1); err != nil {
			return err
		}
		if err := v.periodStartAtBlock.SetUint64(block + 1); err != nil {
			return err
		}
		logger.Info("period ended", "period", lastPeriod, "next", newPeriod, "block", block)
	}
	if err := v.revampBlockProducers(newPeriod, block+1); err != nil {
		return err
	}
	v.env.Log(evWrappedUpEpoch, lastPeriod, epoch, periodEnding)

	if err := v.periodOf.Set(solidity.Uint64Key(epoch+1), newPeriod); err != nil {
		return err
	}
	if err := v.lastUpdatedPeriod.SetUint64(newPeriod); err != nil {
		return err
	}
	if err := v.lastUpdatedBlock.SetUint64(block); err != nil {
		return err
	}
	metricWrapUps().AddWithLabel(1, map[string]string{"period_ending": strconv.FormatBool(periodEnding)})
	return nil
}

// syncFastFinalityReward splits the fast finality pool of epoch between the
// validators. Each gets an equal part scaled by the share of blocks it voted
// for, the rest is deprecated.
func (v *ValidatorSet) syncFastFinalityReward(epoch uint64, ids []ronin.Address) error {
	total, err := v.totalFastFinality.Get()
	if err != nil {
		return err
	}
	if total.IsZero() {
		return nil
	}
	if err := v.totalFastFinality.Set(new(uint256.Int)); err != nil {
		return err
	}
	if len(ids) == 0 {
		return v.deprecate(total)
	}

	finality, err := v.linker.Finality(v.env, nil)
	if err != nil {
		return err
	}
	votes, err := finality.GetManyFinalityVoteCountsById(epoch, ids)
	if err != nil {
		return err
	}
	blocks, err := v.NumberOfBlocksInEpoch()
	if err != nil {
		return err
	}

	each := new(uint256.Int).Div(total, uint256.NewInt(uint64(len(ids))))
	dispensed := new(uint256.Int)
	for i, id := range ids {
		share := mulDiv(each, min(votes[i], blocks), blocks)
		if share.IsZero() {
			continue
		}
		if err := addTo(v.fastFinalityReward, id, share); err != nil {
			return err
		}
		dispensed.Add(dispensed, share)
	}
	leftover := new(uint256.Int).Sub(total, dispensed)
	logger.Debug("fast finality reward split", "epoch", epoch, "total", total, "leftover", leftover)
	return v.deprecate(leftover)
}

// distributeRewards pays the mining and fast finality rewards to the treasuries
// and records the delegating rewards of lastPeriod in the staking contract.
func (v *ValidatorSet) distributeRewards(lastPeriod uint64, ids []ronin.Address) error {
	profiles, err := v.profiles()
	if err != nil {
		return err
	}
	block := v.env.BlockContext().Number
	amounts := make([]*uint256.Int, len(ids))
	total := new(uint256.Int)

	for i, id := range ids {
		mining, delegating, fastFinality, err := v.PendingReward(id)
		if err != nil {
			return err
		}
		amounts[i] = new(uint256.Int)
		for _, m := range []*solidity.Mapping[ronin.Address, *uint256.Int]{v.miningReward, v.delegatingReward, v.fastFinalityReward} {
			if err := m.Delete(id); err != nil {
				return err
			}
		}

		jailed, err := v.jailedAt(id, block)
		if err != nil {
			return err
		}
		deprecated, err := v.miningDeprecated.Get(solidity.Pair(id, solidity.Uint64Key(lastPeriod)))
		if err != nil {
			return err
		}
		if jailed || deprecated {
			sum := new(uint256.Int).Add(mining, delegating)
			if err := v.deprecate(sum.Add(sum, fastFinality)); err != nil {
				return err
			}
			continue
		}

		profile, err := profiles.GetId2Profile(id)
		if err != nil {
			return err
		}
		if err := v.pay(id, profile.Treasury, mining, evMiningRewardDistributed); err != nil {
			return err
		}
		if err := v.pay(id, profile.Treasury, fastFinality, evFastFinalityRewardDistributed); err != nil {
			return err
		}
		amounts[i] = delegating
		total.Add(total, delegating)
	}

	staking, err := v.staking(total)
	if err != nil {
		return err
	}
	if err := staking.RecordRewards(ids, amounts, lastPeriod); err != nil {
		return err
	}
	v.env.Log(evStakingRewardDistributed, total, ids, amounts)
	return nil
}

func (v *ValidatorSet) pay(id, treasury ronin.Address, amount *uint256.Int, ev *abi.Event) error {
	if amount.IsZero() {
		return nil
	}
	bal, err := v.env.State().GetBalance(v.env.To())
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.ErrInsufficientBalance.New(sig("wrapUpEpoch"), bal, amount)
	}
	if err := v.env.Transfer(treasury, amount); err != nil {
		return err
	}
	v.env.Log(ev, id, treasury, amount)
	return nil
}

// recycleDeprecatedRewards sends every deprecated reward back to the vesting contract.
func (v *ValidatorSet) recycleDeprecatedRewards() error {
	amount, err := v.totalDeprecated.Get()
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	if err := v.totalDeprecated.Set(new(uint256.Int)); err != nil {
		return err
	}
	vesting, err := v.vesting(amount)
	if err != nil {
		return err
	}
	if err := vesting.Receive(); err != nil {
		return err
	}
	recipient := v.linker.Address(dpos.ContractStakingVesting)
	logger.Warn("deprecated reward recycled", "recipient", recipient, "amount", amount)
	v.env.Log(evDeprecatedRewardRecycled, recipient, amount)
	return nil
}

func (v *ValidatorSet) deprecate(amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	metricDeprecatedRON().Add(1)
	return v.totalDeprecated.Add(amount)
}

func mulDiv(x *uint256.Int, num, den uint64) *uint256.Int {
	out := new(uint256.Int).Mul(x, uint256.NewInt(num))
	return out.Div(out, uint256.NewInt(den))
}

func addTo(m *solidity.Mapping[ronin.Address, *uint256.Int], key ronin.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	current, err := m.Get(key)
	if err != nil {
		return err
	}
	return m.Set(key, new(uint256.Int).Add(current, amount))
}
