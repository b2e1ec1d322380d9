// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/staking/pool"
	"github.com/ronin-chain/dpos-contract/ronin"
)

func countOperation(op string) {
	metricOperations().AddWithLabel(1, map[string]string{"operation": op})
}

//
// Candidate lifecycle
//

// ApplyValidatorCandidate opens a pool for a new candidate. The call value is the
// initial self-stake and the caller becomes the admin and the treasury.
func (s *Staking) ApplyValidatorCandidate(
	candidateAdmin, consensus, treasury ronin.Address,
	commissionRate uint64,
	pubkey, proof []byte,
) error {
	admin := s.env.Caller()
	if admin != candidateAdmin || candidateAdmin != treasury {
		return reverts.ErrThreeInteractionAddrsNotEqual
	}
	if active, err := s.IsAdminOfActivePool(admin); err != nil {
		return err
	} else if active {
		return reverts.ErrAdminOfAnyActivePoolForbidden.New(admin)
	}
	if err := s.requireInRange(commissionRate); err != nil {
		return err
	}
	minAmount, err := s.MinValidatorStakingAmount()
	if err != nil {
		return err
	}
	amount := s.env.Value()
	if amount.Lt(minAmount) {
		return reverts.ErrInsufficientStakingAmount
	}

	id := consensus
	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	if err := profiles.ExecApplyValidatorCandidate(admin, id, pubkey, proof); err != nil {
		return err
	}
	vs, err := s.validatorSet()
	if err != nil {
		return err
	}
	if err := vs.ExecApplyValidatorCandidate(admin, id, commissionRate); err != nil {
		return err
	}

	p := &pool.Pool{ID: id, Admin: admin, StakingAmount: new(uint256.Int), StakingTotal: new(uint256.Int)}
	if err := s.pools.Set(p); err != nil {
		return err
	}
	if err := s.pools.Activate(id, admin); err != nil {
		return err
	}
	s.env.Log(evPoolApproved, id, admin)

	if err := s.stake(p, admin, amount); err != nil {
		return err
	}
	logger.Info("candidate applied", "id", id, "admin", admin, "amount", amount)
	countOperation("apply")
	return nil
}

// RequestRenounce schedules the candidate of consensus for revocation.
func (s *Staking) RequestRenounce(consensus ronin.Address) error {
	p, err := s.adminPool(consensus)
	if err != nil {
		return err
	}
	waiting, err := s.WaitingSecsToRevoke()
	if err != nil {
		return err
	}
	vs, err := s.validatorSet()
	if err != nil {
		return err
	}
	return vs.ExecRequestRenounceCandidate(p.ID, waiting)
}

// RequestUpdateCommissionRate schedules a new rate, effective at the start of the
// day effectiveDaysOnwards days from now.
func (s *Staking) RequestUpdateCommissionRate(consensus ronin.Address, effectiveDaysOnwards, rate uint64) error {
	p, err := s.adminPool(consensus)
	if err != nil {
		return err
	}
	minDays, err := s.MinEffectiveDaysOnwards()
	if err != nil {
		return err
	}
	if effectiveDaysOnwards < minDays {
		return reverts.ErrInvalidEffectiveDaysOnwards
	}
	if err := s.requireInRange(rate); err != nil {
		return err
	}

	now := s.env.BlockContext().Time
	effective := now/ronin.DefaultPeriodDuration*ronin.DefaultPeriodDuration + effectiveDaysOnwards*ronin.DefaultPeriodDuration
	vs, err := s.validatorSet()
	if err != nil {
		return err
	}
	return vs.ExecRequestUpdateCommissionRate(p.ID, effective, rate)
}

// adminPool resolves consensus to its active pool and requires the caller to be its admin.
func (s *Staking) adminPool(consensus ronin.Address) (*pool.Pool, error) {
	id, err := s.resolve(consensus)
	if err != nil {
		return nil, err
	}
	p, err := s.activePool(id)
	if err != nil {
		return nil, err
	}
	if p.Admin != s.env.Caller() {
		return nil, reverts.ErrOnlyPoolAdminAllowed
	}
	return p, nil
}

//
// Self-stake
//

// Stake adds the call value to the self-stake of the caller's pool.
func (s *Staking) Stake(consensus ronin.Address) error {
	amount := s.env.Value()
	if amount.IsZero() {
		return reverts.ErrZeroValue
	}
	p, err := s.adminPool(consensus)
	if err != nil {
		return err
	}
	if err := s.stake(p, p.Admin, amount); err != nil {
		return err
	}
	countOperation("stake")
	return nil
}

func (s *Staking) stake(p *pool.Pool, admin ronin.Address, amount *uint256.Int) error {
	next := new(uint256.Int).Add(p.StakingAmount, amount)
	if err := s.syncUserReward(p, admin, next); err != nil {
		return err
	}
	p.StakingAmount = next
	p.StakingTotal = new(uint256.Int).Add(p.StakingTotal, amount)
	if err := s.pools.Set(p); err != nil {
		return err
	}
	if err := s.pools.SetLastDelegating(p.ID, admin, s.env.BlockContext().Time); err != nil {
		return err
	}
	s.env.Log(evStaked, p.ID, amount)
	return nil
}

// Unstake withdraws part of the self-stake, keeping at least the minimum.
func (s *Staking) Unstake(consensus ronin.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.ErrUnstakeZeroAmount
	}
	p, err := s.adminPool(consensus)
	if err != nil {
		return err
	}
	if p.StakingAmount.Lt(amount) {
		return reverts.ErrInsufficientStakingAmount
	}
	remain := new(uint256.Int).Sub(p.StakingAmount, amount)
	minAmount, err := s.MinValidatorStakingAmount()
	if err != nil {
		return err
	}
	if remain.Lt(minAmount) {
		return reverts.ErrStakingAmountLeft
	}
	if early, err := s.tooEarly(p.ID, p.Admin); err != nil {
		return err
	} else if early {
		return reverts.ErrUnstakeTooEarly
	}

	if err := s.syncUserReward(p, p.Admin, remain); err != nil {
		return err
	}
	p.StakingAmount = remain
	p.StakingTotal = new(uint256.Int).Sub(p.StakingTotal, amount)
	if err := s.pools.Set(p); err != nil {
		return err
	}
	if err := s.transfer("unstake", p.Admin, amount); err != nil {
		return err
	}
	s.env.Log(evUnstaked, p.ID, amount)
	countOperation("unstake")
	return nil
}

func (s *Staking) tooEarly(id, user ronin.Address) (bool, error) {
	last, err := s.pools.LastDelegating(id, user)
	if err != nil {
		return false, err
	}
	cooldown, err := s.CooldownSecsToUndelegate()
	if err != nil {
		return false, err
	}
	return s.env.BlockContext().Time < last+cooldown, nil
}

//
// Delegation
//

// Delegate adds the call value to the caller's delegation in the pool of consensus.
func (s *Staking) Delegate(consensus ronin.Address) error {
	amount := s.env.Value()
	if amount.IsZero() {
		return reverts.ErrZeroValue
	}
	id, err := s.resolve(consensus)
	if err != nil {
		return err
	}
	if err := s.delegate(id, s.env.Caller(), amount); err != nil {
		return err
	}
	countOperation("delegate")
	return nil
}

func (s *Staking) delegate(id, delegator ronin.Address, amount *uint256.Int) error {
	if active, err := s.IsAdminOfActivePool(delegator); err != nil {
		return err
	} else if active {
		return reverts.ErrAdminOfAnyActivePoolForbidden.New(delegator)
	}
	p, err := s.activePool(id)
	if err != nil {
		return err
	}
	if was, err := s.pools.WasAdmin(id, delegator); err != nil {
		return err
	} else if was || p.Admin == delegator {
		return reverts.ErrPoolAdminForbidden
	}

	current, err := s.pools.Delegation(id, delegator)
	if err != nil {
		return err
	}
	next := new(uint256.Int).Add(current, amount)
	if err := s.syncUserReward(p, delegator, next); err != nil {
		return err
	}
	if err := s.pools.SetDelegation(id, delegator, next); err != nil {
		return err
	}
	p.StakingTotal = new(uint256.Int).Add(p.StakingTotal, amount)
	if err := s.pools.Set(p); err != nil {
		return err
	}
	if err := s.pools.SetLastDelegating(id, delegator, s.env.BlockContext().Time); err != nil {
		return err
	}
	s.env.Log(evDelegated, delegator, id, amount)
	return nil
}

// Undelegate withdraws amount of the caller's delegation in the pool of consensus.
func (s *Staking) Undelegate(consensus ronin.Address, amount *uint256.Int) error {
	id, err := s.resolve(consensus)
	if err != nil {
		return err
	}
	delegator := s.env.Caller()
	if err := s.undelegate(id, delegator, amount); err != nil {
		return err
	}
	if err := s.transfer("undelegate", delegator, amount); err != nil {
		return err
	}
	countOperation("undelegate")
	return nil
}

func (s *Staking) undelegate(id, delegator ronin.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.ErrUndelegateZeroAmount
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return err
	}
	if p.Admin == delegator {
		return reverts.ErrPoolAdminForbidden
	}
	current, err := s.pools.Delegation(id, delegator)
	if err != nil {
		return err
	}
	if current.Lt(amount) {
		return reverts.ErrInsufficientDelegatingAmount
	}
	if early, err := s.tooEarly(id, delegator); err != nil {
		return err
	} else if early {
		return reverts.ErrUndelegateTooEarly
	}

	next := new(uint256.Int).Sub(current, amount)
	if err := s.syncUserReward(p, delegator, next); err != nil {
		return err
	}
	if err := s.pools.SetDelegation(id, delegator, next); err != nil {
		return err
	}
	p.StakingTotal = new(uint256.Int).Sub(p.StakingTotal, amount)
	if err := s.pools.Set(p); err != nil {
		return err
	}
	s.env.Log(evUndelegated, delegator, id, amount)
	return nil
}

// Redelegate moves amount of the caller's delegation from one pool to another.
func (s *Staking) Redelegate(srcConsensus, dstConsensus ronin.Address, amount *uint256.Int) error {
	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	ids, err := profiles.ResolveMany([]ronin.Address{srcConsensus, dstConsensus}, dpos.ByConsensus)
	if err != nil {
		return err
	}
	if ids[0] == ids[1] {
		return reverts.ErrCannotRedelegateToSamePool
	}
	delegator := s.env.Caller()
	if err := s.undelegate(ids[0], delegator, amount); err != nil {
		return err
	}
	if err := s.delegate(ids[1], delegator, amount); err != nil {
		return err
	}
	countOperation("redelegate")
	return nil
}

//
// Rewards
//

// ClaimRewards pays the caller every reward it has in the pools of consensusList.
func (s *Staking) ClaimRewards(consensusList []ronin.Address) (*uint256.Int, error) {
	amount, err := s.claimRewards(consensusList, s.env.Caller())
	if err != nil {
		return nil, err
	}
	if err := s.transfer("claimRewards", s.env.Caller(), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// DelegateRewards claims the caller's rewards and delegates them to dstConsensus.
func (s *Staking) DelegateRewards(consensusList []ronin.Address, dstConsensus ronin.Address) (*uint256.Int, error) {
	delegator := s.env.Caller()
	amount, err := s.claimRewards(consensusList, delegator)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return amount, nil
	}
	dst, err := s.resolve(dstConsensus)
	if err != nil {
		return nil, err
	}
	if err := s.delegate(dst, delegator, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (s *Staking) claimRewards(consensusList []ronin.Address, user ronin.Address) (*uint256.Int, error) {
	profiles, err := s.profiles()
	if err != nil {
		return nil, err
	}
	ids, err := profiles.ResolveMany(consensusList, dpos.ByConsensus)
	if err != nil {
		return nil, err
	}
	period, err := s.currentPeriod()
	if err != nil {
		return nil, err
	}

	total := new(uint256.Int)
	for _, id := range ids {
		current, err := s.stakingAmount(id, user)
		if err != nil {
			return nil, err
		}
		claimed, err := s.rewards.Claim(id, user, period, current)
		if err != nil {
			return nil, err
		}
		s.env.Log(evRewardClaimed, id, user, claimed)
		s.env.Log(evUserRewardUpdated, id, user, new(uint256.Int))
		total.Add(total, claimed)
	}
	metricClaimedTotal().Add(int64(len(ids)))
	return total, nil
}

//
// Internal, called by the validator set
//

// RecordRewards credits the settled delegating rewards of period. The rewards
// arrive as the call value.
func (s *Staking) RecordRewards(ids []ronin.Address, rewards []*uint256.Int, period uint64) error {
	if err := dpos.OnlyContract(s.env, s.linker, dpos.ContractValidator, sig("execRecordRewards")); err != nil {
		return err
	}
	totals, err := s.GetManyStakingTotalsById(ids)
	if err != nil {
		return err
	}
	rec, err := s.rewards.RecordRewards(ids, rewards, totals, period)
	if err != nil {
		return err
	}
	if len(rec.Conflicted) > 0 {
		logger.Warn("pools already recorded", "period", period, "count", len(rec.Conflicted))
		s.env.Log(evPoolsUpdateConflicted, period, rec.Conflicted)
	}
	s.env.Log(evPoolsUpdated, period, rec.Updated, rec.ARps, rec.Shares)
	return nil
}

// DeductStakingAmount takes up to amount from the self-stake of id and sends it
// to the validator set. It returns what was actually deducted.
func (s *Staking) DeductStakingAmount(id ronin.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := dpos.OnlyContract(s.env, s.linker, dpos.ContractValidator, sig("execDeductStakingAmount")); err != nil {
		return nil, err
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	actual := new(uint256.Int).Set(amount)
	if p.StakingAmount.Lt(actual) {
		actual.Set(p.StakingAmount)
	}
	if actual.IsZero() {
		return actual, nil
	}

	next := new(uint256.Int).Sub(p.StakingAmount, actual)
	if err := s.syncUserReward(p, p.Admin, next); err != nil {
		return nil, err
	}
	p.StakingAmount = next
	p.StakingTotal = new(uint256.Int).Sub(p.StakingTotal, actual)
	if err := s.pools.Set(p); err != nil {
		return nil, err
	}
	if err := s.transfer("execDeductStakingAmount", s.env.Caller(), actual); err != nil {
		return nil, err
	}
	s.env.Log(evUnstaked, id, actual)
	return actual, nil
}

// ExecDeprecatePools refunds the self-stake of revoked candidates and closes their pools.
// Delegations stay withdrawable.
func (s *Staking) ExecDeprecatePools(ids []ronin.Address, period uint64) error {
	if err := dpos.OnlyContract(s.env, s.linker, dpos.ContractValidator, sig("execDeprecatePools")); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		p, err := s.pools.Get(id)
		if err != nil {
			return err
		}
		if !p.Exists() {
			continue
		}
		amount := new(uint256.Int).Set(p.StakingAmount)
		if !amount.IsZero() {
			if err := s.syncUserReward(p, p.Admin, new(uint256.Int)); err != nil {
				return err
			}
			p.StakingAmount = new(uint256.Int)
			p.StakingTotal = new(uint256.Int).Sub(p.StakingTotal, amount)
			if err := s.pools.Set(p); err != nil {
				return err
			}
			if err := s.transfer("execDeprecatePools", p.Admin, amount); err != nil {
				return err
			}
			s.env.Log(evStakingAmountTransferred, id, p.Admin, amount)
		}
		if err := s.pools.Deactivate(p.Admin); err != nil {
			return err
		}
	}
	logger.Info("pools deprecated", "period", period, "count", len(ids))
	s.env.Log(evPoolsDeprecated, ids)
	return nil
}

// ExecChangeAdminAddr moves pool id to newAdmin. The old admin keeps its settled
// reward, frozen, and the new admin earns on the self-stake from now on.
func (s *Staking) ExecChangeAdminAddr(id, newAdmin ronin.Address) error {
	if err := dpos.OnlyContract(s.env, s.linker, dpos.ContractProfile, sig("execChangeAdminAddress")); err != nil {
		return err
	}
	if active, err := s.IsAdminOfActivePool(newAdmin); err != nil {
		return err
	} else if active {
		return reverts.ErrAdminOfAnyActivePoolForbidden.New(newAdmin)
	}
	delegation, err := s.pools.Delegation(id, newAdmin)
	if err != nil {
		return err
	}
	if !delegation.IsZero() {
		return reverts.ErrAdminOfAnyActivePoolForbidden.New(newAdmin)
	}

	p, err := s.pools.Get(id)
	if err != nil {
		return err
	}
	oldAdmin := p.Admin
	if err := s.syncUserReward(p, oldAdmin, p.StakingAmount); err != nil {
		return err
	}
	period, err := s.currentPeriod()
	if err != nil {
		return err
	}
	if err := s.rewards.MoveLowest(id, oldAdmin, newAdmin, period); err != nil {
		return err
	}

	p.Admin = newAdmin
	if err := s.pools.Set(p); err != nil {
		return err
	}
	if active, err := s.pools.PoolOfActiveAdmin(oldAdmin); err != nil {
		return err
	} else if active == id {
		if err := s.pools.Deactivate(oldAdmin); err != nil {
			return err
		}
		if err := s.pools.Activate(id, newAdmin); err != nil {
			return err
		}
	}
	s.env.Log(evPoolAdminChanged, id, oldAdmin, newAdmin)
	return nil
}

//
// Governance
//

func (s *Staking) SetMinValidatorStakingAmount(amount *uint256.Int) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setMinValidatorStakingAmount")); err != nil {
		return err
	}
	return s.setMinValidatorStakingAmount(amount)
}

func (s *Staking) SetCommissionRateRange(minRate, maxRate uint64) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setCommissionRateRange")); err != nil {
		return err
	}
	return s.setCommissionRateRange(minRate, maxRate)
}

func (s *Staking) SetCooldownSecsToUndelegate(secs uint64) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setCooldownSecsToUndelegate")); err != nil {
		return err
	}
	return s.setCooldownSecsToUndelegate(secs)
}

func (s *Staking) SetWaitingSecsToRevoke(secs uint64) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setWaitingSecsToRevoke")); err != nil {
		return err
	}
	return s.setWaitingSecsToRevoke(secs)
}

func (s *Staking) SetMinEffectiveDaysOnwards(days uint64) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setMinEffectiveDaysOnwards")); err != nil {
		return err
	}
	return s.setMinEffectiveDaysOnwards(days)
}

func (s *Staking) setMinValidatorStakingAmount(amount *uint256.Int) error {
	if err := s.minValidatorStakingAmount.Set(amount); err != nil {
		return err
	}
	s.env.Log(evMinValidatorStakingAmountUpdated, amount)
	return nil
}

func (s *Staking) setCommissionRateRange(minRate, maxRate uint64) error {
	if maxRate > ronin.MaxPercentage || minRate > maxRate {
		return reverts.ErrInvalidCommissionRate
	}
	if err := s.minCommissionRate.SetUint64(minRate); err != nil {
		return err
	}
	if err := s.maxCommissionRate.SetUint64(maxRate); err != nil {
		return err
	}
	s.env.Log(evCommissionRateRangeUpdated, minRate, maxRate)
	return nil
}

func (s *Staking) setCooldownSecsToUndelegate(secs uint64) error {
	if err := s.cooldownSecsToUndelegate.SetUint64(secs); err != nil {
		return err
	}
	s.env.Log(evCooldownSecsToUndelegateUpdated, secs)
	return nil
}

func (s *Staking) setWaitingSecsToRevoke(secs uint64) error {
	if err := s.waitingSecsToRevoke.SetUint64(secs); err != nil {
		return err
	}
	s.env.Log(evWaitingSecsToRevokeUpdated, secs)
	return nil
}

func (s *Staking) setMinEffectiveDaysOnwards(days uint64) error {
	if days < 1 {
		return reverts.ErrInvalidMinEffectiveDaysOnwards
	}
	if err := s.minEffectiveDaysOnwards.SetUint64(days); err != nil {
		return err
	}
	s.env.Log(evMinEffectiveDaysOnwardsUpdated, days)
	return nil
}
