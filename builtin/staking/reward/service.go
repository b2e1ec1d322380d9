// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward settles pool rewards per claimant. A claimant earns for a
// period on the lowest amount it held during that period, so stake added in a
// period starts earning from the next one.
package reward

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var (
	slotPools          = solidity.Slot("Staking", "reward-pools", "mapping(address => struct Pool)")
	slotUsers          = solidity.Slot("Staking", "reward-users", "mapping(bytes32 => struct User)")
	slotAccumulatedRps = solidity.Slot("Staking", "reward-accumulated-rps", "mapping(bytes32 => struct PeriodARps)")
)

type Service struct {
	pools          *solidity.Mapping[ronin.Address, *Pool]
	users          *solidity.Mapping[ronin.Bytes32, *User]
	accumulatedRps *solidity.Mapping[ronin.Bytes32, *PeriodARps]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:          solidity.NewMapping[ronin.Address, *Pool](sctx, slotPools),
		users:          solidity.NewMapping[ronin.Bytes32, *User](sctx, slotUsers),
		accumulatedRps: solidity.NewMapping[ronin.Bytes32, *PeriodARps](sctx, slotAccumulatedRps),
	}
}

func userKey(pool, user ronin.Address) ronin.Bytes32 {
	return solidity.Pair(pool, user)
}

func periodKey(pool ronin.Address, period uint64) ronin.Bytes32 {
	return solidity.Pair(pool, solidity.Uint64Key(period))
}

// User returns the settlement record of user in pool.
func (s *Service) User(pool, user ronin.Address) (*User, error) {
	u, err := s.users.Get(userKey(pool, user))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user reward")
	}
	return u.normalize(), nil
}

// Pool returns the accumulator of pool.
func (s *Service) Pool(pool ronin.Address) (*Pool, error) {
	p, err := s.pools.Get(pool)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool reward")
	}
	return p.normalize(), nil
}

// PeriodARps returns the aRps snapshot of pool at period, nil if not recorded.
func (s *Service) PeriodARps(pool ronin.Address, period uint64) (*PeriodARps, error) {
	w, err := s.accumulatedRps.Get(periodKey(pool, period))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get accumulated rps")
	}
	if w.LastPeriod == 0 {
		return nil, nil
	}
	return w, nil
}

func (s *Service) setUser(pool, user ronin.Address, u *User) error {
	return errors.Wrap(s.users.Set(userKey(pool, user), u), "failed to set user reward")
}

func (s *Service) setPool(pool ronin.Address, p *Pool) error {
	return errors.Wrap(s.pools.Set(pool, p), "failed to set pool reward")
}

// GetReward returns the reward of user in pool, settled up to latestPeriod, given
// the amount user currently stakes.
func (s *Service) GetReward(pool, user ronin.Address, latestPeriod uint64, latestAmount *uint256.Int) (*uint256.Int, error) {
	u, err := s.User(pool, user)
	if err != nil {
		return nil, err
	}
	p, err := s.Pool(pool)
	if err != nil {
		return nil, err
	}
	return s.reward(pool, u, p, latestPeriod, latestAmount)
}

func (s *Service) reward(pool ronin.Address, u *User, p *Pool, latestPeriod uint64, latestAmount *uint256.Int) (*uint256.Int, error) {
	if u.LastPeriod == latestPeriod {
		return new(uint256.Int).Set(u.Debited), nil
	}

	var (
		aRps       = u.ARps
		lastReward = new(uint256.Int)
	)
	wrapped, err := s.PeriodARps(pool, u.LastPeriod)
	if err != nil {
		return nil, err
	}
	// the period of the last sync was recorded, it pays on the lowest amount held
	if wrapped != nil {
		aRps = wrapped.Inner
		lastReward.Mul(u.LowestAmount, new(uint256.Int).Sub(aRps, u.ARps))
	}
	newReward := new(uint256.Int).Mul(latestAmount, new(uint256.Int).Sub(p.ARps, aRps))

	total := new(uint256.Int).Add(lastReward, newReward)
	total.Div(total, ronin.RewardPrecision)
	return total.Add(total, u.Debited), nil
}

// SyncUserReward settles user before its stake in pool changes from current to newAmount.
// stakingTotal is the pool total before the change.
func (s *Service) SyncUserReward(
	pool, user ronin.Address,
	period uint64,
	stakingTotal, current, newAmount *uint256.Int,
) (*SyncResult, error) {
	p, err := s.Pool(pool)
	if err != nil {
		return nil, err
	}
	lastShares := new(uint256.Int).Set(p.Shares)
	if p.SharesPeriod < period {
		p.Shares = new(uint256.Int).Set(stakingTotal)
		p.SharesPeriod = period
	}

	u, err := s.User(pool, user)
	if err != nil {
		return nil, err
	}
	debited, err := s.reward(pool, u, p, period, current)
	if err != nil {
		return nil, err
	}
	result := &SyncResult{Debited: debited}
	if !u.Debited.Eq(debited) {
		u.Debited = debited
		result.DebitedChanged = true
	}

	if err := syncMinStakingAmount(p, u, period, newAmount, current); err != nil {
		return nil, err
	}
	u.ARps = new(uint256.Int).Set(p.ARps)
	u.LastPeriod = period

	if !p.Shares.Eq(lastShares) {
		result.SharesChanged = true
		result.Shares = new(uint256.Int).Set(p.Shares)
	}
	if err := s.setUser(pool, user, u); err != nil {
		return nil, err
	}
	if err := s.setPool(pool, p); err != nil {
		return nil, err
	}
	return result, nil
}

// syncMinStakingAmount lowers the user's lowest amount of the period to newAmount,
// removing the difference from the pool shares.
func syncMinStakingAmount(p *Pool, u *User, period uint64, newAmount, current *uint256.Int) error {
	if u.LastPeriod < period {
		u.LowestAmount = new(uint256.Int).Set(current)
	}
	lowest := u.LowestAmount
	if newAmount.Lt(lowest) {
		lowest = newAmount
	}
	diff := new(uint256.Int).Sub(u.LowestAmount, lowest)
	if !diff.IsZero() {
		u.LowestAmount = new(uint256.Int).Set(lowest)
		if p.Shares.Lt(diff) {
			return reverts.ErrInvalidPoolShare
		}
		p.Shares = new(uint256.Int).Sub(p.Shares, diff)
	}
	return nil
}

// Claim settles and zeroes the reward of user in pool, returning the claimed amount.
func (s *Service) Claim(pool, user ronin.Address, period uint64, current *uint256.Int) (*uint256.Int, error) {
	p, err := s.Pool(pool)
	if err != nil {
		return nil, err
	}
	u, err := s.User(pool, user)
	if err != nil {
		return nil, err
	}
	amount, err := s.reward(pool, u, p, period, current)
	if err != nil {
		return nil, err
	}

	u.Debited = new(uint256.Int)
	if err := syncMinStakingAmount(p, u, period, current, current); err != nil {
		return nil, err
	}
	u.LastPeriod = period
	u.ARps = new(uint256.Int).Set(p.ARps)

	if err := s.setUser(pool, user, u); err != nil {
		return nil, err
	}
	if err := s.setPool(pool, p); err != nil {
		return nil, err
	}
	return amount, nil
}

// RecordRewards credits the rewards of period to pools. A pool already recorded
// for the period is reported as conflicted and skipped. totals are the current
// staking totals of the pools.
func (s *Service) RecordRewards(pools []ronin.Address, rewards, totals []*uint256.Int, period uint64) (*Recorded, error) {
	if len(pools) != len(rewards) || len(pools) != len(totals) {
		return nil, reverts.ErrInvalidArrays
	}

	result := &Recorded{}
	for i, pool := range pools {
		wrapped, err := s.PeriodARps(pool, period)
		if err != nil {
			return nil, err
		}
		if wrapped != nil && wrapped.LastPeriod == period {
			result.Conflicted = append(result.Conflicted, pool)
			continue
		}

		p, err := s.Pool(pool)
		if err != nil {
			return nil, err
		}
		if p.SharesPeriod < period {
			p.Shares = new(uint256.Int).Set(totals[i])
			p.SharesPeriod = period
		}

		// no rps if nobody holds a share
		rps := new(uint256.Int)
		if !p.Shares.IsZero() {
			rps.Mul(rewards[i], ronin.RewardPrecision)
			rps.Div(rps, p.Shares)
		}
		p.ARps = new(uint256.Int).Add(p.ARps, rps)
		if err := s.accumulatedRps.Set(periodKey(pool, period), &PeriodARps{
			Inner:      new(uint256.Int).Set(p.ARps),
			LastPeriod: period,
		}); err != nil {
			return nil, errors.Wrap(err, "failed to set accumulated rps")
		}
		p.Shares = new(uint256.Int).Set(totals[i])
		if err := s.setPool(pool, p); err != nil {
			return nil, err
		}

		result.Updated = append(result.Updated, pool)
		result.ARps = append(result.ARps, new(uint256.Int).Set(p.ARps))
		result.Shares = append(result.Shares, new(uint256.Int).Set(p.Shares))
	}
	return result, nil
}

// MoveLowest hands the settled position of from over to a fresh record of to,
// leaving from frozen with what it accrued so far. Both must be synced at period.
func (s *Service) MoveLowest(pool, from, to ronin.Address, period uint64) error {
	p, err := s.Pool(pool)
	if err != nil {
		return err
	}
	old, err := s.User(pool, from)
	if err != nil {
		return err
	}
	next, err := s.User(pool, to)
	if err != nil {
		return err
	}

	// to holds no stake in the pool, settle whatever it accrued before
	debited, err := s.reward(pool, next, p, period, new(uint256.Int))
	if err != nil {
		return err
	}
	next.Debited = debited
	next.LowestAmount = new(uint256.Int).Set(old.LowestAmount)
	next.ARps = new(uint256.Int).Set(p.ARps)
	next.LastPeriod = period
	old.LowestAmount = new(uint256.Int)

	if err := s.setUser(pool, to, next); err != nil {
		return err
	}
	return s.setUser(pool, from, old)
}
