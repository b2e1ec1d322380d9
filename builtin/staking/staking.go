// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the reward ledger: candidate pools, self-stake,
// delegations and the settlement of rewards recorded by the validator set.
// Every consensus address argument is resolved to a candidate id first.
package staking

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/builtin/staking/pool"
	"github.com/ronin-chain/dpos-contract/builtin/staking/reward"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ContractName is the name of the embedded ABI.
const ContractName = "Staking"

var (
	logger = log.WithContext("pkg", "staking")

	metricOperations   = metrics.LazyLoadCounterVec("staking_operations_count", []string{"operation"})
	metricClaimedTotal = metrics.LazyLoadCounter("staking_claimed_rewards_count")

	slotMinValidatorStakingAmount = solidity.Slot(ContractName, "staking-min-validator-staking-amount", "uint256")
	slotMinCommissionRate         = solidity.Slot(ContractName, "staking-min-commission-rate", "uint256")
	slotMaxCommissionRate         = solidity.Slot(ContractName, "staking-max-commission-rate", "uint256")
	slotCooldownSecsToUndelegate  = solidity.Slot(ContractName, "staking-cooldown-secs-to-undelegate", "uint256")
	slotWaitingSecsToRevoke       = solidity.Slot(ContractName, "staking-waiting-secs-to-revoke", "uint256")
	slotMinEffectiveDaysOnwards   = solidity.Slot(ContractName, "staking-min-effective-days-onwards", "uint256")
)

var (
	evPoolApproved                     = gen.MustEvent(ContractName, "PoolApproved")
	evPoolsDeprecated                  = gen.MustEvent(ContractName, "PoolsDeprecated")
	evStakingAmountTransferred         = gen.MustEvent(ContractName, "StakingAmountTransferred")
	evPoolAdminChanged                 = gen.MustEvent(ContractName, "PoolAdminChanged")
	evStaked                           = gen.MustEvent(ContractName, "Staked")
	evUnstaked                         = gen.MustEvent(ContractName, "Unstaked")
	evDelegated                        = gen.MustEvent(ContractName, "Delegated")
	evUndelegated                      = gen.MustEvent(ContractName, "Undelegated")
	evUserRewardUpdated                = gen.MustEvent(ContractName, "UserRewardUpdated")
	evRewardClaimed                    = gen.MustEvent(ContractName, "RewardClaimed")
	evPoolSharesUpdated                = gen.MustEvent(ContractName, "PoolSharesUpdated")
	evPoolsUpdated                     = gen.MustEvent(ContractName, "PoolsUpdated")
	evPoolsUpdateConflicted            = gen.MustEvent(ContractName, "PoolsUpdateConflicted")
	evMinValidatorStakingAmountUpdated = gen.MustEvent(ContractName, "MinValidatorStakingAmountUpdated")
	evCommissionRateRangeUpdated       = gen.MustEvent(ContractName, "CommissionRateRangeUpdated")
	evCooldownSecsToUndelegateUpdated  = gen.MustEvent(ContractName, "CooldownSecsToUndelegateUpdated")
	evWaitingSecsToRevokeUpdated       = gen.MustEvent(ContractName, "WaitingSecsToRevokeUpdated")
	evMinEffectiveDaysOnwardsUpdated   = gen.MustEvent(ContractName, "MinEffectiveDaysOnwardsUpdated")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// PoolDetail is the public view of a pool.
type PoolDetail struct {
	Admin         ronin.Address
	StakingAmount *uint256.Int
	StakingTotal  *uint256.Int
}

// Staking implements the native methods of the `Staking` contract.
type Staking struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable *solidity.Initializable
	pools         *pool.Repository
	rewards       *reward.Service

	minValidatorStakingAmount *solidity.Uint256
	minCommissionRate         *solidity.Uint256
	maxCommissionRate         *solidity.Uint256
	cooldownSecsToUndelegate  *solidity.Uint256
	waitingSecsToRevoke       *solidity.Uint256
	minEffectiveDaysOnwards   *solidity.Uint256
}

// New binds the contract to the call env, env.To() is the contract address.
func New(env *xenv.Environment, linker dpos.Linker) *Staking {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Staking{
		env:                       env,
		linker:                    linker,
		initializable:             solidity.NewInitializable(sctx),
		pools:                     pool.NewRepository(sctx),
		rewards:                   reward.New(sctx),
		minValidatorStakingAmount: solidity.NewUint256(sctx, slotMinValidatorStakingAmount),
		minCommissionRate:         solidity.NewUint256(sctx, slotMinCommissionRate),
		maxCommissionRate:         solidity.NewUint256(sctx, slotMaxCommissionRate),
		cooldownSecsToUndelegate:  solidity.NewUint256(sctx, slotCooldownSecsToUndelegate),
		waitingSecsToRevoke:       solidity.NewUint256(sctx, slotWaitingSecsToRevoke),
		minEffectiveDaysOnwards:   solidity.NewUint256(sctx, slotMinEffectiveDaysOnwards),
	}
}

var _ dpos.Staking = (*Staking)(nil)

//
// Initializers
//

func (s *Staking) Initialize(
	minValidatorStakingAmount *uint256.Int,
	minCommissionRate, maxCommissionRate uint64,
	cooldownSecsToUndelegate, waitingSecsToRevoke uint64,
) error {
	if err := s.initializable.Reinitialize(1); err != nil {
		return err
	}
	if err := s.setMinValidatorStakingAmount(minValidatorStakingAmount); err != nil {
		return err
	}
	if err := s.setCommissionRateRange(minCommissionRate, maxCommissionRate); err != nil {
		return err
	}
	if err := s.setCooldownSecsToUndelegate(cooldownSecsToUndelegate); err != nil {
		return err
	}
	return s.setWaitingSecsToRevoke(waitingSecsToRevoke)
}

// InitializeV3 enables scheduled commission rate updates.
func (s *Staking) InitializeV3(minEffectiveDaysOnwards uint64) error {
	if err := s.initializable.Reinitialize(3); err != nil {
		return err
	}
	return s.setMinEffectiveDaysOnwards(minEffectiveDaysOnwards)
}

//
// Peers
//

func (s *Staking) profiles() (dpos.Profiles, error) {
	return s.linker.Profiles(s.env, nil)
}

func (s *Staking) validatorSet() (dpos.ValidatorSet, error) {
	return s.linker.ValidatorSet(s.env, nil)
}

func (s *Staking) resolve(addr ronin.Address) (ronin.Address, error) {
	profiles, err := s.profiles()
	if err != nil {
		return ronin.Address{}, err
	}
	return profiles.Resolve(addr, dpos.ByConsensus)
}

func (s *Staking) currentPeriod() (uint64, error) {
	vs, err := s.validatorSet()
	if err != nil {
		return 0, err
	}
	return vs.CurrentPeriod()
}

//
// Getters
//

func (s *Staking) MinValidatorStakingAmount() (*uint256.Int, error) {
	return s.minValidatorStakingAmount.Get()
}

func (s *Staking) GetCommissionRateRange() (uint64, uint64, error) {
	lo, err := s.minCommissionRate.Uint64()
	if err != nil {
		return 0, 0, err
	}
	hi, err := s.maxCommissionRate.Uint64()
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func (s *Staking) CooldownSecsToUndelegate() (uint64, error) {
	return s.cooldownSecsToUndelegate.Uint64()
}

func (s *Staking) WaitingSecsToRevoke() (uint64, error) {
	return s.waitingSecsToRevoke.Uint64()
}

func (s *Staking) MinEffectiveDaysOnwards() (uint64, error) {
	return s.minEffectiveDaysOnwards.Uint64()
}

// GetPoolDetail returns the pool of the candidate currently using consensus.
func (s *Staking) GetPoolDetail(consensus ronin.Address) (*PoolDetail, error) {
	id, err := s.resolve(consensus)
	if err != nil {
		return nil, err
	}
	return s.GetPoolDetailById(id)
}

// GetPoolDetailById reads the pool of id, zero for unknown ids.
func (s *Staking) GetPoolDetailById(id ronin.Address) (*PoolDetail, error) {
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	return &PoolDetail{Admin: p.Admin, StakingAmount: p.StakingAmount, StakingTotal: p.StakingTotal}, nil
}

// GetStakingAmount returns the self-stake when user is the pool admin, else its delegation.
func (s *Staking) GetStakingAmount(consensus, user ronin.Address) (*uint256.Int, error) {
	id, err := s.resolve(consensus)
	if err != nil {
		return nil, err
	}
	return s.stakingAmount(id, user)
}

func (s *Staking) GetManyStakingAmounts(consensusList, users []ronin.Address) ([]*uint256.Int, error) {
	if len(consensusList) != len(users) {
		return nil, reverts.ErrInvalidArrays
	}
	out := make([]*uint256.Int, len(users))
	for i := range users {
		amount, err := s.GetStakingAmount(consensusList[i], users[i])
		if err != nil {
			return nil, err
		}
		out[i] = amount
	}
	return out, nil
}

func (s *Staking) stakingAmount(id, user ronin.Address) (*uint256.Int, error) {
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Exists() && p.Admin == user {
		return p.StakingAmount, nil
	}
	return s.pools.Delegation(id, user)
}

func (s *Staking) GetStakingTotal(consensus ronin.Address) (*uint256.Int, error) {
	id, err := s.resolve(consensus)
	if err != nil {
		return nil, err
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	return p.StakingTotal, nil
}

func (s *Staking) GetManyStakingTotals(consensusList []ronin.Address) ([]*uint256.Int, error) {
	profiles, err := s.profiles()
	if err != nil {
		return nil, err
	}
	ids, err := profiles.ResolveMany(consensusList, dpos.ByConsensus)
	if err != nil {
		return nil, err
	}
	return s.GetManyStakingTotalsById(ids)
}

func (s *Staking) GetManyStakingTotalsById(ids []ronin.Address) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(ids))
	for i, id := range ids {
		p, err := s.pools.Get(id)
		if err != nil {
			return nil, err
		}
		out[i] = p.StakingTotal
	}
	return out, nil
}

func (s *Staking) IsAdminOfActivePool(admin ronin.Address) (bool, error) {
	id, err := s.pools.PoolOfActiveAdmin(admin)
	if err != nil {
		return false, err
	}
	return !id.IsZero(), nil
}

// GetPoolAddressOf returns the id of the active pool administered by admin.
func (s *Staking) GetPoolAddressOf(admin ronin.Address) (ronin.Address, error) {
	return s.pools.PoolOfActiveAdmin(admin)
}

// GetReward returns the unclaimed reward of user in the pool of consensus.
func (s *Staking) GetReward(consensus, user ronin.Address) (*uint256.Int, error) {
	id, err := s.resolve(consensus)
	if err != nil {
		return nil, err
	}
	period, err := s.currentPeriod()
	if err != nil {
		return nil, err
	}
	return s.reward(id, user, period)
}

func (s *Staking) GetRewards(user ronin.Address, consensusList []ronin.Address) ([]*uint256.Int, error) {
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
	out := make([]*uint256.Int, len(ids))
	for i, id := range ids {
		if out[i], err = s.reward(id, user, period); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Staking) reward(id, user ronin.Address, period uint64) (*uint256.Int, error) {
	amount, err := s.stakingAmount(id, user)
	if err != nil {
		return nil, err
	}
	return s.rewards.GetReward(id, user, period, amount)
}

//
// Helpers
//

// activePool loads the pool of id, failing unless it is active.
func (s *Staking) activePool(id ronin.Address) (*pool.Pool, error) {
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	active, err := s.pools.IsActive(p)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, reverts.ErrInactivePool.New(id)
	}
	return p, nil
}

// syncUserReward settles user in pool p before its stake changes to newAmount.
func (s *Staking) syncUserReward(p *pool.Pool, user ronin.Address, newAmount *uint256.Int) error {
	period, err := s.currentPeriod()
	if err != nil {
		return err
	}
	current, err := s.stakingAmount(p.ID, user)
	if err != nil {
		return err
	}
	res, err := s.rewards.SyncUserReward(p.ID, user, period, p.StakingTotal, current, newAmount)
	if err != nil {
		return err
	}
	if res.DebitedChanged {
		s.env.Log(evUserRewardUpdated, p.ID, user, res.Debited)
	}
	if res.SharesChanged {
		s.env.Log(evPoolSharesUpdated, period, p.ID, res.Shares)
	}
	return nil
}

func (s *Staking) requireInRange(rate uint64) error {
	lo, hi, err := s.GetCommissionRateRange()
	if err != nil {
		return err
	}
	if rate < lo || rate > hi {
		return reverts.ErrInvalidCommissionRate
	}
	return nil
}

// transfer pays out of the contract balance on behalf of method.
func (s *Staking) transfer(method string, to ronin.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.env.Transfer(to, amount); err != nil {
		bal, _ := s.env.State().GetBalance(s.env.To())
		return reverts.ErrInsufficientBalance.New(sig(method), bal, amount)
	}
	return nil
}
