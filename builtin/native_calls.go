// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/governance"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/slashing"
	"github.com/ronin-chain/dpos-contract/builtin/trustedorg"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

var errUint64Overflow = errors.New("native call: argument exceeds uint64")

func init() {
	initProfileMethods()
	initStakingMethods()
	initValidatorSetMethods()
	initFinalityMethods()
	initVestingMethods()
	initSlashingMethods()
	initTrustedOrgMethods()
	initGovernanceMethods()
}

func toAddresses(list []common.Address) []ronin.Address {
	out := make([]ronin.Address, len(list))
	for i, a := range list {
		out[i] = ronin.Address(a)
	}
	return out
}

func toAmount(v *big.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return uint256.MustFromBig(v)
}

func toAmounts(list []*big.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(list))
	for i, v := range list {
		out[i] = toAmount(v)
	}
	return out
}

func toUint64(env *xenv.Environment, v *big.Int) uint64 {
	if v == nil {
		return 0
	}
	if !v.IsUint64() {
		env.Stop(errUint64Overflow)
	}
	return v.Uint64()
}

func initProfileMethods() {
	register(Profile.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var cooldown *big.Int
			env.ParseArgs(&cooldown)
			env.Must(Profile.Native(env).Initialize(toUint64(env, cooldown)))
			return nil
		}},
		{"initializeV2", func(env *xenv.Environment) []any {
			var args struct {
				Cooldown           *big.Int
				PubkeyVerification bool
			}
			env.ParseArgs(&args)
			env.Must(Profile.Native(env).InitializeV2(toUint64(env, args.Cooldown), args.PubkeyVerification))
			return nil
		}},
		{"execApplyValidatorCandidate", func(env *xenv.Environment) []any {
			var args struct {
				Admin             common.Address
				Id                common.Address
				Pubkey            []byte
				ProofOfPossession []byte
			}
			env.ParseArgs(&args)
			env.Must(Profile.Native(env).ExecApplyValidatorCandidate(
				ronin.Address(args.Admin), ronin.Address(args.Id), args.Pubkey, args.ProofOfPossession))
			return nil
		}},
		{"changeConsensusAddr", func(env *xenv.Environment) []any {
			var args struct {
				Id               common.Address
				NewConsensusAddr common.Address
			}
			env.ParseArgs(&args)
			env.Must(Profile.Native(env).ChangeConsensusAddr(ronin.Address(args.Id), ronin.Address(args.NewConsensusAddr)))
			return nil
		}},
		{"changeAdminAddr", func(env *xenv.Environment) []any {
			var args struct {
				Id           common.Address
				NewAdminAddr common.Address
			}
			env.ParseArgs(&args)
			env.Must(Profile.Native(env).ChangeAdminAddr(ronin.Address(args.Id), ronin.Address(args.NewAdminAddr)))
			return nil
		}},
		{"changePubkey", func(env *xenv.Environment) []any {
			var args struct {
				Id                common.Address
				Pubkey            []byte
				ProofOfPossession []byte
			}
			env.ParseArgs(&args)
			env.Must(Profile.Native(env).ChangePubkey(ronin.Address(args.Id), args.Pubkey, args.ProofOfPossession))
			return nil
		}},
		{"getId2Profile", func(env *xenv.Environment) []any {
			var id common.Address
			env.ParseArgs(&id)
			p, err := Profile.Native(env).GetId2Profile(ronin.Address(id))
			env.Must(err)
			pubkey := p.Pubkey
			if pubkey == nil {
				pubkey = []byte{}
			}
			return []any{p.ID, p.Consensus, p.Admin, p.Treasury, pubkey, p.LastChange, p.RegisteredAt}
		}},
		{"getConsensus2Id", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			id, err := Profile.Native(env).GetConsensus2Id(ronin.Address(consensus))
			env.Must(err)
			return []any{id}
		}},
		{"getManyConsensus2Id", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			ids, err := Profile.Native(env).GetManyConsensus2Id(toAddresses(list))
			env.Must(err)
			return []any{ids}
		}},
		{"getManyId2Consensus", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			consensus, err := Profile.Native(env).GetManyId2Consensus(toAddresses(list))
			env.Must(err)
			return []any{consensus}
		}},
		{"isAdminInHistory", func(env *xenv.Environment) []any {
			var addr common.Address
			env.ParseArgs(&addr)
			ok, err := Profile.Native(env).IsAdminInHistory(ronin.Address(addr))
			env.Must(err)
			return []any{ok}
		}},
		{"setCooldownConfig", func(env *xenv.Environment) []any {
			var cooldown *big.Int
			env.ParseArgs(&cooldown)
			env.Must(Profile.Native(env).SetCooldown(toUint64(env, cooldown)))
			return nil
		}},
		{"getCooldownConfig", func(env *xenv.Environment) []any {
			cooldown, err := Profile.Native(env).Cooldown()
			env.Must(err)
			return []any{cooldown}
		}},
		{"setPubkeyVerification", func(env *xenv.Environment) []any {
			var enabled bool
			env.ParseArgs(&enabled)
			env.Must(Profile.Native(env).SetPubkeyVerification(enabled))
			return nil
		}},
		{"pubkeyVerification", func(env *xenv.Environment) []any {
			enabled, err := Profile.Native(env).PubkeyVerification()
			env.Must(err)
			return []any{enabled}
		}},
	})
}

func initStakingMethods() {
	register(Staking.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var args struct {
				MinValidatorStakingAmount *big.Int
				MinCommissionRate         *big.Int
				MaxCommissionRate         *big.Int
				CooldownSecsToUndelegate  *big.Int
				WaitingSecsToRevoke       *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).Initialize(
				toAmount(args.MinValidatorStakingAmount),
				toUint64(env, args.MinCommissionRate),
				toUint64(env, args.MaxCommissionRate),
				toUint64(env, args.CooldownSecsToUndelegate),
				toUint64(env, args.WaitingSecsToRevoke),
			))
			return nil
		}},
		{"initializeV3", func(env *xenv.Environment) []any {
			var days *big.Int
			env.ParseArgs(&days)
			env.Must(Staking.Native(env).InitializeV3(toUint64(env, days)))
			return nil
		}},
		{"applyValidatorCandidate", func(env *xenv.Environment) []any {
			var args struct {
				CandidateAdmin    common.Address
				ConsensusAddr     common.Address
				TreasuryAddr      common.Address
				CommissionRate    *big.Int
				Pubkey            []byte
				ProofOfPossession []byte
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).ApplyValidatorCandidate(
				ronin.Address(args.CandidateAdmin),
				ronin.Address(args.ConsensusAddr),
				ronin.Address(args.TreasuryAddr),
				toUint64(env, args.CommissionRate),
				args.Pubkey,
				args.ProofOfPossession,
			))
			return nil
		}},
		{"stake", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			env.Must(Staking.Native(env).Stake(ronin.Address(consensus)))
			return nil
		}},
		{"unstake", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr common.Address
				Amount        *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).Unstake(ronin.Address(args.ConsensusAddr), toAmount(args.Amount)))
			return nil
		}},
		{"requestRenounce", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			env.Must(Staking.Native(env).RequestRenounce(ronin.Address(consensus)))
			return nil
		}},
		{"requestUpdateCommissionRate", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr        common.Address
				EffectiveDaysOnwards *big.Int
				CommissionRate       *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).RequestUpdateCommissionRate(
				ronin.Address(args.ConsensusAddr),
				toUint64(env, args.EffectiveDaysOnwards),
				toUint64(env, args.CommissionRate),
			))
			return nil
		}},
		{"delegate", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			env.Must(Staking.Native(env).Delegate(ronin.Address(consensus)))
			return nil
		}},
		{"undelegate", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr common.Address
				Amount        *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).Undelegate(ronin.Address(args.ConsensusAddr), toAmount(args.Amount)))
			return nil
		}},
		{"redelegate", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddrSrc common.Address
				ConsensusAddrDst common.Address
				Amount           *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).Redelegate(
				ronin.Address(args.ConsensusAddrSrc), ronin.Address(args.ConsensusAddrDst), toAmount(args.Amount)))
			return nil
		}},
		{"getReward", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr common.Address
				User          common.Address
			}
			env.ParseArgs(&args)
			reward, err := Staking.Native(env).GetReward(ronin.Address(args.ConsensusAddr), ronin.Address(args.User))
			env.Must(err)
			return []any{reward}
		}},
		{"getRewards", func(env *xenv.Environment) []any {
			var args struct {
				User              common.Address
				ConsensusAddrList []common.Address
			}
			env.ParseArgs(&args)
			rewards, err := Staking.Native(env).GetRewards(ronin.Address(args.User), toAddresses(args.ConsensusAddrList))
			env.Must(err)
			return []any{rewards}
		}},
		{"claimRewards", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			amount, err := Staking.Native(env).ClaimRewards(toAddresses(list))
			env.Must(err)
			return []any{amount}
		}},
		{"delegateRewards", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddrList []common.Address
				ConsensusAddrDst  common.Address
			}
			env.ParseArgs(&args)
			amount, err := Staking.Native(env).DelegateRewards(toAddresses(args.ConsensusAddrList), ronin.Address(args.ConsensusAddrDst))
			env.Must(err)
			return []any{amount}
		}},
		{"getPoolDetail", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			d, err := Staking.Native(env).GetPoolDetail(ronin.Address(consensus))
			env.Must(err)
			return []any{d.Admin, d.StakingAmount, d.StakingTotal}
		}},
		{"getPoolDetailById", func(env *xenv.Environment) []any {
			var id common.Address
			env.ParseArgs(&id)
			d, err := Staking.Native(env).GetPoolDetailById(ronin.Address(id))
			env.Must(err)
			return []any{d.Admin, d.StakingAmount, d.StakingTotal}
		}},
		{"getStakingAmount", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr common.Address
				User          common.Address
			}
			env.ParseArgs(&args)
			amount, err := Staking.Native(env).GetStakingAmount(ronin.Address(args.ConsensusAddr), ronin.Address(args.User))
			env.Must(err)
			return []any{amount}
		}},
		{"getManyStakingAmounts", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddrs []common.Address
				UserList       []common.Address
			}
			env.ParseArgs(&args)
			amounts, err := Staking.Native(env).GetManyStakingAmounts(toAddresses(args.ConsensusAddrs), toAddresses(args.UserList))
			env.Must(err)
			return []any{amounts}
		}},
		{"getStakingTotal", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			total, err := Staking.Native(env).GetStakingTotal(ronin.Address(consensus))
			env.Must(err)
			return []any{total}
		}},
		{"getManyStakingTotals", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			totals, err := Staking.Native(env).GetManyStakingTotals(toAddresses(list))
			env.Must(err)
			return []any{totals}
		}},
		{"getManyStakingTotalsById", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			totals, err := Staking.Native(env).GetManyStakingTotalsById(toAddresses(list))
			env.Must(err)
			return []any{totals}
		}},
		{"isAdminOfActivePool", func(env *xenv.Environment) []any {
			var admin common.Address
			env.ParseArgs(&admin)
			ok, err := Staking.Native(env).IsAdminOfActivePool(ronin.Address(admin))
			env.Must(err)
			return []any{ok}
		}},
		{"getPoolAddressOf", func(env *xenv.Environment) []any {
			var admin common.Address
			env.ParseArgs(&admin)
			id, err := Staking.Native(env).GetPoolAddressOf(ronin.Address(admin))
			env.Must(err)
			return []any{id}
		}},
		{"getCommissionRateRange", func(env *xenv.Environment) []any {
			minRate, maxRate, err := Staking.Native(env).GetCommissionRateRange()
			env.Must(err)
			return []any{minRate, maxRate}
		}},
		{"minValidatorStakingAmount", func(env *xenv.Environment) []any {
			v, err := Staking.Native(env).MinValidatorStakingAmount()
			env.Must(err)
			return []any{v}
		}},
		{"cooldownSecsToUndelegate", func(env *xenv.Environment) []any {
			v, err := Staking.Native(env).CooldownSecsToUndelegate()
			env.Must(err)
			return []any{v}
		}},
		{"waitingSecsToRevoke", func(env *xenv.Environment) []any {
			v, err := Staking.Native(env).WaitingSecsToRevoke()
			env.Must(err)
			return []any{v}
		}},
		{"minEffectiveDaysOnwards", func(env *xenv.Environment) []any {
			v, err := Staking.Native(env).MinEffectiveDaysOnwards()
			env.Must(err)
			return []any{v}
		}},
		{"execRecordRewards", func(env *xenv.Environment) []any {
			var args struct {
				PoolIds []common.Address
				Rewards []*big.Int
				Period  *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).RecordRewards(toAddresses(args.PoolIds), toAmounts(args.Rewards), toUint64(env, args.Period)))
			return nil
		}},
		{"execDeductStakingAmount", func(env *xenv.Environment) []any {
			var args struct {
				PoolId common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			actual, err := Staking.Native(env).DeductStakingAmount(ronin.Address(args.PoolId), toAmount(args.Amount))
			env.Must(err)
			return []any{actual}
		}},
		{"execDeprecatePools", func(env *xenv.Environment) []any {
			var args struct {
				PoolIds []common.Address
				Period  *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).ExecDeprecatePools(toAddresses(args.PoolIds), toUint64(env, args.Period)))
			return nil
		}},
		{"execChangeAdminAddress", func(env *xenv.Environment) []any {
			var args struct {
				PoolId       common.Address
				NewAdminAddr common.Address
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).ExecChangeAdminAddr(ronin.Address(args.PoolId), ronin.Address(args.NewAdminAddr)))
			return nil
		}},
		{"setMinValidatorStakingAmount", func(env *xenv.Environment) []any {
			var threshold *big.Int
			env.ParseArgs(&threshold)
			env.Must(Staking.Native(env).SetMinValidatorStakingAmount(toAmount(threshold)))
			return nil
		}},
		{"setCommissionRateRange", func(env *xenv.Environment) []any {
			var args struct {
				MinRate *big.Int
				MaxRate *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Staking.Native(env).SetCommissionRateRange(toUint64(env, args.MinRate), toUint64(env, args.MaxRate)))
			return nil
		}},
		{"setCooldownSecsToUndelegate", func(env *xenv.Environment) []any {
			var secs *big.Int
			env.ParseArgs(&secs)
			env.Must(Staking.Native(env).SetCooldownSecsToUndelegate(toUint64(env, secs)))
			return nil
		}},
		{"setWaitingSecsToRevoke", func(env *xenv.Environment) []any {
			var secs *big.Int
			env.ParseArgs(&secs)
			env.Must(Staking.Native(env).SetWaitingSecsToRevoke(toUint64(env, secs)))
			return nil
		}},
		{"setMinEffectiveDaysOnwards", func(env *xenv.Environment) []any {
			var days *big.Int
			env.ParseArgs(&days)
			env.Must(Staking.Native(env).SetMinEffectiveDaysOnwards(toUint64(env, days)))
			return nil
		}},
	})
}

// candidateOf resolves the consensus address argument of a validator set view.
func candidateOf(env *xenv.Environment) ronin.Address {
	var consensus common.Address
	env.ParseArgs(&consensus)
	id, err := ValidatorSet.Native(env).IdOf(ronin.Address(consensus))
	env.Must(err)
	return id
}

func initValidatorSetMethods() {
	register(ValidatorSet.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var args struct {
				MaxValidatorNumber    *big.Int
				MaxValidatorCandidate *big.Int
				NumberOfBlocksInEpoch *big.Int
			}
			env.ParseArgs(&args)
			env.Must(ValidatorSet.Native(env).Initialize(
				toUint64(env, args.MaxValidatorNumber),
				toUint64(env, args.MaxValidatorCandidate),
				toUint64(env, args.NumberOfBlocksInEpoch),
			))
			return nil
		}},
		{"initializeV4", func(env *xenv.Environment) []any {
			var n *big.Int
			env.ParseArgs(&n)
			env.Must(ValidatorSet.Native(env).InitializeV4(toUint64(env, n)))
			return nil
		}},
		{"execApplyValidatorCandidate", func(env *xenv.Environment) []any {
			var args struct {
				CandidateAdmin common.Address
				Id             common.Address
				CommissionRate *big.Int
			}
			env.ParseArgs(&args)
			env.Must(ValidatorSet.Native(env).ExecApplyValidatorCandidate(
				ronin.Address(args.CandidateAdmin), ronin.Address(args.Id), toUint64(env, args.CommissionRate)))
			return nil
		}},
		{"execRequestRenounceCandidate", func(env *xenv.Environment) []any {
			var args struct {
				Id       common.Address
				SecsLeft *big.Int
			}
			env.ParseArgs(&args)
			env.Must(ValidatorSet.Native(env).ExecRequestRenounceCandidate(ronin.Address(args.Id), toUint64(env, args.SecsLeft)))
			return nil
		}},
		{"execRequestUpdateCommissionRate", func(env *xenv.Environment) []any {
			var args struct {
				Id                 common.Address
				EffectiveTimestamp *big.Int
				CommissionRate     *big.Int
			}
			env.ParseArgs(&args)
			env.Must(ValidatorSet.Native(env).ExecRequestUpdateCommissionRate(
				ronin.Address(args.Id), toUint64(env, args.EffectiveTimestamp), toUint64(env, args.CommissionRate)))
			return nil
		}},
		{"execSlash", func(env *xenv.Environment) []any {
			var args struct {
				Id             common.Address
				NewJailedUntil *big.Int
				SlashAmount    *big.Int
				CannotBailout  bool
			}
			env.ParseArgs(&args)
			env.Must(ValidatorSet.Native(env).ExecSlash(
				ronin.Address(args.Id), toUint64(env, args.NewJailedUntil), toAmount(args.SlashAmount), args.CannotBailout))
			return nil
		}},
		{"submitBlockReward", func(env *xenv.Environment) []any {
			env.Must(ValidatorSet.Native(env).SubmitBlockReward())
			return nil
		}},
		{"endEpoch", func(env *xenv.Environment) []any {
			env.Must(ValidatorSet.Native(env).EndEpoch())
			return nil
		}},
		{"wrapUpEpoch", func(env *xenv.Environment) []any {
			env.Must(ValidatorSet.Native(env).WrapUpEpoch())
			return nil
		}},
		{"getValidators", func(env *xenv.Environment) []any {
			list, err := ValidatorSet.Native(env).GetValidators()
			env.Must(err)
			return []any{list}
		}},
		{"getValidatorIds", func(env *xenv.Environment) []any {
			list, err := ValidatorSet.Native(env).GetValidatorIds()
			env.Must(err)
			return []any{list}
		}},
		{"getBlockProducers", func(env *xenv.Environment) []any {
			list, err := ValidatorSet.Native(env).GetBlockProducers()
			env.Must(err)
			return []any{list}
		}},
		{"isBlockProducer", func(env *xenv.Environment) []any {
			ok, err := ValidatorSet.Native(env).IsBlockProducer(candidateOf(env))
			env.Must(err)
			return []any{ok}
		}},
		{"getValidatorCandidates", func(env *xenv.Environment) []any {
			list, err := ValidatorSet.Native(env).GetValidatorCandidates()
			env.Must(err)
			return []any{list}
		}},
		{"getValidatorCandidateIds", func(env *xenv.Environment) []any {
			list, err := ValidatorSet.Native(env).GetCandidateIds()
			env.Must(err)
			return []any{list}
		}},
		{"isValidatorCandidate", func(env *xenv.Environment) []any {
			ok, err := ValidatorSet.Native(env).IsValidatorCandidate(candidateOf(env))
			env.Must(err)
			return []any{ok}
		}},
		{"getCandidateInfo", func(env *xenv.Environment) []any {
			info, err := ValidatorSet.Native(env).GetCandidateInfo(candidateOf(env))
			env.Must(err)
			return []any{info.Admin, info.Consensus, info.Treasury, info.CommissionRate, info.RevokingTimestamp}
		}},
		{"currentEpoch", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).CurrentEpoch()
			env.Must(err)
			return []any{v}
		}},
		{"epochOf", func(env *xenv.Environment) []any {
			var block *big.Int
			env.ParseArgs(&block)
			v, err := ValidatorSet.Native(env).EpochOf(toUint64(env, block))
			env.Must(err)
			return []any{v}
		}},
		{"epochEndingAt", func(env *xenv.Environment) []any {
			var block *big.Int
			env.ParseArgs(&block)
			v, err := ValidatorSet.Native(env).EpochEndingAt(toUint64(env, block))
			env.Must(err)
			return []any{v}
		}},
		{"getLastUpdatedBlock", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).GetLastUpdatedBlock()
			env.Must(err)
			return []any{v}
		}},
		{"currentPeriod", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).CurrentPeriod()
			env.Must(err)
			return []any{v}
		}},
		{"periodOf", func(env *xenv.Environment) []any {
			var epoch *big.Int
			env.ParseArgs(&epoch)
			v, err := ValidatorSet.Native(env).PeriodOf(toUint64(env, epoch))
			env.Must(err)
			return []any{v}
		}},
		{"isPeriodEnding", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).IsPeriodEnding()
			env.Must(err)
			return []any{v}
		}},
		{"currentPeriodStartAtBlock", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).CurrentPeriodStartAtBlock()
			env.Must(err)
			return []any{v}
		}},
		{"totalDeprecatedReward", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).TotalDeprecatedReward()
			env.Must(err)
			return []any{v}
		}},
		{"pendingReward", func(env *xenv.Environment) []any {
			mining, delegating, fastFinality, err := ValidatorSet.Native(env).PendingReward(candidateOf(env))
			env.Must(err)
			return []any{mining, delegating, fastFinality}
		}},
		{"getJailedTimeLeft", func(env *xenv.Environment) []any {
			jailed, blockLeft, epochLeft, err := ValidatorSet.Native(env).GetJailedTimeLeft(candidateOf(env))
			env.Must(err)
			return []any{jailed, blockLeft, epochLeft}
		}},
		{"checkMiningRewardDeprecated", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).CheckMiningRewardDeprecated(candidateOf(env))
			env.Must(err)
			return []any{v}
		}},
		{"maxValidatorNumber", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).MaxValidatorNumber()
			env.Must(err)
			return []any{v}
		}},
		{"maxValidatorCandidate", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).MaxValidatorCandidate()
			env.Must(err)
			return []any{v}
		}},
		{"maxPrioritizedValidatorNumber", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).MaxPrioritizedValidatorNumber()
			env.Must(err)
			return []any{v}
		}},
		{"numberOfBlocksInEpoch", func(env *xenv.Environment) []any {
			v, err := ValidatorSet.Native(env).NumberOfBlocksInEpoch()
			env.Must(err)
			return []any{v}
		}},
		{"setMaxValidatorNumber", func(env *xenv.Environment) []any {
			var n *big.Int
			env.ParseArgs(&n)
			env.Must(ValidatorSet.Native(env).SetMaxValidatorNumber(toUint64(env, n)))
			return nil
		}},
		{"setMaxValidatorCandidate", func(env *xenv.Environment) []any {
			var n *big.Int
			env.ParseArgs(&n)
			env.Must(ValidatorSet.Native(env).SetMaxValidatorCandidate(toUint64(env, n)))
			return nil
		}},
		{"setMaxPrioritizedValidatorNumber", func(env *xenv.Environment) []any {
			var n *big.Int
			env.ParseArgs(&n)
			env.Must(ValidatorSet.Native(env).SetMaxPrioritizedValidatorNumber(toUint64(env, n)))
			return nil
		}},
	})
}

func initFinalityMethods() {
	register(FastFinality.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			env.Must(FastFinality.Native(env).Initialize())
			return nil
		}},
		{"recordFinality", func(env *xenv.Environment) []any {
			var voters []common.Address
			env.ParseArgs(&voters)
			env.Must(FastFinality.Native(env).RecordFinality(toAddresses(voters)))
			return nil
		}},
		{"getManyFinalityVoteCounts", func(env *xenv.Environment) []any {
			var args struct {
				Epoch *big.Int
				Addrs []common.Address
			}
			env.ParseArgs(&args)
			counts, err := FastFinality.Native(env).GetManyFinalityVoteCounts(toUint64(env, args.Epoch), toAddresses(args.Addrs))
			env.Must(err)
			return []any{counts}
		}},
		{"getManyFinalityVoteCountsById", func(env *xenv.Environment) []any {
			var args struct {
				Epoch *big.Int
				Cids  []common.Address
			}
			env.ParseArgs(&args)
			counts, err := FastFinality.Native(env).GetManyFinalityVoteCountsById(toUint64(env, args.Epoch), toAddresses(args.Cids))
			env.Must(err)
			return []any{counts}
		}},
		{"lastRecordedBlock", func(env *xenv.Environment) []any {
			v, err := FastFinality.Native(env).LastRecordedBlock()
			env.Must(err)
			return []any{v}
		}},
	})
}

func initVestingMethods() {
	register(Vesting.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var args struct {
				BlockProducerBonusPerBlock   *big.Int
				FastFinalityRewardPercentage *big.Int
			}
			env.ParseArgs(&args)
			env.Must(Vesting.Native(env).Initialize(
				toAmount(args.BlockProducerBonusPerBlock), toUint64(env, args.FastFinalityRewardPercentage)))
			return nil
		}},
		{"receiveRON", func(env *xenv.Environment) []any {
			env.Must(Vesting.Native(env).Receive())
			return nil
		}},
		{"requestBonus", func(env *xenv.Environment) []any {
			var forBlockProducer bool
			env.ParseArgs(&forBlockProducer)
			ok, bonus, err := Vesting.Native(env).RequestBonus(forBlockProducer)
			env.Must(err)
			return []any{ok, bonus}
		}},
		{"blockProducerBonusPerBlock", func(env *xenv.Environment) []any {
			v, err := Vesting.Native(env).BlockProducerBonusPerBlock()
			env.Must(err)
			return []any{v}
		}},
		{"fastFinalityRewardPercentage", func(env *xenv.Environment) []any {
			v, err := Vesting.Native(env).FastFinalityRewardPercentage()
			env.Must(err)
			return []any{v}
		}},
		{"lastBlockSendingBonus", func(env *xenv.Environment) []any {
			v, err := Vesting.Native(env).LastBlockSendingBonus()
			env.Must(err)
			return []any{v}
		}},
		{"setBlockProducerBonusPerBlock", func(env *xenv.Environment) []any {
			var amount *big.Int
			env.ParseArgs(&amount)
			env.Must(Vesting.Native(env).SetBlockProducerBonusPerBlock(toAmount(amount)))
			return nil
		}},
		{"setFastFinalityRewardPercentage", func(env *xenv.Environment) []any {
			var percent *big.Int
			env.ParseArgs(&percent)
			env.Must(Vesting.Native(env).SetFastFinalityRewardPercentage(toUint64(env, percent)))
			return nil
		}},
	})
}

type slashingConfigArgs struct {
	Tier1Threshold                *big.Int
	Tier2Threshold                *big.Int
	SlashAmountForTier2Threshold  *big.Int
	JailDurationForTier2Threshold *big.Int
}

func (a *slashingConfigArgs) configs(env *xenv.Environment) slashing.Configs {
	return slashing.Configs{
		Tier1Threshold: toUint64(env, a.Tier1Threshold),
		Tier2Threshold: toUint64(env, a.Tier2Threshold),
		SlashAmount:    toUint64(env, a.SlashAmountForTier2Threshold),
		JailDuration:   toUint64(env, a.JailDurationForTier2Threshold),
	}
}

func initSlashingMethods() {
	register(SlashIndicator.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var args slashingConfigArgs
			env.ParseArgs(&args)
			env.Must(SlashIndicator.Native(env).Initialize(args.configs(env)))
			return nil
		}},
		{"slashUnavailability", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			env.Must(SlashIndicator.Native(env).SlashUnavailability(ronin.Address(consensus)))
			return nil
		}},
		{"currentUnavailabilityIndicator", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			v, err := SlashIndicator.Native(env).CurrentUnavailabilityIndicator(ronin.Address(consensus))
			env.Must(err)
			return []any{v}
		}},
		{"getUnavailabilityIndicator", func(env *xenv.Environment) []any {
			var args struct {
				ConsensusAddr common.Address
				Period        *big.Int
			}
			env.ParseArgs(&args)
			v, err := SlashIndicator.Native(env).GetUnavailabilityIndicator(ronin.Address(args.ConsensusAddr), toUint64(env, args.Period))
			env.Must(err)
			return []any{v}
		}},
		{"getUnavailabilitySlashingConfigs", func(env *xenv.Environment) []any {
			c, err := SlashIndicator.Native(env).GetUnavailabilitySlashingConfigs()
			env.Must(err)
			return []any{c.Tier1Threshold, c.Tier2Threshold, c.SlashAmount, c.JailDuration}
		}},
		{"setUnavailabilitySlashingConfigs", func(env *xenv.Environment) []any {
			var args slashingConfigArgs
			env.ParseArgs(&args)
			env.Must(SlashIndicator.Native(env).SetUnavailabilitySlashingConfigs(args.configs(env)))
			return nil
		}},
	})
}

type organizationArgs struct {
	ConsensusList []common.Address
	Governors     []common.Address
	Weights       []*big.Int
}

func (a *organizationArgs) organizations(env *xenv.Environment, method string) []*trustedorg.Organization {
	if len(a.ConsensusList) != len(a.Governors) || len(a.ConsensusList) != len(a.Weights) {
		env.Stop(reverts.ErrLengthMismatch.New(TrustedOrg.method(method).ID()))
	}
	orgs := make([]*trustedorg.Organization, len(a.ConsensusList))
	for i := range a.ConsensusList {
		orgs[i] = &trustedorg.Organization{
			Consensus: ronin.Address(a.ConsensusList[i]),
			Governor:  ronin.Address(a.Governors[i]),
			Weight:    toUint64(env, a.Weights[i]),
		}
	}
	return orgs
}

func initTrustedOrgMethods() {
	register(TrustedOrg.contract, []define{
		{"initialize", func(env *xenv.Environment) []any {
			var args organizationArgs
			env.ParseArgs(&args)
			env.Must(TrustedOrg.Native(env).Initialize(args.organizations(env, "initialize")))
			return nil
		}},
		{"addTrustedOrganizations", func(env *xenv.Environment) []any {
			var args organizationArgs
			env.ParseArgs(&args)
			env.Must(TrustedOrg.Native(env).AddTrustedOrganizations(args.organizations(env, "addTrustedOrganizations")))
			return nil
		}},
		{"removeTrustedOrganizations", func(env *xenv.Environment) []any {
			var list []common.Address
			env.ParseArgs(&list)
			env.Must(TrustedOrg.Native(env).RemoveTrustedOrganizations(toAddresses(list)))
			return nil
		}},
		{"getTrustedOrganizations", func(env *xenv.Environment) []any {
			orgs, err := TrustedOrg.Native(env).GetTrustedOrganizations()
			env.Must(err)
			var (
				consensus = make([]ronin.Address, len(orgs))
				governors = make([]ronin.Address, len(orgs))
				weights   = make([]uint64, len(orgs))
			)
			for i, o := range orgs {
				consensus[i], governors[i], weights[i] = o.Consensus, o.Governor, o.Weight
			}
			return []any{consensus, governors, weights}
		}},
		{"isTrustedOrganization", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			ok, err := TrustedOrg.Native(env).IsTrusted(ronin.Address(consensus))
			env.Must(err)
			return []any{ok}
		}},
		{"getConsensusWeight", func(env *xenv.Environment) []any {
			var consensus common.Address
			env.ParseArgs(&consensus)
			w, err := TrustedOrg.Native(env).GetConsensusWeight(ronin.Address(consensus))
			env.Must(err)
			return []any{w}
		}},
		{"getConsensusWeightsById", func(env *xenv.Environment) []any {
			var ids []common.Address
			env.ParseArgs(&ids)
			w, err := TrustedOrg.Native(env).GetConsensusWeightsById(toAddresses(ids))
			env.Must(err)
			return []any{w}
		}},
		{"getGovernorWeight", func(env *xenv.Environment) []any {
			var governor common.Address
			env.ParseArgs(&governor)
			w, err := TrustedOrg.Native(env).GetGovernorWeight(ronin.Address(governor))
			env.Must(err)
			return []any{w}
		}},
		{"countTrustedOrganization", func(env *xenv.Environment) []any {
			n, err := TrustedOrg.Native(env).CountTrustedOrganization()
			env.Must(err)
			return []any{n}
		}},
		{"totalWeight", func(env *xenv.Environment) []any {
			w, err := TrustedOrg.Native(env).TotalWeight()
			env.Must(err)
			return []any{w}
		}},
	})
}

func initGovernanceMethods() {
	register(GovernanceAdmin.contract, []define{
		{"execute", func(env *xenv.Environment) []any {
			var args struct {
				Targets    []common.Address
				Values     []*big.Int
				Calldatas  [][]byte
				GasAmounts []*big.Int
			}
			env.ParseArgs(&args)
			n := len(args.Targets)
			if n != len(args.Values) || n != len(args.Calldatas) || n != len(args.GasAmounts) {
				env.Stop(reverts.ErrLengthMismatch.New(GovernanceAdmin.method("execute").ID()))
			}
			segments := make([]governance.Segment, n)
			for i := range segments {
				segments[i] = governance.Segment{
					Target:    ronin.Address(args.Targets[i]),
					Value:     toAmount(args.Values[i]),
					Data:      args.Calldatas[i],
					GasAmount: toUint64(env, args.GasAmounts[i]),
				}
			}
			outputs, err := GovernanceAdmin.Native(env).Execute(segments)
			env.Must(err)
			return []any{outputs}
		}},
		{"isGovernor", func(env *xenv.Environment) []any {
			var addr common.Address
			env.ParseArgs(&addr)
			ok, err := GovernanceAdmin.Native(env).IsGovernor(ronin.Address(addr))
			env.Must(err)
			return []any{ok}
		}},
	})
}
