// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// launchTime is the first second of a day.
const launchTime = 19675 * ronin.DefaultPeriodDuration

// chain executes clauses block after block on top of a genesis state.
type chain struct {
	t     *testing.T
	state *state.State
	block xenv.BlockContext
}

func newChain(t *testing.T, cfg *genesis.Config) *chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gene, err := genesis.NewGenesis("test", cfg)
	require.NoError(t, err)
	stater := state.NewStater(db)
	b0, _, err := gene.Build(stater)
	require.NoError(t, err)

	return &chain{
		t:     t,
		state: stater.NewState(b0.Header().StateRoot()),
		block: xenv.BlockContext{Number: 0, Time: b0.Header().Timestamp()},
	}
}

// at moves to block n, keeping the day unless newDay.
func (c *chain) at(n uint64, newDay bool) *chain {
	c.block.Time += n - c.block.Number
	if newDay {
		c.block.Time += ronin.DefaultPeriodDuration
	}
	c.block.Number = n
	return c
}

func (c *chain) balance(addr ronin.Address) uint64 {
	b, err := c.state.GetBalance(addr)
	require.NoError(c.t, err)
	return b.Uint64()
}

func (c *chain) test(a *abi.ABI, to ronin.Address) *ctest {
	return &ctest{chain: c, abi: a, to: to}
}

type ctest struct {
	chain      *chain
	abi        *abi.ABI
	to, caller ronin.Address
}

type ccase struct {
	chain      *chain
	abi        *abi.ABI
	to, caller ronin.Address
	name       string
	args       []any
	value      *uint256.Int
	events     []ronin.Bytes32
	output     *[]any
	decode     any
	logs       *tx.Events
	vmerr      error
}

func (c *ctest) Caller(caller ronin.Address) *ctest {
	c.caller = caller
	return c
}

func (c *ctest) Case(name string, args ...any) *ccase {
	return &ccase{
		chain:  c.chain,
		abi:    c.abi,
		to:     c.to,
		caller: c.caller,
		name:   name,
		args:   args,
		value:  new(uint256.Int),
	}
}

func (c *ccase) Caller(caller ronin.Address) *ccase {
	c.caller = caller
	return c
}

// Coinbase calls as the block coinbase.
func (c *ccase) Coinbase(coinbase ronin.Address) *ccase {
	c.chain.block.Coinbase = coinbase
	c.caller = coinbase
	return c
}

func (c *ccase) Value(value uint64) *ccase {
	c.value = uint256.NewInt(value)
	return c
}

func (c *ccase) ShouldVMError(err error) *ccase {
	c.vmerr = err
	return c
}

// ShouldLog expects events of the given ids, in any order.
func (c *ccase) ShouldLog(ids ...ronin.Bytes32) *ccase {
	c.events = ids
	return c
}

func (c *ccase) ShouldOutput(outputs ...any) *ccase {
	c.output = &outputs
	return c
}

// Logs keeps the events of the call in dst.
func (c *ccase) Logs(dst *tx.Events) *ccase {
	c.logs = dst
	return c
}

// Decode unpacks the output into v.
func (c *ccase) Decode(v any) *ccase {
	c.decode = v
	return c
}

func (c *ccase) Assert(t *testing.T) *ccase {
	method, ok := c.abi.MethodByName(c.name)
	require.True(t, ok, "should have method %s", c.name)

	data, err := method.EncodeInput(c.args...)
	require.NoError(t, err, "should encode input")

	stage, err := c.chain.state.Stage()
	require.NoError(t, err)
	root := stage.Hash()

	rt := runtime.New(c.chain.state, &c.chain.block)
	vmout, err := rt.ExecuteClause(tx.NewClause(c.to).WithValue(c.value).WithData(data),
		math.MaxUint64, &xenv.TransactionContext{Origin: c.caller})
	require.NoError(t, err)

	if method.Const() || vmout.VMErr != nil {
		stage, err := c.chain.state.Stage()
		require.NoError(t, err)
		assert.Equal(t, root, stage.Hash(), "%s should not change state", c.name)
	}
	if c.vmerr != nil {
		assert.True(t, errors.Is(vmout.VMErr, c.vmerr), "%s: want %v, got %v", c.name, c.vmerr, vmout.VMErr)
	} else {
		assert.NoError(t, vmout.VMErr, c.name)
	}

	if c.output != nil {
		out, err := method.EncodeOutput((*c.output)...)
		require.NoError(t, err, "should encode output")
		assert.Equal(t, out, vmout.Data, "%s should match output", c.name)
	}
	if c.decode != nil {
		require.NoError(t, method.DecodeOutput(vmout.Data, c.decode))
	}
	if c.logs != nil {
		*c.logs = vmout.Events
	}
	for _, id := range c.events {
		found := false
		for _, ev := range vmout.Events {
			if len(ev.Topics) > 0 && ev.Topics[0] == id {
				found = true
				break
			}
		}
		assert.True(t, found, "%s: event %v should appear", c.name, id)
	}
	return c
}

func event(a *abi.ABI, name string) ronin.Bytes32 {
	ev, ok := a.EventByName(name)
	if !ok {
		panic("event not found: " + name)
	}
	return ev.ID()
}

func wei(v uint64) *ethmath.HexOrDecimal256 {
	return (*ethmath.HexOrDecimal256)(new(big.Int).SetUint64(v))
}

func addr(s string) ronin.Address {
	return ronin.BytesToAddress([]byte(s))
}

func adminOf(i int) ronin.Address     { return addr("admin-" + string(rune('a'+i))) }
func consensusOf(i int) ronin.Address { return addr("consensus-" + string(rune('a'+i))) }

const governor = "governor"

// testConfig applies n candidates staking 1000 each at 20% commission, with
// epochs of 10 blocks.
func testConfig(n int, vestingBalance uint64) *genesis.Config {
	cfg := &genesis.Config{
		LaunchTime: launchTime,
		Profile:    genesis.ProfileParams{Cooldown: 60},
		Staking: genesis.StakingParams{
			MinValidatorStakingAmount: wei(100),
			MaxCommissionRate:         ronin.MaxPercentage,
			CooldownSecsToUndelegate:  60,
			WaitingSecsToRevoke:       60,
			MinEffectiveDaysOnwards:   1,
		},
		ValidatorSet: genesis.ValidatorSetParams{
			MaxValidatorNumber:    uint64(n),
			MaxValidatorCandidate: 10,
			NumberOfBlocksInEpoch: 10,
		},
		Vesting: genesis.VestingParams{
			BlockProducerBonusPerBlock:   wei(2000),
			FastFinalityRewardPercentage: 500,
			Balance:                      wei(vestingBalance),
		},
		Accounts: []genesis.Account{{Address: addr(governor), Balance: wei(1_000_000)}},
		TrustedOrganizations: []genesis.TrustedOrganization{
			{Consensus: addr("trusted"), Governor: addr(governor), Weight: 100},
		},
	}
	for i := range n {
		cfg.Accounts = append(cfg.Accounts,
			genesis.Account{Address: adminOf(i), Balance: wei(1_000_000)},
			genesis.Account{Address: consensusOf(i), Balance: wei(1_000_000)},
		)
		cfg.Candidates = append(cfg.Candidates, genesis.Candidate{
			Admin:          adminOf(i),
			Consensus:      consensusOf(i),
			CommissionRate: 20_00,
			Stake:          wei(1000),
			Pubkey:         []byte{0x02, byte(i + 1)},
		})
	}
	return cfg
}

// wrapUp closes the epoch ending at block n.
func (c *chain) wrapUp(n uint64, newDay bool) {
	c.at(n, newDay)
	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)
	vs.Case("endEpoch").Coinbase(consensusOf(0)).Assert(c.t)
	vs.Case("wrapUpEpoch").Coinbase(consensusOf(0)).
		ShouldLog(event(builtin.ValidatorSet.ABI, "WrappedUpEpoch")).
		Assert(c.t)
}

func TestValidatorSetNative(t *testing.T) {
	c := newChain(t, testConfig(2, 0))
	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)

	vs.Case("numberOfBlocksInEpoch").ShouldOutput(uint64(10)).Assert(t)
	vs.Case("epochOf", uint64(0)).ShouldOutput(uint64(0)).Assert(t)
	vs.Case("epochOf", uint64(9)).ShouldOutput(uint64(1)).Assert(t)
	vs.Case("epochOf", uint64(10)).ShouldOutput(uint64(2)).Assert(t)
	vs.Case("epochEndingAt", uint64(9)).ShouldOutput(true).Assert(t)
	vs.Case("isValidatorCandidate", consensusOf(1)).ShouldOutput(true).Assert(t)
	vs.Case("getValidators").ShouldOutput([]ronin.Address{}).Assert(t)

	c.at(5, false)
	vs.Case("endEpoch").Coinbase(consensusOf(0)).ShouldVMError(reverts.ErrAtEndOfEpochOnly).Assert(t)
	c.at(9, false)
	vs.Case("wrapUpEpoch").Coinbase(consensusOf(0)).ShouldVMError(reverts.ErrAtEndOfEpochOnly).Assert(t)
	vs.Case("endEpoch").Caller(addr("stranger")).ShouldVMError(reverts.ErrCallerMustBeCoinbase).Assert(t)

	c.wrapUp(9, false)
	var validators []common.Address
	vs.Case("getValidators").Decode(&validators).Assert(t)
	assert.ElementsMatch(t, []common.Address{common.Address(consensusOf(0)), common.Address(consensusOf(1))}, validators)
	vs.Case("isBlockProducer", consensusOf(1)).ShouldOutput(true).Assert(t)
	vs.Case("wrapUpEpoch").Coinbase(consensusOf(0)).ShouldVMError(reverts.ErrAlreadyWrappedEpoch).Assert(t)
}

func TestStakingNative(t *testing.T) {
	c := newChain(t, testConfig(1, 0))
	staking := c.test(builtin.Staking.ABI, builtin.Staking.Address)

	staking.Case("getStakingTotal", consensusOf(0)).ShouldOutput(uint64(1000)).Assert(t)
	staking.Case("isAdminOfActivePool", adminOf(0)).ShouldOutput(true).Assert(t)
	staking.Case("getPoolAddressOf", adminOf(0)).ShouldOutput(consensusOf(0)).Assert(t)

	staking.Case("delegate", consensusOf(0)).
		Caller(addr(governor)).
		Value(500).
		ShouldLog(event(builtin.Staking.ABI, "Delegated")).
		Assert(t)
	staking.Case("getStakingTotal", consensusOf(0)).ShouldOutput(uint64(1500)).Assert(t)
	staking.Case("getStakingAmount", consensusOf(0), addr(governor)).ShouldOutput(uint64(500)).Assert(t)
	assert.Equal(t, uint64(1_000_000-500), c.balance(addr(governor)))

	staking.Case("delegate", consensusOf(0)).
		Caller(addr("pauper")).
		Value(1).
		ShouldVMError(state.ErrInsufficientBalance).
		Assert(t)

	staking.Case("getManyStakingAmounts", []ronin.Address{consensusOf(0)}, []ronin.Address{}).
		ShouldVMError(reverts.ErrInvalidArrays).
		Assert(t)
	staking.Case("setCooldownSecsToUndelegate", uint64(1)).
		Caller(adminOf(0)).
		ShouldVMError(reverts.ErrUnauthorized).
		Assert(t)
}

func TestRuntimeRejectsUnknownMethod(t *testing.T) {
	c := newChain(t, testConfig(1, 0))
	rt := runtime.New(c.state, &c.block)

	out, err := rt.ExecuteClause(tx.NewClause(builtin.Profile.Address).WithData([]byte{1, 2, 3, 4}),
		math.MaxUint64, &xenv.TransactionContext{Origin: addr(governor)})
	require.NoError(t, err)
	assert.True(t, errors.Is(out.VMErr, builtin.ErrNoNativeMethod))

	// plain transfers to non builtin addresses pass through
	out, err = rt.ExecuteClause(tx.NewClause(addr("someone")).WithValue(uint256.NewInt(7)),
		math.MaxUint64, &xenv.TransactionContext{Origin: addr(governor)})
	require.NoError(t, err)
	assert.NoError(t, out.VMErr)
	assert.Equal(t, uint64(7), c.balance(addr("someone")))
}

func TestGovernanceExecute(t *testing.T) {
	c := newChain(t, testConfig(1, 0))
	gov := c.test(builtin.GovernanceAdmin.ABI, builtin.GovernanceAdmin.Address)
	profile := c.test(builtin.Profile.ABI, builtin.Profile.Address)

	setCooldown, _ := builtin.Profile.ABI.MethodByName("setCooldownConfig")
	data, err := setCooldown.EncodeInput(uint64(3600))
	require.NoError(t, err)

	gov.Case("isGovernor", addr(governor)).ShouldOutput(true).Assert(t)
	gov.Case("execute", []ronin.Address{builtin.Profile.Address}, []uint64{0}, [][]byte{data}, []uint64{0}).
		Caller(addr("stranger")).
		ShouldVMError(reverts.ErrUnauthorized).
		Assert(t)
	gov.Case("execute", []ronin.Address{builtin.Profile.Address}, []uint64{0, 0}, [][]byte{data}, []uint64{0}).
		Caller(addr(governor)).
		ShouldVMError(reverts.ErrLengthMismatch).
		Assert(t)

	// the second call fails, so the first one is rolled back too
	gov.Case("execute",
		[]ronin.Address{builtin.Profile.Address, builtin.Profile.Address},
		[]uint64{0, 0},
		[][]byte{data, {0xde, 0xad, 0xbe, 0xef}},
		[]uint64{0, 0}).
		Caller(addr(governor)).
		ShouldVMError(builtin.ErrNoNativeMethod).
		Assert(t)
	profile.Case("getCooldownConfig").ShouldOutput(uint64(60)).Assert(t)

	gov.Case("execute", []ronin.Address{builtin.Profile.Address}, []uint64{0}, [][]byte{data}, []uint64{0}).
		Caller(addr(governor)).
		ShouldLog(event(builtin.GovernanceAdmin.ABI, "ProposalExecuted")).
		Assert(t)
	profile.Case("getCooldownConfig").ShouldOutput(uint64(3600)).Assert(t)
}

type pendingReward struct {
	Mining       *big.Int
	Delegating   *big.Int
	FastFinality *big.Int
}

func (c *chain) pending(consensus ronin.Address) pendingReward {
	var p pendingReward
	c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address).
		Case("pendingReward", consensus).Decode(&p).Assert(c.t)
	return p
}

func TestMiningRewardWithoutVesting(t *testing.T) {
	cfg := testConfig(1, 0)
	cfg.Vesting.FastFinalityRewardPercentage = 0
	c := newChain(t, cfg)
	c.wrapUp(9, true)

	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)
	c.at(10, false)
	vs.Case("submitBlockReward").
		Coinbase(consensusOf(0)).
		Value(20000).
		ShouldLog(
			event(builtin.ValidatorSet.ABI, "BlockRewardSubmitted"),
			event(builtin.Vesting.ABI, "BonusTransferFailed"),
		).
		Assert(t)

	p := c.pending(consensusOf(0))
	assert.Equal(t, uint64(4000), p.Mining.Uint64())
	assert.Equal(t, uint64(16000), p.Delegating.Uint64())
	assert.Zero(t, p.FastFinality.Uint64())

	c.wrapUp(19, true)
	assert.Equal(t, uint64(1_000_000-1000+4000), c.balance(adminOf(0)))
	assert.Equal(t, uint64(1000+16000), c.balance(builtin.Staking.Address))
	assert.Zero(t, c.balance(builtin.Vesting.Address))

	staking := c.test(builtin.Staking.ABI, builtin.Staking.Address)
	var reward *big.Int
	staking.Case("getReward", consensusOf(0), adminOf(0)).Decode(&reward).Assert(t)
	assert.InDelta(t, 16000, reward.Uint64(), 1)

	staking.Case("claimRewards", []ronin.Address{consensusOf(0)}).
		Caller(adminOf(0)).
		ShouldLog(event(builtin.Staking.ABI, "RewardClaimed")).
		Assert(t)
	assert.InDelta(t, 1_000_000-1000+4000+16000, c.balance(adminOf(0)), 1)
}

func TestFastFinalityRewardSplit(t *testing.T) {
	c := newChain(t, testConfig(4, 1_000_000))
	c.wrapUp(9, true)

	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)
	ff := c.test(builtin.FastFinality.ABI, builtin.FastFinality.Address)
	all := []ronin.Address{consensusOf(0), consensusOf(1), consensusOf(2), consensusOf(3)}

	for n := uint64(10); n < 20; n++ {
		c.at(n, false)
		coinbase := consensusOf(int(n-10) % 4)
		vs.Case("submitBlockReward").Coinbase(coinbase).
			ShouldLog(event(builtin.Vesting.ABI, "BonusTransferred")).
			Assert(t)

		voters := all[1:]
		if n%2 == 0 {
			voters = all
		}
		ff.Case("recordFinality", voters).Coinbase(coinbase).Assert(t)
		ff.Case("recordFinality", voters).Coinbase(coinbase).ShouldVMError(reverts.ErrOncePerBlock).Assert(t)
	}
	ff.Case("getManyFinalityVoteCounts", uint64(2), all).
		ShouldOutput([]uint64{5, 10, 10, 10}).
		Assert(t)

	// the epoch closes within the period, only fast finality is split
	c.wrapUp(19, false)
	assert.Equal(t, uint64(125), c.pending(consensusOf(0)).FastFinality.Uint64())
	for _, consensus := range all[1:] {
		assert.Equal(t, uint64(250), c.pending(consensus).FastFinality.Uint64())
	}
	vs.Case("totalDeprecatedReward").ShouldOutput(uint64(125)).Assert(t)

	c.wrapUp(29, true)
	paid := func(i int) uint64 { return c.balance(adminOf(i)) - (1_000_000 - 1000) }
	// consensus 0 produced blocks 10, 14 and 18
	assert.Equal(t, uint64(3*380+125), paid(0))
	assert.Equal(t, uint64(3*380+250), paid(1))
	assert.Equal(t, uint64(2*380+250), paid(2))
	assert.Equal(t, uint64(2*380+250), paid(3))

	var mining uint64
	for i := range 4 {
		mining += paid(i)
	}
	delegating := c.balance(builtin.Staking.Address) - 4*1000
	// mining and delegating rewards add up to the producing share of ten bonuses
	assert.Equal(t, uint64(19000), mining-875+delegating)
	assert.Equal(t, uint64(1_000_000-10*2000+125), c.balance(builtin.Vesting.Address))
	assert.Zero(t, c.balance(builtin.ValidatorSet.Address))
	vs.Case("totalDeprecatedReward").ShouldOutput(uint64(0)).Assert(t)
}

// amountsByID sums the amounts of the reward events named ev, keyed by the
// candidate id in the first topic.
func amountsByID(events tx.Events, ev ronin.Bytes32) map[ronin.Address]uint64 {
	out := make(map[ronin.Address]uint64)
	for _, e := range events {
		if len(e.Topics) < 2 || e.Topics[0] != ev {
			continue
		}
		id := ronin.BytesToAddress(e.Topics[1][12:])
		out[id] += new(uint256.Int).SetBytes(e.Data).Uint64()
	}
	return out
}

func TestFastFinalityAcrossConsensusChange(t *testing.T) {
	c := newChain(t, testConfig(4, 1_000_000))
	c.wrapUp(9, true)

	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)
	ff := c.test(builtin.FastFinality.ABI, builtin.FastFinality.Address)
	profile := c.test(builtin.Profile.ABI, builtin.Profile.Address)

	id := consensusOf(0)
	rotated := addr("consensus-a-rotated")
	coinbase := id
	for n := uint64(10); n < 20; n++ {
		c.at(n, false)
		// the first validator rotates its consensus address halfway through the epoch
		if n == 15 {
			profile.Case("changeConsensusAddr", id, rotated).
				Caller(adminOf(0)).
				ShouldLog(event(builtin.Profile.ABI, "ProfileAddressChanged")).
				Assert(t)
			coinbase = rotated
		}
		vs.Case("submitBlockReward").Coinbase(coinbase).
			ShouldLog(event(builtin.ValidatorSet.ABI, "BlockRewardSubmitted")).
			Assert(t)
		voters := []ronin.Address{coinbase, consensusOf(1), consensusOf(2), consensusOf(3)}
		ff.Case("recordFinality", voters).Coinbase(coinbase).Assert(t)
	}

	ids := []ronin.Address{id, consensusOf(1), consensusOf(2), consensusOf(3)}
	ff.Case("getManyFinalityVoteCounts", uint64(2), []ronin.Address{rotated, consensusOf(1), consensusOf(2), consensusOf(3)}).
		ShouldOutput([]uint64{10, 10, 10, 10}).
		Assert(t)
	ff.Case("getManyFinalityVoteCountsById", uint64(2), ids).
		ShouldOutput([]uint64{10, 10, 10, 10}).
		Assert(t)
	ff.Case("getManyFinalityVoteCounts", uint64(2), []ronin.Address{id}).
		ShouldVMError(reverts.ErrLookUpIdFailed).
		Assert(t)

	c.at(19, true)
	vs.Case("endEpoch").Coinbase(rotated).Assert(t)
	var logs tx.Events
	vs.Case("wrapUpEpoch").Coinbase(rotated).
		ShouldLog(
			event(builtin.ValidatorSet.ABI, "WrappedUpEpoch"),
			event(builtin.ValidatorSet.ABI, "MiningRewardDistributed"),
			event(builtin.ValidatorSet.ABI, "FastFinalityRewardDistributed"),
		).
		Logs(&logs).
		Assert(t)

	// ten blocks of 2000, 5% to fast finality and 20% commission on the rest
	assert.Equal(t, map[ronin.Address]uint64{id: 3800},
		amountsByID(logs, event(builtin.ValidatorSet.ABI, "MiningRewardDistributed")))
	assert.Equal(t, map[ronin.Address]uint64{id: 250, ids[1]: 250, ids[2]: 250, ids[3]: 250},
		amountsByID(logs, event(builtin.ValidatorSet.ABI, "FastFinalityRewardDistributed")))

	recycled := event(builtin.ValidatorSet.ABI, "DeprecatedRewardRecycled")
	for _, e := range logs {
		assert.NotEqual(t, recycled, e.Topics[0], "nothing should be recycled")
		if e.Topics[0] == event(builtin.ValidatorSet.ABI, "MiningRewardDistributed") {
			assert.Equal(t, ronin.BytesToBytes32(adminOf(0).Bytes()), e.Topics[2])
		}
	}
	vs.Case("totalDeprecatedReward").ShouldOutput(uint64(0)).Assert(t)
	assert.Equal(t, uint64(1_000_000-1000+3800+250), c.balance(adminOf(0)))
}

func TestRewardsAcrossAdminChange(t *testing.T) {
	delegator, next := addr("delegator"), addr("admin-next")
	cfg := testConfig(1, 0)
	cfg.Vesting.FastFinalityRewardPercentage = 0
	cfg.Candidates[0].Stake = wei(40004)
	cfg.Accounts = append(cfg.Accounts, genesis.Account{Address: delegator, Balance: wei(1_000_000)})
	c := newChain(t, cfg)

	vs := c.test(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address)
	staking := c.test(builtin.Staking.ABI, builtin.Staking.Address)
	profile := c.test(builtin.Profile.ABI, builtin.Profile.Address)
	pool := consensusOf(0)

	reward := func(user ronin.Address) uint64 {
		var r *big.Int
		staking.Case("getReward", pool, user).Decode(&r).Assert(t)
		return r.Uint64()
	}

	c.at(1, false)
	staking.Case("delegate", pool).Caller(delegator).Value(20000).Assert(t)
	c.wrapUp(9, true)

	c.at(10, false)
	vs.Case("submitBlockReward").Coinbase(pool).Value(20000).Assert(t)
	c.wrapUp(19, true)

	// 16000 split over stakes of 40004 and 20000
	assert.Equal(t, uint64(10667), reward(adminOf(0)))
	assert.Equal(t, uint64(5332), reward(delegator))

	c.at(20, false)
	profile.Case("changeAdminAddr", pool, next).
		Caller(adminOf(0)).
		ShouldLog(event(builtin.Profile.ABI, "ProfileAddressChanged")).
		Assert(t)
	assert.Equal(t, uint64(10667), reward(adminOf(0)))
	assert.Zero(t, reward(next))
	staking.Case("getPoolAddressOf", next).ShouldOutput(pool).Assert(t)
	staking.Case("isAdminOfActivePool", adminOf(0)).ShouldOutput(false).Assert(t)

	vs.Case("submitBlockReward").Coinbase(pool).Value(12000).Assert(t)
	c.wrapUp(29, true)

	// the former admin is frozen, the new one earns on the inherited stake
	assert.Equal(t, uint64(10667), reward(adminOf(0)))
	assert.Equal(t, uint64(6400), reward(next))
	assert.Equal(t, uint64(17067), reward(adminOf(0))+reward(next))
	assert.Equal(t, uint64(8532), reward(delegator))
	// the mining reward follows the treasury, which moved with the admin
	assert.Equal(t, uint64(2400), c.balance(next))

	before := c.balance(adminOf(0))
	staking.Case("claimRewards", []ronin.Address{pool}).
		Caller(adminOf(0)).
		ShouldOutput(uint64(10667)).
		ShouldLog(event(builtin.Staking.ABI, "RewardClaimed")).
		Assert(t)
	assert.Equal(t, before+10667, c.balance(adminOf(0)))
	staking.Case("claimRewards", []ronin.Address{pool}).
		Caller(adminOf(0)).
		ShouldOutput(uint64(0)).
		Assert(t)
	assert.Equal(t, before+10667, c.balance(adminOf(0)))

	staking.Case("claimRewards", []ronin.Address{pool}).Caller(next).ShouldOutput(uint64(6400)).Assert(t)
	staking.Case("claimRewards", []ronin.Address{pool}).Caller(delegator).ShouldOutput(uint64(8532)).Assert(t)
	assert.Equal(t, uint64(2400+6400), c.balance(next))
	assert.Equal(t, uint64(1_000_000-20000+8532), c.balance(delegator))
}
