// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"context"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/builtin"
	. "github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

const blocksInEpoch = 10

type testChain struct {
	repo   *Repository
	stater *state.Stater
	sim    *Simulator
}

func newTestChain(t *testing.T, opts Options) *testChain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := genesis.DevConfig()
	cfg.ValidatorSet.NumberOfBlocksInEpoch = blocksInEpoch
	gene, err := genesis.NewGenesis("sim", cfg)
	require.NoError(t, err)

	stater := state.NewStater(db)
	b0, _, err := gene.Build(stater)
	require.NoError(t, err)
	repo, err := NewRepository(db, b0)
	require.NoError(t, err)
	return &testChain{repo, stater, NewSimulator(repo, stater, opts)}
}

// view reads a builtin contract at the best block.
func (c *testChain) view(t *testing.T, a *abi.ABI, to ronin.Address, name string, out any, args ...any) {
	t.Helper()
	best := c.repo.BestBlockSummary().Header
	rt := runtime.New(c.stater.NewState(best.StateRoot()), &xenv.BlockContext{Number: best.Number(), Time: best.Timestamp()})

	m, ok := a.MethodByName(name)
	require.True(t, ok, name)
	data, err := m.EncodeInput(args...)
	require.NoError(t, err)
	res, err := rt.Call(tx.NewClause(to).WithData(data), math.MaxUint64, xenv.TransactionContext{})
	require.NoError(t, err)
	require.NoError(t, res.VMErr, name)
	require.NoError(t, m.DecodeOutput(res.Data, out))
}

func (c *testChain) produce(t *testing.T, n int) []*block.Block {
	t.Helper()
	var blocks []*block.Block
	for range n {
		blk, receipts, err := c.sim.Produce()
		require.NoError(t, err)
		for i, r := range receipts {
			assert.False(t, r.Reverted, "block %v tx %v reverted", blk.Header().Number(), i)
		}
		blocks = append(blocks, blk)
	}
	return blocks
}

func consensusAddrs() []common.Address {
	accs := genesis.DevAccounts()
	var addrs []common.Address
	for i := range genesis.DevCandidates {
		addrs = append(addrs, common.Address(accs[genesis.DevCandidates+i].Address))
	}
	return addrs
}

func TestSimulatorWrapsUpEpochs(t *testing.T) {
	c := newTestChain(t, DefaultOptions())
	blocks := c.produce(t, 2*blocksInEpoch)

	for i, blk := range blocks {
		assert.Equal(t, uint64(i+1), blk.Header().Number())
		if i > 0 {
			assert.Equal(t, blocks[i-1].Header().ID(), blk.Header().ParentID())
			assert.Equal(t, blocks[i-1].Header().Timestamp()+3, blk.Header().Timestamp())
		}
		stored, err := c.repo.GetBlockID(blk.Header().Number())
		require.NoError(t, err)
		assert.Equal(t, blk.Header().ID(), stored)
	}

	// blocks closing an epoch carry the wrap-up transactions
	assert.Len(t, blocks[blocksInEpoch-3].Transactions(), 2)
	assert.Len(t, blocks[blocksInEpoch-2].Transactions(), 4)
	assert.Len(t, blocks[blocksInEpoch-1].Transactions(), 2)

	var validators []common.Address
	c.view(t, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "getValidators", &validators)
	assert.ElementsMatch(t, consensusAddrs(), validators)

	var epoch *big.Int
	c.view(t, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "currentEpoch", &epoch)
	assert.Equal(t, int64(3), epoch.Int64())

	// producers of the second epoch staged their rewards
	var pending struct {
		Mining, Delegating, FastFinality *big.Int
	}
	producer := ronin.Address(blocks[blocksInEpoch+1].Header().Coinbase())
	c.view(t, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "pendingReward", &pending, producer)
	assert.Positive(t, pending.Mining.Sign())
	assert.Positive(t, pending.Delegating.Sign())
}

func TestSimulatorUserTx(t *testing.T) {
	c := newTestChain(t, DefaultOptions())
	accs := genesis.DevAccounts()

	delegator := accs[9].Address
	m, ok := builtin.Staking.ABI.MethodByName("delegate")
	require.True(t, ok)
	data, err := m.EncodeInput(accs[genesis.DevCandidates].Address)
	require.NoError(t, err)

	amount := new(uint256.Int).Mul(uint256.NewInt(10), uint256.NewInt(1e18))
	trx := tx.NewBuilder(delegator).
		Clause(tx.NewClause(builtin.Staking.Address).WithValue(amount).WithData(data)).
		Gas(1_000_000).
		Nonce(1).
		Build()
	c.sim.AddTx(trx)

	var added []*block.Block
	c.sim.Subscribe(func(blk *block.Block, _ tx.Receipts) error {
		added = append(added, blk)
		return nil
	})
	blocks := c.produce(t, 1)
	require.Len(t, added, 1)
	assert.Equal(t, blocks[0].Header().ID(), added[0].Header().ID())

	receipt, err := c.repo.GetReceipt(trx.ID())
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)

	var staked *big.Int
	c.view(t, builtin.Staking.ABI, builtin.Staking.Address, "getStakingAmount", &staked,
		accs[genesis.DevCandidates].Address, delegator)
	assert.Equal(t, amount.ToBig(), staked)
}

func TestSimulatorRun(t *testing.T) {
	c := newTestChain(t, DefaultOptions())

	var count int
	require.NoError(t, c.sim.Run(context.Background(), 5, func(*block.Block) { count++ }))
	assert.Equal(t, 5, count)
	assert.Equal(t, uint64(5), c.repo.BestBlockSummary().Header.Number())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.sim.Run(ctx, 0, nil), context.Canceled)
}

func TestSimulatorVoters(t *testing.T) {
	opts := DefaultOptions()
	// the first producer never votes
	opts.Voters = func(_ uint64, producers []ronin.Address) []ronin.Address {
		return producers[1:]
	}
	c := newTestChain(t, opts)
	c.produce(t, 2*blocksInEpoch)

	var counts []*big.Int
	c.view(t, builtin.FastFinality.ABI, builtin.FastFinality.Address, "getManyFinalityVoteCounts", &counts,
		uint64(2), consensusAddrs())
	require.Len(t, counts, genesis.DevCandidates)
	var zero int
	for _, n := range counts {
		if n.Sign() == 0 {
			zero++
		}
	}
	assert.Equal(t, 1, zero)
}
