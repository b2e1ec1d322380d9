// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/block"
	. "github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
)

func newTestRepo(t *testing.T) (*lvldb.LevelDB, *block.Block, *Repository) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b0, _, err := genesis.NewDevnet().Build(state.NewStater(db))
	require.NoError(t, err)

	repo, err := NewRepository(db, b0)
	require.NoError(t, err)
	return db, b0, repo
}

func newBlock(parent *block.Header, txs ...*tx.Transaction) *block.Block {
	builder := new(block.Builder).
		ParentID(parent.ID()).
		Number(parent.Number() + 1).
		Timestamp(parent.Timestamp() + 3)
	for _, trx := range txs {
		builder.Transaction(trx)
	}
	return builder.Build()
}

func TestRepository(t *testing.T) {
	db, b0, repo := newTestRepo(t)
	assert.Equal(t, b0.Header().ID(), repo.BestBlockSummary().Header.ID())
	assert.Equal(t, b0.Header().ID(), repo.GenesisBlock().Header().ID())

	origin := ronin.BytesToAddress([]byte("origin"))
	tx1 := tx.NewBuilder(origin).Nonce(1).Gas(21000).Build()
	receipt1 := &tx.Receipt{GasUsed: 100, Outputs: []*tx.Output{{Data: []byte{1}}}}

	b1 := newBlock(b0.Header(), tx1)
	require.NoError(t, repo.AddBlock(b1, tx.Receipts{receipt1}))
	assert.Equal(t, b1.Header().ID(), repo.BestBlockSummary().Header.ID())

	// the best block survives reopening
	reopened, err := NewRepository(db, b0)
	require.NoError(t, err)
	assert.Equal(t, b1.Header().ID(), reopened.BestBlockSummary().Header.ID())

	id, err := reopened.GetBlockID(1)
	require.NoError(t, err)
	assert.Equal(t, b1.Header().ID(), id)

	blk, err := reopened.GetBlock(id)
	require.NoError(t, err)
	require.Len(t, blk.Transactions(), 1)
	assert.Equal(t, tx1.ID(), blk.Transactions()[0].ID())

	receipts, err := reopened.GetBlockReceipts(id)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, uint64(100), receipts[0].GasUsed)
	assert.Equal(t, []byte{1}, receipts[0].Outputs[0].Data)

	trx, meta, err := reopened.GetTransaction(tx1.ID())
	require.NoError(t, err)
	assert.Equal(t, tx1.ID(), trx.ID())
	assert.Equal(t, TxMeta{BlockID: id, Index: 0}, *meta)

	receipt, err := reopened.GetReceipt(tx1.ID())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), receipt.GasUsed)
}

func TestAddBlockErrors(t *testing.T) {
	_, b0, repo := newTestRepo(t)

	b1 := newBlock(b0.Header())
	assert.ErrorContains(t, repo.AddBlock(b1, tx.Receipts{&tx.Receipt{}}), "txs count != receipts count")
	require.NoError(t, repo.AddBlock(b1, nil))

	// forks are not accepted
	fork := new(block.Builder).ParentID(b0.Header().ID()).Number(1).Timestamp(100).Build()
	assert.ErrorContains(t, repo.AddBlock(fork, nil), "parent is not the best block")

	gap := new(block.Builder).ParentID(b1.Header().ID()).Number(5).Build()
	assert.ErrorContains(t, repo.AddBlock(gap, nil), "block number is not continuous")
}

func TestRepositoryNotFound(t *testing.T) {
	_, _, repo := newTestRepo(t)

	_, err := repo.GetBlockID(100)
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetBlockSummary(ronin.Bytes32{1})
	assert.True(t, repo.IsNotFound(err))
	_, _, err = repo.GetTransaction(ronin.Bytes32{1})
	assert.True(t, repo.IsNotFound(err))
}

func TestGenesisMismatch(t *testing.T) {
	db, b0, _ := newTestRepo(t)
	other := new(block.Builder).Timestamp(b0.Header().Timestamp() + 1).Build()
	_, err := NewRepository(db, other)
	assert.ErrorContains(t, err, "genesis mismatch")
}
