// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain wires an in-memory chain for tests: genesis, repository,
// log db and the block simulator.
package testchain

import (
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/logdb"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
)

// DefaultEpochLength keeps epochs short so tests reach wrap-ups quickly.
const DefaultEpochLength = 10

// Chain represents the blockchain structure.
type Chain struct {
	db           *lvldb.LevelDB
	genesis      *genesis.Genesis
	repo         *chain.Repository
	stater       *state.Stater
	genesisBlock *block.Block
	logDB        *logdb.LogDB
	sim          *chain.Simulator
}

// NewDefault creates a devnet chain with short epochs.
func NewDefault() (*Chain, error) {
	cfg := genesis.DevConfig()
	cfg.ValidatorSet.NumberOfBlocksInEpoch = DefaultEpochLength
	return New(cfg, chain.DefaultOptions())
}

// New creates a chain from cfg.
func New(cfg *genesis.Config, opts chain.Options) (c *Chain, err error) {
	gene, err := genesis.NewGenesis("testchain", cfg)
	if err != nil {
		return nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	stater := state.NewStater(db)
	genesisBlock, _, err := gene.Build(stater)
	if err != nil {
		return nil, err
	}
	repo, err := chain.NewRepository(db, genesisBlock)
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}

	sim := chain.NewSimulator(repo, stater, opts)
	sim.Subscribe(logDB.IndexBlock)
	return &Chain{
		db:           db,
		genesis:      gene,
		repo:         repo,
		stater:       stater,
		genesisBlock: genesisBlock,
		logDB:        logDB,
		sim:          sim,
	}, nil
}

// Close releases the databases.
func (c *Chain) Close() {
	c.logDB.Close()
	c.db.Close()
}

func (c *Chain) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Chain) Repo() *chain.Repository {
	return c.repo
}

// State returns the state at the best block.
func (c *Chain) State() *state.State {
	return c.stater.NewState(c.repo.BestBlockSummary().Header.StateRoot())
}

func (c *Chain) Stater() *state.Stater {
	return c.stater
}

func (c *Chain) GenesisBlock() *block.Block {
	return c.genesisBlock
}

func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

func (c *Chain) Simulator() *chain.Simulator {
	return c.sim
}

// MintBlock produces a block including transactions.
func (c *Chain) MintBlock(transactions ...*tx.Transaction) error {
	for _, trx := range transactions {
		c.sim.AddTx(trx)
	}
	_, _, err := c.sim.Produce()
	return err
}

// MintBlocks produces n empty blocks.
func (c *Chain) MintBlocks(n int) error {
	for range n {
		if err := c.MintBlock(); err != nil {
			return err
		}
	}
	return nil
}

// BestBlock returns the newest block.
func (c *Chain) BestBlock() (*block.Block, error) {
	return c.repo.GetBlock(c.repo.BestBlockSummary().Header.ID())
}

// GetTxReceipt returns the receipt of a minted transaction.
func (c *Chain) GetTxReceipt(txID [32]byte) (*tx.Receipt, error) {
	return c.repo.GetReceipt(txID)
}
