// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain persists the simulated chain and produces its blocks.
package chain

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/cache"
	"github.com/ronin-chain/dpos-contract/kv"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

const (
	hdrStoreName     = "chain.hdr"   // for block summaries
	bodyStoreName    = "chain.body"  // for txs and receipts
	propStoreName    = "chain.props" // for property-named blocks such as best block
	indexStoreName   = "chain.index" // for block number to id
	txIndexStoreName = "chain.txi"   // for tx metadata
)

var (
	errNotFound    = errors.New("not found")
	bestBlockIDKey = []byte("best-block-id")
)

// Repository stores block headers, txs and receipts of the canonical chain.
//
// It's thread-safe.
type Repository struct {
	db        kv.Store
	hdrStore  kv.Store
	bodyStore kv.Store
	propStore kv.Store
	idxStore  kv.Store
	txIndexer kv.Store

	genesis     *block.Block
	bestSummary atomic.Pointer[BlockSummary]
	writeLock   sync.Mutex

	caches struct {
		summaries *cache.LRU
		receipts  *cache.LRU
	}
}

// NewRepository create an instance of repository.
func NewRepository(db kv.Store, genesis *block.Block) (*Repository, error) {
	if genesis.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesis.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}

	genesisID := genesis.Header().ID()
	repo := &Repository{
		db:        db,
		hdrStore:  kv.Bucket(hdrStoreName).NewStore(db),
		bodyStore: kv.Bucket(bodyStoreName).NewStore(db),
		propStore: kv.Bucket(propStoreName).NewStore(db),
		idxStore:  kv.Bucket(indexStoreName).NewStore(db),
		txIndexer: kv.Bucket(txIndexStoreName).NewStore(db),
		genesis:   genesis,
	}
	repo.caches.summaries = cache.MustNewLRU("block-summary", 512)
	repo.caches.receipts = cache.MustNewLRU("receipt", 512)

	if val, err := repo.propStore.Get(bestBlockIDKey); err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, err
		}
		if _, err := repo.saveBlock(genesis, nil); err != nil {
			return nil, err
		}
	} else {
		existingGenesisID, err := repo.GetBlockID(0)
		if err != nil {
			return nil, errors.Wrap(err, "get existing genesis id")
		}
		if existingGenesisID != genesisID {
			return nil, errors.New("genesis mismatch")
		}

		summary, err := repo.GetBlockSummary(ronin.BytesToBytes32(val))
		if err != nil {
			return nil, errors.Wrap(err, "get best block")
		}
		repo.bestSummary.Store(summary)
	}
	return repo, nil
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// BestBlockSummary returns the summary of the newest block.
func (r *Repository) BestBlockSummary() *BlockSummary {
	return r.bestSummary.Load()
}

func (r *Repository) saveBlock(blk *block.Block, receipts tx.Receipts) (*BlockSummary, error) {
	var (
		header        = blk.Header()
		id            = header.ID()
		txs           = blk.Transactions()
		txIDs         = make([]ronin.Bytes32, 0, len(txs))
		batch         = r.db.NewBatch()
		hdrPutter     = kv.Bucket(hdrStoreName).NewPutter(batch)
		bodyPutter    = kv.Bucket(bodyStoreName).NewPutter(batch)
		propPutter    = kv.Bucket(propStoreName).NewPutter(batch)
		idxPutter     = kv.Bucket(indexStoreName).NewPutter(batch)
		txIndexPutter = kv.Bucket(txIndexStoreName).NewPutter(batch)
	)
	if len(txs) != len(receipts) {
		return nil, errors.New("txs count != receipts count")
	}

	txKey := makeTxKey(id, txInfix)
	receiptKey := makeTxKey(id, receiptInfix)
	for i, trx := range txs {
		txID := trx.ID()
		txIDs = append(txIDs, txID)

		txKey.SetIndex(uint64(i))
		if err := saveRLP(bodyPutter, txKey[:], trx); err != nil {
			return nil, err
		}
		receiptKey.SetIndex(uint64(i))
		if err := saveRLP(bodyPutter, receiptKey[:], receipts[i]); err != nil {
			return nil, err
		}
		if err := saveRLP(txIndexPutter, txID[:], &TxMeta{id, uint64(i), receipts[i].Reverted}); err != nil {
			return nil, err
		}
	}

	summary := &BlockSummary{header, txIDs}
	if err := saveBlockSummary(hdrPutter, summary); err != nil {
		return nil, err
	}
	if err := idxPutter.Put(numberKey(header.Number()), id[:]); err != nil {
		return nil, err
	}
	if err := propPutter.Put(bestBlockIDKey, id[:]); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}

	r.caches.summaries.Add(id, summary)
	r.bestSummary.Store(summary)
	metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "write", "target": "db"})
	return summary, nil
}

// AddBlock appends a block with its receipts. The block must extend the best block.
func (r *Repository) AddBlock(newBlock *block.Block, receipts tx.Receipts) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	best := r.BestBlockSummary()
	if newBlock.Header().ParentID() != best.Header.ID() {
		return errors.New("parent is not the best block")
	}
	if newBlock.Header().Number() != best.Header.Number()+1 {
		return errors.New("block number is not continuous")
	}
	_, err := r.saveBlock(newBlock, receipts)
	return err
}

// IsNotFound returns if an error means not found.
func (r *Repository) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound) || r.db.IsNotFound(errors.Cause(err))
}

// GetBlockID returns the id of the canonical block at num.
func (r *Repository) GetBlockID(num uint64) (ronin.Bytes32, error) {
	data, err := r.idxStore.Get(numberKey(num))
	if err != nil {
		return ronin.Bytes32{}, err
	}
	return ronin.BytesToBytes32(data), nil
}

// GetBlockSummary get block summary by block id.
func (r *Repository) GetBlockSummary(id ronin.Bytes32) (*BlockSummary, error) {
	summary, err := r.caches.summaries.GetOrLoad(id, func(any) (any, error) {
		return loadBlockSummary(r.hdrStore, id)
	})
	if err != nil {
		return nil, err
	}
	return summary.(*BlockSummary), nil
}

// GetBlock get block by id.
func (r *Repository) GetBlock(id ronin.Bytes32) (*block.Block, error) {
	summary, err := r.GetBlockSummary(id)
	if err != nil {
		return nil, err
	}
	txs := make(tx.Transactions, 0, len(summary.Txs))
	key := makeTxKey(id, txInfix)
	for i := range summary.Txs {
		key.SetIndex(uint64(i))
		trx, err := loadTransaction(r.bodyStore, key)
		if err != nil {
			return nil, err
		}
		txs = append(txs, trx)
	}
	metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "db"})
	return block.New(summary.Header, txs), nil
}

// GetBlockReceipts get all tx receipts in the block for given block id.
func (r *Repository) GetBlockReceipts(id ronin.Bytes32) (tx.Receipts, error) {
	summary, err := r.GetBlockSummary(id)
	if err != nil {
		return nil, err
	}
	receipts := make(tx.Receipts, 0, len(summary.Txs))
	key := makeTxKey(id, receiptInfix)
	for i := range summary.Txs {
		key.SetIndex(uint64(i))
		receipt, err := r.caches.receipts.GetOrLoad(key, func(any) (any, error) {
			return loadReceipt(r.bodyStore, key)
		})
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt.(*tx.Receipt))
	}
	return receipts, nil
}

// GetTransaction returns a transaction with its location.
func (r *Repository) GetTransaction(txID ronin.Bytes32) (*tx.Transaction, *TxMeta, error) {
	meta, err := loadTxMeta(r.txIndexer, txID)
	if err != nil {
		return nil, nil, err
	}
	key := makeTxKey(meta.BlockID, txInfix)
	key.SetIndex(meta.Index)
	trx, err := loadTransaction(r.bodyStore, key)
	if err != nil {
		return nil, nil, err
	}
	return trx, meta, nil
}

// GetReceipt returns the receipt of a transaction.
func (r *Repository) GetReceipt(txID ronin.Bytes32) (*tx.Receipt, error) {
	meta, err := loadTxMeta(r.txIndexer, txID)
	if err != nil {
		return nil, err
	}
	key := makeTxKey(meta.BlockID, receiptInfix)
	key.SetIndex(meta.Index)
	return loadReceipt(r.bodyStore, key)
}
