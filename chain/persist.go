// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/kv"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

const (
	txInfix      = byte(0)
	receiptInfix = byte(1)
)

// BlockSummary presents block summary.
type BlockSummary struct {
	Header *block.Header
	Txs    []ronin.Bytes32
}

// TxMeta locates a transaction in the chain.
type TxMeta struct {
	BlockID  ronin.Bytes32
	Index    uint64
	Reverted bool
}

// the key for tx/receipt.
// it consists of: ( block id | infix | index )
type txKey [32 + 1 + 8]byte

func makeTxKey(blockID ronin.Bytes32, infix byte) (k txKey) {
	copy(k[:], blockID[:])
	k[32] = infix
	return
}

func (k *txKey) SetIndex(i uint64) {
	binary.BigEndian.PutUint64(k[33:], i)
}

func numberKey(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlockSummary(w kv.Putter, summary *BlockSummary) error {
	id := summary.Header.ID()
	return saveRLP(w, id[:], summary)
}

func loadBlockSummary(r kv.Getter, id ronin.Bytes32) (*BlockSummary, error) {
	var summary BlockSummary
	if err := loadRLP(r, id[:], &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func loadTransaction(r kv.Getter, key txKey) (*tx.Transaction, error) {
	var tx tx.Transaction
	if err := loadRLP(r, key[:], &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func loadReceipt(r kv.Getter, key txKey) (*tx.Receipt, error) {
	var receipt tx.Receipt
	if err := loadRLP(r, key[:], &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func loadTxMeta(r kv.Getter, txID ronin.Bytes32) (*TxMeta, error) {
	var meta TxMeta
	if err := loadRLP(r, txID[:], &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
