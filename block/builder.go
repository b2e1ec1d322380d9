// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	header headerBody
	txs    tx.Transactions
}

// ParentID set parent id.
func (b *Builder) ParentID(id ronin.Bytes32) *Builder {
	b.header.ParentID = id
	return b
}

// Number set block number.
func (b *Builder) Number(n uint64) *Builder {
	b.header.Number = n
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.header.Timestamp = ts
	return b
}

// Coinbase set the block producer.
func (b *Builder) Coinbase(addr ronin.Address) *Builder {
	b.header.Coinbase = addr
	return b
}

// GasUsed set gas used.
func (b *Builder) GasUsed(used uint64) *Builder {
	b.header.GasUsed = used
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(hash ronin.Bytes32) *Builder {
	b.header.StateRoot = hash
	return b
}

// ReceiptsRoot set receipts root.
func (b *Builder) ReceiptsRoot(hash ronin.Bytes32) *Builder {
	b.header.ReceiptsRoot = hash
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(tx *tx.Transaction) *Builder {
	b.txs = append(b.txs, tx)
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	header := Header{body: b.header}
	header.body.TxsRoot = b.txs.RootHash()

	return &Block{
		header: &header,
		txs:    b.txs,
	}
}
