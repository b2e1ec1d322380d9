// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/api/blocks"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

// BlockContext locates a transaction in the chain.
type BlockContext struct {
	ID        ronin.Bytes32 `json:"id"`
	Number    uint64        `json:"number"`
	Timestamp uint64        `json:"timestamp"`
}

// Transaction transaction
type Transaction struct {
	ID      ronin.Bytes32        `json:"id"`
	Origin  ronin.Address        `json:"origin"`
	Clauses []*blocks.JSONClause `json:"clauses"`
	Gas     uint64               `json:"gas"`
	Nonce   math.HexOrDecimal64  `json:"nonce"`
	Block   BlockContext         `json:"meta"`
}

// Receipt for json marshal
type Receipt struct {
	GasUsed      uint64               `json:"gasUsed"`
	Reverted     bool                 `json:"reverted"`
	RevertReason string               `json:"revertReason,omitempty"`
	Outputs      []*blocks.JSONOutput `json:"outputs"`
	Meta         ReceiptMeta          `json:"meta"`
}

// ReceiptMeta is the block and tx a receipt belongs to.
type ReceiptMeta struct {
	BlockContext
	TxID     ronin.Bytes32 `json:"txID"`
	TxOrigin ronin.Address `json:"txOrigin"`
}

// RawTx a rlp encoded transaction.
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		return nil, err
	}
	return &trx, nil
}

// Clause is a clause of a transaction submitted in json.
type Clause struct {
	To    ronin.Address         `json:"to"`
	Value *math.HexOrDecimal256 `json:"value"`
	Data  string                `json:"data"`
}

// SendTransaction is a transaction submitted in json, without signature.
type SendTransaction struct {
	Origin  ronin.Address       `json:"origin"`
	Clauses []Clause            `json:"clauses"`
	Gas     uint64              `json:"gas"`
	Nonce   math.HexOrDecimal64 `json:"nonce"`
	Raw     string              `json:"raw,omitempty"`
}

func (s *SendTransaction) build() (*tx.Transaction, error) {
	if s.Raw != "" {
		return (&RawTx{s.Raw}).decode()
	}
	if len(s.Clauses) == 0 {
		return nil, errors.New("no clauses")
	}
	builder := tx.NewBuilder(s.Origin).Gas(s.Gas).Nonce(uint64(s.Nonce))
	for i, c := range s.Clauses {
		clause := tx.NewClause(c.To)
		if c.Value != nil {
			value, overflow := uint256.FromBig((*big.Int)(c.Value))
			if overflow {
				return nil, errors.Errorf("clause %v: value overflows", i)
			}
			clause = clause.WithValue(value)
		}
		if c.Data != "" {
			data, err := hexutil.Decode(c.Data)
			if err != nil {
				return nil, errors.WithMessagef(err, "clause %v: data", i)
			}
			clause = clause.WithData(data)
		}
		builder.Clause(clause)
	}
	return builder.Build(), nil
}

// ConvertTransaction converts a transaction into its json form.
func ConvertTransaction(trx *tx.Transaction, header *block.Header) *Transaction {
	clauses := make([]*blocks.JSONClause, 0, len(trx.Clauses()))
	for _, c := range trx.Clauses() {
		clauses = append(clauses, blocks.ConvertClause(c))
	}
	return &Transaction{
		ID:      trx.ID(),
		Origin:  trx.Origin(),
		Clauses: clauses,
		Gas:     trx.Gas(),
		Nonce:   math.HexOrDecimal64(trx.Nonce()),
		Block: BlockContext{
			ID:        header.ID(),
			Number:    header.Number(),
			Timestamp: header.Timestamp(),
		},
	}
}

func convertReceipt(receipt *tx.Receipt, header *block.Header, trx *tx.Transaction) *Receipt {
	r := &Receipt{
		GasUsed:  receipt.GasUsed,
		Reverted: receipt.Reverted,
		Outputs:  blocks.ConvertOutputs(receipt.Outputs),
		Meta: ReceiptMeta{
			BlockContext{header.ID(), header.Number(), header.Timestamp()},
			trx.ID(),
			trx.Origin(),
		},
	}
	if len(receipt.RevertReason) > 0 {
		r.RevertReason = hexutil.Encode(receipt.RevertReason)
	}
	return r
}
