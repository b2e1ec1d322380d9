// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

type JSONBlockSummary struct {
	Number       uint64        `json:"number"`
	ID           ronin.Bytes32 `json:"id"`
	ParentID     ronin.Bytes32 `json:"parentID"`
	Timestamp    uint64        `json:"timestamp"`
	Coinbase     ronin.Address `json:"coinbase"`
	GasUsed      uint64        `json:"gasUsed"`
	TxsRoot      ronin.Bytes32 `json:"txsRoot"`
	StateRoot    ronin.Bytes32 `json:"stateRoot"`
	ReceiptsRoot ronin.Bytes32 `json:"receiptsRoot"`
}

type JSONCollapsedBlock struct {
	*JSONBlockSummary
	Transactions []ronin.Bytes32 `json:"transactions"`
}

type JSONClause struct {
	To    ronin.Address        `json:"to"`
	Value math.HexOrDecimal256 `json:"value"`
	Data  string               `json:"data"`
}

type JSONEvent struct {
	Address ronin.Address   `json:"address"`
	Topics  []ronin.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
}

type JSONOutput struct {
	Events []*JSONEvent `json:"events"`
	Data   string       `json:"data"`
}

type JSONEmbeddedTx struct {
	ID      ronin.Bytes32       `json:"id"`
	Origin  ronin.Address       `json:"origin"`
	Clauses []*JSONClause       `json:"clauses"`
	Gas     uint64              `json:"gas"`
	Nonce   math.HexOrDecimal64 `json:"nonce"`

	// receipt part
	GasUsed      uint64        `json:"gasUsed"`
	Reverted     bool          `json:"reverted"`
	RevertReason string        `json:"revertReason,omitempty"`
	Outputs      []*JSONOutput `json:"outputs"`
}

type JSONExpandedBlock struct {
	*JSONBlockSummary
	Transactions []*JSONEmbeddedTx `json:"transactions"`
}

func buildJSONBlockSummary(summary *chain.BlockSummary) *JSONBlockSummary {
	header := summary.Header
	return &JSONBlockSummary{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		Coinbase:     header.Coinbase(),
		GasUsed:      header.GasUsed(),
		TxsRoot:      header.TxsRoot(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
	}
}

// ConvertClause converts a clause into its json form.
func ConvertClause(c *tx.Clause) *JSONClause {
	return &JSONClause{
		To:    c.To(),
		Value: math.HexOrDecimal256(*c.Value().ToBig()),
		Data:  hexutil.Encode(c.Data()),
	}
}

// ConvertOutputs converts receipt outputs into their json form.
func ConvertOutputs(outputs []*tx.Output) []*JSONOutput {
	jOutputs := make([]*JSONOutput, 0, len(outputs))
	for _, output := range outputs {
		jOutput := &JSONOutput{
			Events: make([]*JSONEvent, 0, len(output.Events)),
			Data:   hexutil.Encode(output.Data),
		}
		for _, e := range output.Events {
			jOutput.Events = append(jOutput.Events, &JSONEvent{
				Address: e.Address,
				Topics:  e.Topics,
				Data:    hexutil.Encode(e.Data),
			})
		}
		jOutputs = append(jOutputs, jOutput)
	}
	return jOutputs
}

func buildJSONEmbeddedTxs(txs tx.Transactions, receipts tx.Receipts) []*JSONEmbeddedTx {
	jTxs := make([]*JSONEmbeddedTx, 0, len(txs))
	for i, trx := range txs {
		receipt := receipts[i]
		clauses := make([]*JSONClause, 0, len(trx.Clauses()))
		for _, c := range trx.Clauses() {
			clauses = append(clauses, ConvertClause(c))
		}
		jTx := &JSONEmbeddedTx{
			ID:       trx.ID(),
			Origin:   trx.Origin(),
			Clauses:  clauses,
			Gas:      trx.Gas(),
			Nonce:    math.HexOrDecimal64(trx.Nonce()),
			GasUsed:  receipt.GasUsed,
			Reverted: receipt.Reverted,
			Outputs:  ConvertOutputs(receipt.Outputs),
		}
		if len(receipt.RevertReason) > 0 {
			jTx.RevertReason = hexutil.Encode(receipt.RevertReason)
		}
		jTxs = append(jTxs, jTx)
	}
	return jTxs
}
