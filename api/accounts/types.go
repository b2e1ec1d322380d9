// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/ronin-chain/dpos-contract/api/blocks"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/tx"
)

// Account for marshal account
type Account struct {
	Balance math.HexOrDecimal256 `json:"balance"`
	// IsContract reports whether the address hosts a builtin contract.
	IsContract bool   `json:"isContract"`
	Contract   string `json:"contract,omitempty"`
}

// CallData represents contract-call body
type CallData struct {
	Value  *math.HexOrDecimal256 `json:"value"`
	Data   string                `json:"data"`
	Gas    uint64                `json:"gas"`
	Caller *ronin.Address        `json:"caller"`
}

type Clause struct {
	To    ronin.Address         `json:"to"`
	Value *math.HexOrDecimal256 `json:"value"`
	Data  string                `json:"data"`
}

type Clauses []Clause

// BatchCallData executes a batch of clauses on one state, later clauses see the writes of earlier ones.
type BatchCallData struct {
	Clauses Clauses        `json:"clauses"`
	Gas     uint64         `json:"gas"`
	Caller  *ronin.Address `json:"caller"`
}

type CallResult struct {
	Data         string              `json:"data"`
	Events       []*blocks.JSONEvent `json:"events"`
	GasUsed      uint64              `json:"gasUsed"`
	Reverted     bool                `json:"reverted"`
	RevertReason string              `json:"revertReason,omitempty"`
	VMError      string              `json:"vmError"`
}

type BatchCallResults []*CallResult

func convertCallResultWithInputGas(out *runtime.Output, inputGas uint64) *CallResult {
	var (
		vmError      string
		revertReason string
		reverted     bool
	)
	if out.VMErr != nil {
		reverted = true
		vmError = out.VMErr.Error()
		if len(out.RevertReason) > 0 {
			revertReason = hexutil.Encode(out.RevertReason)
		}
	}
	jOutput := blocks.ConvertOutputs([]*tx.Output{{Events: out.Events, Data: out.Data}})[0]
	return &CallResult{
		Data:         jOutput.Data,
		Events:       jOutput.Events,
		GasUsed:      inputGas - out.LeftOverGas,
		Reverted:     reverted,
		RevertReason: revertReason,
		VMError:      vmError,
	}
}
