// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transactions against the builtin contracts.
package runtime

import (
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/state"
	Tx "github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricClauseGas   = metrics.LazyLoadHistogram("clause_gas_used", metrics.BucketGas)
	metricRevertedTxs = metrics.LazyLoadCounter("tx_reverted_count")
)

// Output output of a clause execution.
type Output struct {
	Data         []byte
	Events       Tx.Events
	LeftOverGas  uint64
	VMErr        error
	RevertReason []byte
}

// Runtime is to support transaction execution.
type Runtime struct {
	state    *state.State
	blockCtx xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockCtx *xenv.BlockContext) *Runtime {
	return &Runtime{
		state:    state,
		blockCtx: *blockCtx,
	}
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return &rt.blockCtx }

// fatal reports errors that must abort block execution rather than revert a clause.
func fatal(err error) bool {
	var stateErr *state.Error
	return errors.As(err, &stateErr)
}

func (rt *Runtime) execute(clause *Tx.Clause, gas uint64, txCtx *xenv.TransactionContext, readonly bool) (*Output, error) {
	var (
		checkpoint = rt.state.NewCheckpoint()
		to         = clause.To()
		value      = clause.Value()
		blockCtx   = rt.blockCtx
		out        = &Output{LeftOverGas: gas}
	)

	revert := func(err error) (*Output, error) {
		rt.state.RevertTo(checkpoint)
		if fatal(err) {
			return nil, err
		}
		out.VMErr = err
		out.RevertReason = reverts.Bytes(err)
		out.Events = nil
		return out, nil
	}

	if err := rt.state.Transfer(txCtx.Origin, to, value); err != nil {
		return revert(err)
	}

	env := xenv.New(rt.state, &blockCtx, txCtx, txCtx.Origin, to, value, gas)
	call := builtin.HandleNativeCall(env, clause.Data(), readonly)
	if call == nil {
		if len(clause.Data()) > 0 || builtin.ByAddress(to) != nil {
			return revert(errors.WithMessagef(builtin.ErrNoNativeMethod, "call %v", to))
		}
		// plain value transfer
		return out, nil
	}

	data, err := call()
	out.LeftOverGas = env.GasLeft()
	if err != nil {
		logger.Debug("clause reverted", "to", to, "err", err)
		return revert(err)
	}
	out.Data = data
	out.Events = env.Events()
	return out, nil
}

// ExecuteClause executes a single clause. State changes are reverted when the clause fails.
func (rt *Runtime) ExecuteClause(clause *Tx.Clause, gas uint64, txCtx *xenv.TransactionContext) (*Output, error) {
	return rt.execute(clause, gas, txCtx, false)
}

// Call executes a clause in read only mode. Its state changes are always discarded.
func (rt *Runtime) Call(clause *Tx.Clause, gas uint64, caller xenv.TransactionContext) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)
	return rt.execute(clause, gas, &caller, true)
}

// ExecuteTransaction executes a transaction.
// If some clause failed, all clauses are reverted and receipt.Outputs is nil.
func (rt *Runtime) ExecuteTransaction(tx *Tx.Transaction) (*Tx.Receipt, error) {
	resolvedTx, err := ResolveTransaction(tx)
	if err != nil {
		return nil, err
	}
	if err := resolvedTx.CheckBalance(rt.state); err != nil {
		return nil, err
	}

	var (
		txCtx            = resolvedTx.ToContext()
		clauseCheckpoint = rt.state.NewCheckpoint()
		leftOverGas      = tx.Gas() - resolvedTx.IntrinsicGas
		receipt          = &Tx.Receipt{Outputs: make([]*Tx.Output, 0, len(resolvedTx.Clauses))}
	)

	for _, clause := range resolvedTx.Clauses {
		out, err := rt.execute(clause, leftOverGas, txCtx, false)
		if err != nil {
			return nil, err
		}
		metricClauseGas().Observe(int64(leftOverGas - out.LeftOverGas))
		leftOverGas = out.LeftOverGas

		if out.VMErr != nil {
			// revert all executed clauses
			rt.state.RevertTo(clauseCheckpoint)
			receipt.Reverted = true
			receipt.RevertReason = out.RevertReason
			receipt.Outputs = nil
			metricRevertedTxs().Add(1)
			break
		}
		receipt.Outputs = append(receipt.Outputs, &Tx.Output{Events: out.Events, Data: out.Data})
	}

	receipt.GasUsed = tx.Gas() - leftOverGas
	return receipt, nil
}
