// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller ronin.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *tx.Clause, caller ronin.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (ronin.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return ronin.Bytes32{}, err
	}
	defer db.Close()

	blk, _, err := b.Build(state.NewStater(db))
	if err != nil {
		return ronin.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block according to presets.
func (b *Builder) Build(stater *state.Stater) (blk *block.Block, events tx.Events, err error) {
	st := stater.NewState(ronin.Bytes32{})

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, &xenv.BlockContext{
		Time: b.timestamp,
	})

	for i, call := range b.calls {
		out, err := rt.ExecuteClause(call.clause, math.MaxUint64, &xenv.TransactionContext{
			Origin: call.caller,
		})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "call #%d", i)
		}
		if out.VMErr != nil {
			return nil, nil, errors.Wrapf(out.VMErr, "vm: call #%d to %v", i, call.clause.To())
		}
		events = append(events, out.Events...)
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, nil, errors.Wrap(err, "stage state")
	}
	stateRoot, err := stage.Commit()
	if err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}

	return new(block.Builder).
		Number(0).
		Timestamp(b.timestamp).
		StateRoot(stateRoot).
		ReceiptsRoot(tx.Receipts(nil).RootHash()).
		Build(), events, nil
}
