// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
)

// MaxCallDepth limits nested native calls.
const MaxCallDepth = 64

var (
	ErrOutOfGas        = errors.New("out of gas")
	ErrWriteProtection = errors.New("write protection")
	ErrDepth           = errors.New("max call depth exceeded")
	ErrNonPayable      = reverts.NewRequireError("non-payable method")
)

// BlockContext block context.
type BlockContext struct {
	Number   uint64
	Time     uint64
	Coinbase ronin.Address
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     ronin.Bytes32
	Origin ronin.Address
}

type vmError struct {
	cause error
}

// frame holds what is shared by all nested calls of one clause.
type frame struct {
	gasLeft uint64
	gasUsed uint64
	events  tx.Events
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	caller   ronin.Address
	to       ronin.Address
	value    *uint256.Int
	depth    int
	frame    *frame

	method *abi.Method
	input  []byte
}

// New create a new env for a top level call.
// The value is expected to be already credited to 'to'.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	caller ronin.Address,
	to ronin.Address,
	value *uint256.Int,
	gas uint64,
) *Environment {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   caller,
		to:       to,
		value:    value,
		frame:    &frame{gasLeft: gas},
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() ronin.Address                   { return env.caller }
func (env *Environment) To() ronin.Address                       { return env.to }
func (env *Environment) Value() *uint256.Int                     { return new(uint256.Int).Set(env.value) }
func (env *Environment) Depth() int                              { return env.depth }
func (env *Environment) GasUsed() uint64                         { return env.frame.gasUsed }
func (env *Environment) GasLeft() uint64                         { return env.frame.gasLeft }

// Events returns the events emitted so far by this call and all its nested calls.
func (env *Environment) Events() tx.Events {
	return append(tx.Events(nil), env.frame.events...)
}

// WithInput binds the method being dispatched and the raw call data.
func (env *Environment) WithInput(method *abi.Method, input []byte) *Environment {
	cpy := *env
	cpy.method = method
	cpy.input = input
	return &cpy
}

func (env *Environment) UseGas(gas uint64) {
	if env.frame.gasLeft < gas {
		env.frame.gasUsed += env.frame.gasLeft
		env.frame.gasLeft = 0
		panic(&vmError{ErrOutOfGas})
	}
	env.frame.gasLeft -= gas
	env.frame.gasUsed += gas
}

func (env *Environment) ParseArgs(val any) {
	if err := env.method.DecodeInput(env.input, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

// Log emits an event of the current contract. Indexed arguments become topics.
func (env *Environment) Log(ev *abi.Event, args ...any) {
	topics, data, err := ev.EncodeLog(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(ronin.LogGas + ronin.LogTopicGas*uint64(len(topics)-1) + ronin.LogDataGas*uint64(len(data)))

	env.frame.events = append(env.frame.events, &tx.Event{
		Address: env.to,
		Topics:  topics,
		Data:    data,
	})
}

// Stop aborts the current call with the given error.
func (env *Environment) Stop(err error) {
	panic(&vmError{err})
}

// Must stops the call on a non-nil error.
func (env *Environment) Must(err error) {
	if err != nil {
		env.Stop(err)
	}
}

// Sub opens a nested call from the current contract to 'to', moving value along.
func (env *Environment) Sub(to ronin.Address, value *uint256.Int) (*Environment, error) {
	if env.depth+1 > MaxCallDepth {
		return nil, ErrDepth
	}
	if value == nil {
		value = new(uint256.Int)
	}
	if err := env.state.Transfer(env.to, to, value); err != nil {
		return nil, err
	}
	return &Environment{
		state:    env.state,
		blockCtx: env.blockCtx,
		txCtx:    env.txCtx,
		caller:   env.to,
		to:       to,
		value:    new(uint256.Int).Set(value),
		depth:    env.depth + 1,
		frame:    env.frame,
	}, nil
}

// Transfer sends value held by the current contract to a plain account.
func (env *Environment) Transfer(to ronin.Address, amount *uint256.Int) error {
	return env.state.Transfer(env.to, to, amount)
}

// Try runs fn and rolls back state changes and events made by it when it fails.
func (env *Environment) Try(fn func() error) (err error) {
	var (
		checkpoint = env.state.NewCheckpoint()
		nEvents    = len(env.frame.events)
	)
	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*vmError); ok {
				err = rec.cause
			} else {
				panic(e)
			}
		}
		if err != nil {
			env.state.RevertTo(checkpoint)
			env.frame.events = env.frame.events[:nEvents]
		}
	}()
	return fn()
}

// Call wraps a native procedure. Errors raised through Stop are returned, other panics propagate.
func (env *Environment) Call(proc func(env *Environment) []any, readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.method.Const() {
			return nil, ErrWriteProtection
		}

		if !env.value.IsZero() && !env.method.Payable() {
			// reject value transfer on call
			return nil, ErrNonPayable
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.method.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}
