// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Def declares a custom error, the native counterpart of `error ErrX(type a, ...)`.
type Def struct {
	name     string
	sig      string
	args     ethabi.Arguments
	selector [4]byte
}

// NewDef declares a custom error with the given argument types.
func NewDef(name string, types ...string) *Def {
	args := make(ethabi.Arguments, 0, len(types))
	for _, t := range types {
		typ, err := ethabi.NewType(t, "", nil)
		if err != nil {
			panic(fmt.Sprintf("reverts: bad type %q for %s: %v", t, name, err))
		}
		args = append(args, ethabi.Argument{Type: typ})
	}
	sig := name + "(" + strings.Join(types, ",") + ")"
	d := &Def{name: name, sig: sig, args: args}
	copy(d.selector[:], ronin.Keccak256([]byte(sig)).Bytes())
	return d
}

func (d *Def) Name() string      { return d.name }
func (d *Def) Sig() string       { return d.sig }
func (d *Def) Selector() [4]byte { return d.selector }
func (d *Def) NumArgs() int      { return len(d.args) }
func (d *Def) String() string    { return d.sig }
func (d *Def) Error() string     { return d.name }
func (d *Def) Is(target error) bool {
	var ce *CustomError
	if errors.As(target, &ce) {
		return ce.def == d
	}
	return target == d
}

// New instantiates the error with arguments.
func (d *Def) New(args ...any) *CustomError {
	if len(args) != len(d.args) {
		panic(fmt.Sprintf("reverts: %s expects %d args, got %d", d.name, len(d.args), len(args)))
	}
	return &CustomError{def: d, args: args}
}

// CustomError is a typed revert carrying a selector and ABI encoded arguments.
type CustomError struct {
	def  *Def
	args []any
}

func (e *CustomError) Def() *Def   { return e.def }
func (e *CustomError) Args() []any { return e.args }

func (e *CustomError) Error() string {
	if len(e.args) == 0 {
		return e.def.name
	}
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		parts[i] = fmt.Sprint(a)
	}
	return e.def.name + "(" + strings.Join(parts, ", ") + ")"
}

// Is matches both the declaration and other instances of the same declaration.
func (e *CustomError) Is(target error) bool {
	if d, ok := target.(*Def); ok {
		return e.def == d
	}
	var other *CustomError
	if errors.As(target, &other) {
		return other.def == e.def
	}
	return false
}

// Bytes returns selector followed by the ABI encoded arguments.
func (e *CustomError) Bytes() []byte {
	if e == nil {
		return nil
	}
	packed, err := e.def.args.Pack(packable(e.args)...)
	if err != nil {
		panic(fmt.Sprintf("reverts: encode %s: %v", e.def.name, err))
	}
	return append(e.def.selector[:], packed...)
}

func packable(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *uint256.Int:
			if v == nil {
				out[i] = new(big.Int)
			} else {
				out[i] = v.ToBig()
			}
		case uint64:
			out[i] = new(big.Int).SetUint64(v)
		case ronin.Address:
			out[i] = common.Address(v)
		case ronin.Role:
			out[i] = uint8(v)
		case ronin.Bytes32:
			out[i] = [32]byte(v)
		default:
			out[i] = arg
		}
	}
	return out
}

// Is reports whether err is an instance of def.
func Is(err error, def *Def) bool {
	return errors.Is(err, def)
}

// Bytes returns the revert payload of err, or nil if err is not a revert.
func Bytes(err error) []byte {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Bytes()
	}
	var re *ErrRequire
	if errors.As(err, &re) {
		return re.Bytes()
	}
	var d *Def
	if errors.As(err, &d) && d.NumArgs() == 0 {
		return d.selector[:]
	}
	return nil
}
