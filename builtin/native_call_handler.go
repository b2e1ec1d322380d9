// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ErrNoNativeMethod is returned when the call data addresses no native method.
var ErrNoNativeMethod = errors.New("native call: no such method")

var metricNativeCalls = metrics.LazyLoadCounterVec("native_calls_count", []string{"contract", "method", "status"})

// HandleNativeCall entry of native methods implementation. The env callee is the
// contract being called. It returns nil if the input addresses no native method.
func HandleNativeCall(env *xenv.Environment, input []byte, readonly bool) func() ([]byte, error) {
	method := lookupMethod(env.To(), input)
	if method == nil {
		return nil
	}
	call := env.WithInput(method.abi, input).Call(method.run, readonly)
	return func() ([]byte, error) {
		out, err := call()
		status := "ok"
		if err != nil {
			status = "reverted"
		}
		metricNativeCalls().AddWithLabel(1, map[string]string{
			"contract": ByAddress(env.To()).name,
			"method":   method.abi.Name(),
			"status":   status,
		})
		return out, err
	}
}

// Link wires the builtin contracts to each other.
var Link dpos.Linker = linker{}

type linker struct{}

func (linker) Address(t dpos.ContractType) ronin.Address {
	if c := ByType(t); c != nil {
		return c.Address
	}
	return ronin.Address{}
}

func (linker) Profiles(from *xenv.Environment, value *uint256.Int) (dpos.Profiles, error) {
	sub, err := from.Sub(Profile.Address, value)
	if err != nil {
		return nil, err
	}
	return Profile.Native(sub), nil
}

func (linker) Staking(from *xenv.Environment, value *uint256.Int) (dpos.Staking, error) {
	sub, err := from.Sub(Staking.Address, value)
	if err != nil {
		return nil, err
	}
	return Staking.Native(sub), nil
}

func (linker) ValidatorSet(from *xenv.Environment, value *uint256.Int) (dpos.ValidatorSet, error) {
	sub, err := from.Sub(ValidatorSet.Address, value)
	if err != nil {
		return nil, err
	}
	return ValidatorSet.Native(sub), nil
}

func (linker) Finality(from *xenv.Environment, value *uint256.Int) (dpos.Finality, error) {
	sub, err := from.Sub(FastFinality.Address, value)
	if err != nil {
		return nil, err
	}
	return FastFinality.Native(sub), nil
}

func (linker) Vesting(from *xenv.Environment, value *uint256.Int) (dpos.Vesting, error) {
	sub, err := from.Sub(Vesting.Address, value)
	if err != nil {
		return nil, err
	}
	return Vesting.Native(sub), nil
}

func (linker) TrustedOrgs(from *xenv.Environment, value *uint256.Int) (dpos.TrustedOrgs, error) {
	sub, err := from.Sub(TrustedOrg.Address, value)
	if err != nil {
		return nil, err
	}
	return TrustedOrg.Native(sub), nil
}

// Dispatch calls 'to' with the raw call data. Empty data sent to an address
// that is not a builtin contract is a plain value transfer.
func (linker) Dispatch(from *xenv.Environment, to ronin.Address, value *uint256.Int, data []byte) ([]byte, error) {
	if len(data) == 0 && ByAddress(to) == nil {
		return nil, from.Transfer(to, value)
	}
	sub, err := from.Sub(to, value)
	if err != nil {
		return nil, err
	}
	call := HandleNativeCall(sub, data, false)
	if call == nil {
		return nil, errors.WithMessagef(ErrNoNativeMethod, "call %v", to)
	}
	return call()
}
