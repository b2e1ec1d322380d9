// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// MethodID method id.
type MethodID [4]byte

// Bytes returns the selector as a byte slice.
func (id MethodID) Bytes() []byte {
	return id[:]
}

// Method see abi.Method in go-ethereum.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

// ID returns method id.
func (m *Method) ID() MethodID {
	return m.id
}

// Name returns method name.
func (m *Method) Name() string {
	return m.method.Name
}

// Sig returns the canonical signature, e.g. "stake(address)".
func (m *Method) Sig() string {
	return m.method.Sig
}

// Const returns if the method is const.
func (m *Method) Const() bool {
	return m.method.IsConstant()
}

// Payable returns if the method accepts value.
func (m *Method) Payable() bool {
	return m.method.IsPayable()
}

// EncodeInput encode args to data, and the data is prefixed with method id.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	data, err := m.method.Inputs.Pack(normalize(args)...)
	if err != nil {
		return nil, err
	}
	return append(m.id[:], data...), nil
}

// DecodeInput decode input data into args.
func (m *Method) DecodeInput(input []byte, v any) error {
	if !bytes.HasPrefix(input, m.id[:]) {
		return errors.New("input has incorrect prefix")
	}
	return unpack(m.method.Inputs, v, input[4:])
}

// EncodeOutput encode output args to data.
func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.method.Outputs.Pack(normalize(args)...)
}

// DecodeOutput decode output data.
func (m *Method) DecodeOutput(output []byte, v any) error {
	return unpack(m.method.Outputs, v, output)
}

// ExtractMethodID extract method id from input data.
func ExtractMethodID(input []byte) (id MethodID, err error) {
	if len(input) < len(id) {
		err = errors.New("input too short")
		return
	}
	copy(id[:], input)
	return
}

func unpack(args ethabi.Arguments, v any, data []byte) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}
