// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Error is a custom error declared by a contract.
type Error struct {
	id  MethodID
	err ethabi.Error
}

func newError(e ethabi.Error) *Error {
	var id MethodID
	copy(id[:], e.ID[:4])
	return &Error{id, e}
}

// ID returns the 4 bytes selector.
func (e *Error) ID() MethodID {
	return e.id
}

// Name returns error name.
func (e *Error) Name() string {
	return e.err.Name
}

// Sig returns the canonical signature.
func (e *Error) Sig() string {
	return e.err.Sig
}

// Unpack decodes revert data into the error arguments.
func (e *Error) Unpack(data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, errors.New("input too short")
	}
	return e.err.Inputs.Unpack(data[4:])
}
