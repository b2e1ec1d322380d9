// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts declares the errors the builtin contracts revert with.
package reverts

import "errors"

// requireDef is the standard Error(string) of require statements.
var requireDef = NewDef("Error", "string")

// ErrRequire is a revert with a plain message, encoded as Error(string).
type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{message: message}
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Bytes returns the Error(string) payload.
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}
	return requireDef.New(e.message).Bytes()
}

// IsRevertErr reports whether err carries a revert payload, as opposed to an
// internal failure that aborts execution.
func IsRevertErr(err error) bool {
	if err == nil {
		return false
	}
	var d *Def
	return Bytes(err) != nil || errors.As(err, &d)
}
