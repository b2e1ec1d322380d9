// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"fmt"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// UnpackRevert resolves the revert reason for Error(string) and Panic(uint256) data.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}

// DecodeRevert renders revert data as Error(string) reason, panic, or one of the
// custom errors of a with its arguments. It reports false for anything else.
func (a *ABI) DecodeRevert(data []byte) (string, bool) {
	if reason, err := UnpackRevert(data); err == nil {
		return reason, true
	}
	e, found := a.ErrorByData(data)
	if !found {
		return "", false
	}
	args, err := e.Unpack(data)
	if err != nil || len(args) == 0 {
		return e.Name(), true
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return e.Name() + "(" + strings.Join(parts, ", ") + ")", true
}
