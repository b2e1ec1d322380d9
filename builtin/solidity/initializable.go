// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var initializedSlot = ronin.BytesToBytes32([]byte("initialized-version"))

// Initializable tracks the highest initializer version already run on a contract.
type Initializable struct {
	version *Uint256
}

func NewInitializable(context *Context) *Initializable {
	return &Initializable{version: NewUint256(context, initializedSlot)}
}

// Version returns the last initializer version run, 0 when never initialized.
func (i *Initializable) Version() (uint8, error) {
	v, err := i.version.Uint64()
	return uint8(v), err
}

// Reinitialize marks version as run. Each version runs at most once and only in increasing order.
func (i *Initializable) Reinitialize(version uint8) error {
	current, err := i.Version()
	if err != nil {
		return err
	}
	if current >= version {
		return reverts.ErrAlreadyInitialized.New(version)
	}
	return i.version.SetUint64(uint64(version))
}
