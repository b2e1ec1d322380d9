// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Uint64Key keys a mapping by number, e.g. epoch or period.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [32]byte
	binary.BigEndian.PutUint64(b[24:], uint64(k))
	return b[:]
}

// BytesKey keys a mapping by arbitrary bytes, e.g. a public key.
type BytesKey []byte

func (k BytesKey) Bytes() []byte {
	return k
}

// Pair composes two keys, like a nested mapping `m[a][b]`.
func Pair(a, b Key) ronin.Bytes32 {
	return ronin.Keccak256(a.Bytes(), b.Bytes())
}
