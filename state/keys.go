// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ronin-chain/dpos-contract/kv"
	"github.com/ronin-chain/dpos-contract/ronin"
)

const (
	// AccountBucket holds rlp encoded accounts keyed by address.
	AccountBucket = kv.Bucket("a")
	// StorageBucket holds raw storage values keyed by address and slot.
	StorageBucket = kv.Bucket("s")
)

type (
	accountKey ronin.Address
	storageKey struct {
		addr ronin.Address
		key  ronin.Bytes32
	}
)

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, ronin.AddressLength+32)
	return append(append(b, k.addr[:]...), k.key[:]...)
}
