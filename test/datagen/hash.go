// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random data for tests.
package datagen

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/ronin-chain/dpos-contract/ronin"
)

func RandomHash() ronin.Bytes32 {
	var b32 ronin.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() ronin.Address {
	var addr ronin.Address

	rand.Read(addr[:])
	return addr
}

func RandAddresses(n int) []ronin.Address {
	addrs := make([]ronin.Address, 0, n)
	for range n {
		addrs = append(addrs, RandAddress())
	}
	return addrs
}

// RandUint64 returns a random value suitable as a tx nonce.
func RandUint64() uint64 {
	var b [8]byte

	rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}
