// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
)

// NewFuzzer returns a fuzzer filling structs of the dpos storage types.
// Pointers are never nil and amounts use the full 256 bits.
func NewFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).
		NilChance(0).
		NumElements(0, 8).
		Funcs(func(v *uint256.Int, c fuzz.Continue) {
			for i := range v {
				v[i] = c.Uint64()
			}
		})
}
