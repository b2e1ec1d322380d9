// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/ronin-chain/dpos-contract/ronin"
)

func TestNewFuzzer(t *testing.T) {
	var a, b struct {
		Amount *uint256.Int
		Owner  ronin.Address
		List   []uint64
	}
	NewFuzzer(7).Fuzz(&a)
	NewFuzzer(7).Fuzz(&b)
	assert.NotNil(t, a.Amount)
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, len(a.List), 8)
}

func TestRandAddresses(t *testing.T) {
	addrs := RandAddresses(3)
	assert.Len(t, addrs, 3)
	assert.NotEqual(t, addrs[0], addrs[1])
	assert.False(t, RandAddress().IsZero())
	assert.NotEqual(t, RandomHash(), RandomHash())
}
