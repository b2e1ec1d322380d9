// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
)

func newList(t *testing.T) *LinkedList {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(ronin.Bytes32{})
	sctx := solidity.NewContext(ronin.BytesToAddress([]byte("list")), st, nil)
	return NewLinkedList(sctx,
		ronin.BytesToBytes32([]byte("head")),
		ronin.BytesToBytes32([]byte("tail")),
		ronin.BytesToBytes32([]byte("count")),
	)
}

func TestLinkedList(t *testing.T) {
	l := newList(t)
	a, b, c := ronin.Address{1}, ronin.Address{2}, ronin.Address{3}

	for _, addr := range []ronin.Address{a, b, c, b} {
		require.NoError(t, l.Add(addr))
	}
	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	all, err := l.All()
	require.NoError(t, err)
	assert.Equal(t, []ronin.Address{a, b, c}, all)

	require.NoError(t, l.Remove(b))
	all, _ = l.All()
	assert.Equal(t, []ronin.Address{a, c}, all)

	ok, _ := l.Contains(b)
	assert.False(t, ok)
	ok, _ = l.Contains(a)
	assert.True(t, ok)

	// removing a missing entry is a no-op
	require.NoError(t, l.Remove(b))

	require.NoError(t, l.Remove(a))
	head, _ := l.Head()
	assert.Equal(t, c, head)

	require.NoError(t, l.Remove(c))
	all, _ = l.All()
	assert.Empty(t, all)
	n, _ = l.Len()
	assert.Zero(t, n)

	assert.Error(t, l.Add(ronin.Address{}))
}

func TestIterRemove(t *testing.T) {
	l := newList(t)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, l.Add(ronin.Address{i}))
	}
	require.NoError(t, l.Iter(func(addr ronin.Address) error {
		if addr[0]%2 == 0 {
			return l.Remove(addr)
		}
		return nil
	}))
	all, _ := l.All()
	assert.Equal(t, []ronin.Address{{1}, {3}, {5}}, all)
}
