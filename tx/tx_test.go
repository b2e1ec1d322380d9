// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/ronin"
)

func TestClause(t *testing.T) {
	to := ronin.BytesToAddress([]byte("staking"))
	c := NewClause(to).WithValue(uint256.NewInt(100)).WithData([]byte{1, 2, 3})

	assert.Equal(t, to, c.To())
	assert.Equal(t, uint64(100), c.Value().Uint64())
	assert.Equal(t, []byte{1, 2, 3}, c.Data())

	// returned value is a copy
	c.Value().SetUint64(1)
	assert.Equal(t, uint64(100), c.Value().Uint64())
}

func TestTransactionRLP(t *testing.T) {
	origin := ronin.BytesToAddress([]byte("admin"))
	trx := NewBuilder(origin).
		Gas(21000).
		Nonce(7).
		Clause(NewClause(ronin.BytesToAddress([]byte("a"))).WithValue(uint256.NewInt(1))).
		Clause(NewClause(ronin.BytesToAddress([]byte("b"))).WithData([]byte("x"))).
		Build()

	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, trx.ID(), decoded.ID())
	assert.Equal(t, origin, decoded.Origin())
	assert.Equal(t, uint64(7), decoded.Nonce())
	assert.Equal(t, uint64(21000), decoded.Gas())
	assert.Len(t, decoded.Clauses(), 2)
	assert.Equal(t, uint64(1), decoded.Clauses()[0].Value().Uint64())

	other := NewBuilder(origin).Nonce(8).Build()
	assert.NotEqual(t, trx.ID(), other.ID())
}

func TestRootHash(t *testing.T) {
	assert.True(t, Transactions(nil).RootHash().IsZero())
	assert.True(t, Receipts(nil).RootHash().IsZero())

	r1 := &Receipt{GasUsed: 1, Outputs: []*Output{{Events: Events{{Topics: []ronin.Bytes32{{1}}}}}}}
	r2 := &Receipt{GasUsed: 2, Reverted: true, RevertReason: []byte{0xde, 0xad}}

	assert.NotEqual(t, Receipts{r1, r2}.RootHash(), Receipts{r2, r1}.RootHash())
}
