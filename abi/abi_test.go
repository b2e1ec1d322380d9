// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/ronin"
)

const testABI = `[
	{"type":"function","name":"getReward","stateMutability":"view",
	 "inputs":[{"name":"consensus","type":"address"},{"name":"user","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"stake","stateMutability":"payable",
	 "inputs":[{"name":"consensus","type":"address"}],"outputs":[]},
	{"type":"event","name":"RewardClaimed","anonymous":false,
	 "inputs":[{"name":"poolId","type":"address","indexed":true},{"name":"user","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"error","name":"ErrLookUpIdFailed","inputs":[{"name":"addr","type":"address"}]}
]`

func TestMethods(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	m, ok := a.MethodByName("getReward")
	require.True(t, ok)
	assert.True(t, m.Const())
	assert.Equal(t, "getReward(address,address)", m.Sig())

	stake, ok := a.MethodByName("stake")
	require.True(t, ok)
	assert.True(t, stake.Payable())
	assert.False(t, stake.Const())

	pool := ronin.BytesToAddress([]byte("pool"))
	user := ronin.BytesToAddress([]byte("user"))
	input, err := m.EncodeInput(pool, user)
	require.NoError(t, err)

	found, err := a.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, m.ID(), found.ID())

	var args struct {
		Consensus common.Address
		User      common.Address
	}
	require.NoError(t, m.DecodeInput(input, &args))
	assert.Equal(t, common.Address(pool), args.Consensus)
	assert.Equal(t, common.Address(user), args.User)

	out, err := m.EncodeOutput(uint256.NewInt(15999))
	require.NoError(t, err)
	var reward *big.Int
	require.NoError(t, m.DecodeOutput(out, &reward))
	assert.Equal(t, int64(15999), reward.Int64())

	_, err = a.MethodByInput([]byte{1, 2})
	assert.Error(t, err)
	_, err = a.MethodByInput([]byte{1, 2, 3, 4})
	assert.EqualError(t, err, "method not found")
}

func TestEventEncodeLog(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	ev, ok := a.EventByName("RewardClaimed")
	require.True(t, ok)

	pool := ronin.BytesToAddress([]byte("pool"))
	user := ronin.BytesToAddress([]byte("user"))
	topics, data, err := ev.EncodeLog(pool, user, uint256.NewInt(10667))
	require.NoError(t, err)

	require.Len(t, topics, 3)
	assert.Equal(t, ronin.Keccak256([]byte("RewardClaimed(address,address,uint256)")), topics[0])
	assert.Equal(t, ronin.BytesToBytes32(pool.Bytes()), topics[1])
	assert.Equal(t, ronin.BytesToBytes32(user.Bytes()), topics[2])

	byID, ok := a.EventByID(topics[0])
	require.True(t, ok)
	assert.Equal(t, "RewardClaimed", byID.Name())

	decoded, err := ev.DecodeMap(topics, data)
	require.NoError(t, err)
	assert.Equal(t, common.Address(user), decoded["user"])
	assert.Equal(t, big.NewInt(10667), decoded["amount"])

	_, _, err = ev.EncodeLog(pool)
	assert.Error(t, err)
}

func TestCustomError(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	e, ok := a.ErrorByName("ErrLookUpIdFailed")
	require.True(t, ok)
	assert.Equal(t, "ErrLookUpIdFailed(address)", e.Sig())

	addr := ronin.BytesToAddress([]byte("stale"))
	data := append(e.ID().Bytes(), common.LeftPadBytes(addr.Bytes(), 32)...)

	byData, ok := a.ErrorByData(data)
	require.True(t, ok)
	args, err := byData.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, []any{common.Address(addr)}, args)
}
