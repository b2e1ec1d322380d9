// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/genesis"
)

func Test_ChainDefault(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	require.NoError(t, chain.MintBlocks(3*DefaultEpochLength))
	best, err := chain.BestBlock()
	require.NoError(t, err)
	require.Equal(t, uint64(3*DefaultEpochLength), best.Header().Number())

	// every block was indexed
	newest, err := chain.LogDB().NewestBlockID()
	require.NoError(t, err)
	assert.Equal(t, best.Header().ID(), newest)
	events, err := chain.LogDB().FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestContract(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	accs := genesis.DevAccounts()
	staking := NewContract(chain, accs[9], builtin.Staking.Address, builtin.Staking.ABI)
	pool := accs[genesis.DevCandidates].Address

	receipt, err := staking.MintTransaction("delegate", uint256.NewInt(1e18), pool)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)

	var amount *big.Int
	require.NoError(t, staking.CallInto("getStakingAmount", &amount, pool, accs[9].Address))
	assert.Equal(t, big.NewInt(1e18), amount)

	// zero value delegations revert
	receipt, err = staking.Attach(genesis.DevAccount{}).MintTransaction("delegate", nil, pool)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)

	var candidates []common.Address
	vs := NewContract(chain, accs[0], builtin.ValidatorSet.Address, builtin.ValidatorSet.ABI)
	require.NoError(t, vs.CallInto("getValidatorCandidates", &candidates))
	assert.Len(t, candidates, genesis.DevCandidates)
}
