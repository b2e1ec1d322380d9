// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
)

func newRepository(t *testing.T) *Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(ronin.Bytes32{})
	return NewRepository(solidity.NewContext(ronin.BytesToAddress([]byte("staking")), st, nil))
}

func addr(s string) ronin.Address {
	return ronin.BytesToAddress([]byte(s))
}

func TestPool(t *testing.T) {
	repo := newRepository(t)
	id, admin := addr("id"), addr("admin")

	p, err := repo.Get(id)
	require.NoError(t, err)
	assert.False(t, p.Exists())
	assert.True(t, p.StakingAmount.IsZero())
	assert.True(t, p.StakingTotal.IsZero())

	require.NoError(t, repo.Set(&Pool{
		ID:            id,
		Admin:         admin,
		StakingAmount: uint256.NewInt(40004),
		StakingTotal:  uint256.NewInt(60004),
	}))
	p, err = repo.Get(id)
	require.NoError(t, err)
	assert.True(t, p.Exists())
	assert.Equal(t, admin, p.Admin)
	assert.Equal(t, uint64(40004), p.StakingAmount.Uint64())
	assert.Equal(t, uint64(60004), p.StakingTotal.Uint64())
}

func TestDelegation(t *testing.T) {
	repo := newRepository(t)
	id, delegator := addr("id"), addr("delegator")

	amount, err := repo.Delegation(id, delegator)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	require.NoError(t, repo.SetDelegation(id, delegator, uint256.NewInt(20000)))
	amount, err = repo.Delegation(id, delegator)
	require.NoError(t, err)
	assert.Equal(t, uint64(20000), amount.Uint64())

	// delegations are per pool
	other, err := repo.Delegation(addr("other"), delegator)
	require.NoError(t, err)
	assert.True(t, other.IsZero())

	require.NoError(t, repo.SetDelegation(id, delegator, new(uint256.Int)))
	amount, err = repo.Delegation(id, delegator)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	require.NoError(t, repo.SetLastDelegating(id, delegator, 1700000000))
	ts, err := repo.LastDelegating(id, delegator)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), ts)
}

func TestAdminBinding(t *testing.T) {
	repo := newRepository(t)
	id, admin, next := addr("id"), addr("admin"), addr("next")
	p := &Pool{ID: id, Admin: admin}
	require.NoError(t, repo.Set(p))

	active, err := repo.IsActive(p)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, repo.Activate(id, admin))
	active, err = repo.IsActive(p)
	require.NoError(t, err)
	assert.True(t, active)

	// hand over to a new admin, the old one stays in history
	require.NoError(t, repo.Deactivate(admin))
	require.NoError(t, repo.Activate(id, next))
	p.Admin = next

	got, err := repo.PoolOfActiveAdmin(admin)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	got, err = repo.PoolOfActiveAdmin(next)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, a := range []ronin.Address{admin, next} {
		was, err := repo.WasAdmin(id, a)
		require.NoError(t, err)
		assert.True(t, was)
	}
	was, err := repo.WasAdmin(id, addr("stranger"))
	require.NoError(t, err)
	assert.False(t, was)

	active, err = repo.IsActive(&Pool{})
	require.NoError(t, err)
	assert.False(t, active)
}
