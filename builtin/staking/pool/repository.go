// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool stores staking pools keyed by candidate id, together with the
// delegations made to them.
package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var (
	slotPools           = solidity.Slot("Staking", "pools", "mapping(address => struct Pool)")
	slotDelegations     = solidity.Slot("Staking", "pool-delegations", "mapping(bytes32 => uint256)")
	slotLastDelegating  = solidity.Slot("Staking", "pool-last-delegating", "mapping(bytes32 => uint256)")
	slotAdminHistory    = solidity.Slot("Staking", "pool-admin-history", "mapping(bytes32 => bool)")
	slotAdminOfActivePo = solidity.Slot("Staking", "pool-admin-of-active-pool", "mapping(address => address)")
)

// Pool is the stake held by one candidate pool.
type Pool struct {
	ID            ronin.Address
	Admin         ronin.Address
	StakingAmount *uint256.Int // self-stake of the admin
	StakingTotal  *uint256.Int // self-stake plus all delegations
}

// Exists reports whether the pool was ever created.
func (p *Pool) Exists() bool {
	return p != nil && !p.ID.IsZero()
}

func (p *Pool) normalize() *Pool {
	if p == nil {
		p = &Pool{}
	}
	if p.StakingAmount == nil {
		p.StakingAmount = new(uint256.Int)
	}
	if p.StakingTotal == nil {
		p.StakingTotal = new(uint256.Int)
	}
	return p
}

type Repository struct {
	pools           *solidity.Mapping[ronin.Address, *Pool]
	delegations     *solidity.Mapping[ronin.Bytes32, *uint256.Int]
	lastDelegating  *solidity.Mapping[ronin.Bytes32, uint64]
	adminHistory    *solidity.Mapping[ronin.Bytes32, bool]
	adminOfActivePo *solidity.Mapping[ronin.Address, ronin.Address]
}

func NewRepository(sctx *solidity.Context) *Repository {
	return &Repository{
		pools:           solidity.NewMapping[ronin.Address, *Pool](sctx, slotPools),
		delegations:     solidity.NewMapping[ronin.Bytes32, *uint256.Int](sctx, slotDelegations),
		lastDelegating:  solidity.NewMapping[ronin.Bytes32, uint64](sctx, slotLastDelegating),
		adminHistory:    solidity.NewMapping[ronin.Bytes32, bool](sctx, slotAdminHistory),
		adminOfActivePo: solidity.NewMapping[ronin.Address, ronin.Address](sctx, slotAdminOfActivePo),
	}
}

// Get returns the pool of id, an empty pool when unknown.
func (r *Repository) Get(id ronin.Address) (*Pool, error) {
	p, err := r.pools.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return p.normalize(), nil
}

func (r *Repository) Set(p *Pool) error {
	return errors.Wrap(r.pools.Set(p.ID, p), "failed to set pool")
}

// Delegation returns what delegator delegates to pool id.
func (r *Repository) Delegation(id, delegator ronin.Address) (*uint256.Int, error) {
	v, err := r.delegations.Get(solidity.Pair(id, delegator))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation")
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

func (r *Repository) SetDelegation(id, delegator ronin.Address, amount *uint256.Int) error {
	key := solidity.Pair(id, delegator)
	if amount.IsZero() {
		return errors.Wrap(r.delegations.Delete(key), "failed to delete delegation")
	}
	return errors.Wrap(r.delegations.Set(key, amount), "failed to set delegation")
}

// LastDelegating returns the timestamp delegator last added stake to pool id.
func (r *Repository) LastDelegating(id, delegator ronin.Address) (uint64, error) {
	ts, err := r.lastDelegating.Get(solidity.Pair(id, delegator))
	return ts, errors.Wrap(err, "failed to get last delegating timestamp")
}

func (r *Repository) SetLastDelegating(id, delegator ronin.Address, ts uint64) error {
	return errors.Wrap(r.lastDelegating.Set(solidity.Pair(id, delegator), ts), "failed to set last delegating timestamp")
}

// WasAdmin reports whether addr ever administered pool id.
func (r *Repository) WasAdmin(id, addr ronin.Address) (bool, error) {
	was, err := r.adminHistory.Get(solidity.Pair(id, addr))
	return was, errors.Wrap(err, "failed to get admin history")
}

// PoolOfActiveAdmin returns the active pool administered by admin, zero if none.
func (r *Repository) PoolOfActiveAdmin(admin ronin.Address) (ronin.Address, error) {
	id, err := r.adminOfActivePo.Get(admin)
	return id, errors.Wrap(err, "failed to get pool of admin")
}

// IsActive reports whether pool p is administered and not deprecated.
func (r *Repository) IsActive(p *Pool) (bool, error) {
	if !p.Exists() || p.Admin.IsZero() {
		return false, nil
	}
	id, err := r.PoolOfActiveAdmin(p.Admin)
	if err != nil {
		return false, err
	}
	return id == p.ID, nil
}

// Activate binds admin to pool id.
func (r *Repository) Activate(id, admin ronin.Address) error {
	if err := r.adminOfActivePo.Set(admin, id); err != nil {
		return errors.Wrap(err, "failed to set pool of admin")
	}
	return errors.Wrap(r.adminHistory.Set(solidity.Pair(id, admin), true), "failed to set admin history")
}

// Deactivate unbinds admin from its active pool.
func (r *Repository) Deactivate(admin ronin.Address) error {
	return errors.Wrap(r.adminOfActivePo.Delete(admin), "failed to delete pool of admin")
}
