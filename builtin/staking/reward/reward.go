// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// User is the settlement record of one claimant in one pool.
type User struct {
	Debited      *uint256.Int // settled and unclaimed
	ARps         *uint256.Int // pool aRps at the last sync
	LowestAmount *uint256.Int // lowest stake held during LastPeriod
	LastPeriod   uint64
}

// Pool is the accumulator of one pool.
type Pool struct {
	ARps         *uint256.Int // accumulated reward per share, scaled by 1e18
	Shares       *uint256.Int // stake eligible for the reward of SharesPeriod
	SharesPeriod uint64
}

// PeriodARps is the pool aRps snapshot taken when a period was recorded.
type PeriodARps struct {
	Inner      *uint256.Int
	LastPeriod uint64
}

func newUser() *User {
	return &User{Debited: new(uint256.Int), ARps: new(uint256.Int), LowestAmount: new(uint256.Int)}
}

func newPool() *Pool {
	return &Pool{ARps: new(uint256.Int), Shares: new(uint256.Int)}
}

func (u *User) normalize() *User {
	if u == nil {
		return newUser()
	}
	if u.Debited == nil {
		u.Debited = new(uint256.Int)
	}
	if u.ARps == nil {
		u.ARps = new(uint256.Int)
	}
	if u.LowestAmount == nil {
		u.LowestAmount = new(uint256.Int)
	}
	return u
}

func (p *Pool) normalize() *Pool {
	if p == nil {
		return newPool()
	}
	if p.ARps == nil {
		p.ARps = new(uint256.Int)
	}
	if p.Shares == nil {
		p.Shares = new(uint256.Int)
	}
	return p
}

// SyncResult reports what a sync changed, for event emission by the caller.
type SyncResult struct {
	DebitedChanged bool
	Debited        *uint256.Int
	SharesChanged  bool
	Shares         *uint256.Int
}

// Recorded is the outcome of recording one period of rewards.
type Recorded struct {
	Updated    []ronin.Address
	ARps       []*uint256.Int
	Shares     []*uint256.Int
	Conflicted []ronin.Address
}
