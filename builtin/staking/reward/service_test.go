// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/dpos/dpostest"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var (
	pool      = ronin.BytesToAddress([]byte("pool"))
	admin     = ronin.BytesToAddress([]byte("admin"))
	delegator = ronin.BytesToAddress([]byte("delegator"))
)

func u(n uint64) *uint256.Int { return uint256.NewInt(n) }

func newService(t *testing.T) *Service {
	st := dpostest.NewState(t)
	return New(solidity.NewContext(ronin.BytesToAddress([]byte("staking")), st, nil))
}

type ledger struct {
	t       *testing.T
	svc     *Service
	amounts map[ronin.Address]*uint256.Int
}

func newLedger(t *testing.T) *ledger {
	return &ledger{t: t, svc: newService(t), amounts: map[ronin.Address]*uint256.Int{}}
}

func (l *ledger) amount(user ronin.Address) *uint256.Int {
	if a, ok := l.amounts[user]; ok {
		return a
	}
	return new(uint256.Int)
}

func (l *ledger) total() *uint256.Int {
	sum := new(uint256.Int)
	for _, a := range l.amounts {
		sum.Add(sum, a)
	}
	return sum
}

func (l *ledger) stake(user ronin.Address, period uint64, delta *uint256.Int) {
	next := new(uint256.Int).Add(l.amount(user), delta)
	_, err := l.svc.SyncUserReward(pool, user, period, l.total(), l.amount(user), next)
	require.NoError(l.t, err)
	l.amounts[user] = next
}

func (l *ledger) unstake(user ronin.Address, period uint64, delta *uint256.Int) {
	next := new(uint256.Int).Sub(l.amount(user), delta)
	_, err := l.svc.SyncUserReward(pool, user, period, l.total(), l.amount(user), next)
	require.NoError(l.t, err)
	l.amounts[user] = next
}

func (l *ledger) record(period uint64, amount *uint256.Int) *Recorded {
	rec, err := l.svc.RecordRewards([]ronin.Address{pool}, []*uint256.Int{amount}, []*uint256.Int{l.total()}, period)
	require.NoError(l.t, err)
	return rec
}

func (l *ledger) reward(user ronin.Address, period uint64) uint64 {
	r, err := l.svc.GetReward(pool, user, period, l.amount(user))
	require.NoError(l.t, err)
	return r.Uint64()
}

func TestProRataSplit(t *testing.T) {
	l := newLedger(t)
	l.stake(admin, 1, u(40004))
	l.stake(delegator, 1, u(20000))

	// stake added during a period does not earn for it
	l.record(1, u(5000))
	assert.Equal(t, uint64(0), l.reward(admin, 2))

	l.record(2, u(16000))
	assert.Equal(t, uint64(10667), l.reward(admin, 3))
	assert.Equal(t, uint64(5332), l.reward(delegator, 3))

	l.record(3, u(9600))
	assert.Equal(t, uint64(17067), l.reward(admin, 4))
	assert.Equal(t, uint64(8532), l.reward(delegator, 4))
}

func TestSingleStakerFloor(t *testing.T) {
	l := newLedger(t)
	l.stake(admin, 1, u(40004))
	l.record(1, u(0))
	l.record(2, u(16000))
	assert.Equal(t, uint64(15999), l.reward(admin, 3))
}

func TestLowestAmountInPeriod(t *testing.T) {
	l := newLedger(t)
	l.stake(admin, 1, u(1000))
	l.stake(delegator, 1, u(1000))
	l.record(1, u(0))

	// delegator leaves half way through period 2, earns on the lowest amount
	l.unstake(delegator, 2, u(500))
	l.stake(delegator, 2, u(500))
	l.record(2, u(1500))
	assert.Equal(t, uint64(1000), l.reward(admin, 3))
	assert.Equal(t, uint64(500), l.reward(delegator, 3))
}

func TestClaimZeroesDebited(t *testing.T) {
	l := newLedger(t)
	l.stake(admin, 1, u(100))
	l.record(1, u(0))
	l.record(2, u(300))

	claimed, err := l.svc.Claim(pool, admin, 3, l.amount(admin))
	require.NoError(t, err)
	assert.Equal(t, uint64(300), claimed.Uint64())
	assert.Equal(t, uint64(0), l.reward(admin, 3))

	claimed, err = l.svc.Claim(pool, admin, 3, l.amount(admin))
	require.NoError(t, err)
	assert.True(t, claimed.IsZero())

	l.record(3, u(100))
	assert.Equal(t, uint64(100), l.reward(admin, 4))
}

func TestRecordConflict(t *testing.T) {
	l := newLedger(t)
	l.stake(admin, 1, u(100))
	rec := l.record(1, u(10))
	assert.Equal(t, []ronin.Address{pool}, rec.Updated)
	assert.Empty(t, rec.Conflicted)

	rec = l.record(1, u(10))
	assert.Empty(t, rec.Updated)
	assert.Equal(t, []ronin.Address{pool}, rec.Conflicted)

	_, err := l.svc.RecordRewards([]ronin.Address{pool}, nil, nil, 2)
	assert.True(t, reverts.Is(err, reverts.ErrInvalidArrays))
}

func TestMoveLowestFreezesOldAdmin(t *testing.T) {
	l := newLedger(t)
	next := ronin.BytesToAddress([]byte("next"))
	l.stake(admin, 1, u(1000))
	l.record(1, u(0))
	l.record(2, u(2000))

	// admin change in period 3: the old admin keeps what was settled
	_, err := l.svc.SyncUserReward(pool, admin, 3, l.total(), l.amount(admin), l.amount(admin))
	require.NoError(t, err)
	require.NoError(t, l.svc.MoveLowest(pool, admin, next, 3))
	l.amounts[next] = l.amounts[admin]
	delete(l.amounts, admin)

	l.record(3, u(500))
	assert.Equal(t, uint64(2000), l.reward(admin, 4))
	assert.Equal(t, uint64(500), l.reward(next, 4))

	l.record(4, u(100))
	assert.Equal(t, uint64(2000), l.reward(admin, 5))
	assert.Equal(t, uint64(600), l.reward(next, 5))
}
