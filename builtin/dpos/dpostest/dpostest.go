// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dpostest provides an in-memory chain state and a stub linker for
// testing one builtin contract in isolation.
package dpostest

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// DefaultGas is plenty for any single test call.
const DefaultGas = 100_000_000

// Address returns the conventional address of a contract type in tests.
func Address(t dpos.ContractType) ronin.Address {
	return ronin.BytesToAddress([]byte("contract-" + t.String()))
}

// NewState returns an empty state backed by an in-memory leveldb.
func NewState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return state.NewStater(db).NewState(ronin.Bytes32{})
}

// Chain carries the state and block context shared by a test.
type Chain struct {
	State *state.State
	Block xenv.BlockContext
}

func NewChain(t *testing.T) *Chain {
	return &Chain{
		State: NewState(t),
		Block: xenv.BlockContext{Number: 1, Time: 1_700_000_000},
	}
}

// Env opens a top level call from caller to the contract at 'to'. The value is
// minted to the contract, as the runtime would have credited it.
func (c *Chain) Env(caller, to ronin.Address, value *uint256.Int) *xenv.Environment {
	if value != nil && !value.IsZero() {
		if err := c.State.AddBalance(to, value); err != nil {
			panic(err)
		}
	}
	blk := c.Block
	return xenv.New(c.State, &blk, &xenv.TransactionContext{Origin: caller}, caller, to, value, DefaultGas)
}

// Balance reads the balance of addr.
func (c *Chain) Balance(addr ronin.Address) *uint256.Int {
	bal, err := c.State.GetBalance(addr)
	if err != nil {
		panic(err)
	}
	return bal
}

// Linker is a dpos.Linker returning fixed peers. Values sent to a peer are
// moved to the peer address so balances stay consistent.
type Linker struct {
	ProfilesPeer     dpos.Profiles
	StakingPeer      dpos.Staking
	ValidatorSetPeer dpos.ValidatorSet
	FinalityPeer     dpos.Finality
	VestingPeer      dpos.Vesting
	TrustedOrgsPeer  dpos.TrustedOrgs
	DispatchFunc     func(from *xenv.Environment, to ronin.Address, value *uint256.Int, data []byte) ([]byte, error)
}

var _ dpos.Linker = (*Linker)(nil)

func (l *Linker) Address(t dpos.ContractType) ronin.Address {
	return Address(t)
}

func (l *Linker) move(from *xenv.Environment, t dpos.ContractType, value *uint256.Int) error {
	if value == nil || value.IsZero() {
		return nil
	}
	return from.Transfer(Address(t), value)
}

func (l *Linker) Profiles(from *xenv.Environment, value *uint256.Int) (dpos.Profiles, error) {
	return l.ProfilesPeer, l.move(from, dpos.ContractProfile, value)
}

func (l *Linker) Staking(from *xenv.Environment, value *uint256.Int) (dpos.Staking, error) {
	return l.StakingPeer, l.move(from, dpos.ContractStaking, value)
}

func (l *Linker) ValidatorSet(from *xenv.Environment, value *uint256.Int) (dpos.ValidatorSet, error) {
	return l.ValidatorSetPeer, l.move(from, dpos.ContractValidator, value)
}

func (l *Linker) Finality(from *xenv.Environment, value *uint256.Int) (dpos.Finality, error) {
	return l.FinalityPeer, l.move(from, dpos.ContractFastFinality, value)
}

func (l *Linker) Vesting(from *xenv.Environment, value *uint256.Int) (dpos.Vesting, error) {
	return l.VestingPeer, l.move(from, dpos.ContractStakingVesting, value)
}

func (l *Linker) TrustedOrgs(from *xenv.Environment, value *uint256.Int) (dpos.TrustedOrgs, error) {
	return l.TrustedOrgsPeer, l.move(from, dpos.ContractTrustedOrg, value)
}

func (l *Linker) Dispatch(from *xenv.Environment, to ronin.Address, value *uint256.Int, data []byte) ([]byte, error) {
	if l.DispatchFunc == nil {
		return nil, nil
	}
	return l.DispatchFunc(from, to, value, data)
}
