// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// ErrInsufficientBalance is returned when a balance would go below zero.
var ErrInsufficientBalance = fmt.Errorf("insufficient balance")

// State manages the world state.
type State struct {
	stater *Stater
	root   ronin.Bytes32
	sm     *stackedmap.StackedMap[any, any] // keeps revisions of accounts state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case accountKey:
		data, err := s.stater.load(AccountBucket, k[:])
		if err != nil {
			return nil, false, err
		}
		acc, err := loadAccount(data)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		data, err := s.stater.load(StorageBucket, k.bytes())
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// Root returns the root this state was checked out from.
func (s *State) Root() ronin.Bytes32 {
	return s.root
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr ronin.Address) (*Account, error) {
	v, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr ronin.Address) (*uint256.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(uint256.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr ronin.Address, balance *uint256.Int) {
	s.sm.Put(accountKey(addr), &Account{Balance: new(uint256.Int).Set(balance)})
}

// AddBalance credits amount to the given address.
func (s *State) AddBalance(addr ronin.Address, amount *uint256.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return &Error{fmt.Errorf("balance overflow on %v", addr)}
	}
	s.SetBalance(addr, sum)
	return nil
}

// SubBalance debits amount from the given address.
func (s *State) SubBalance(addr ronin.Address, amount *uint256.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	s.SetBalance(addr, new(uint256.Int).Sub(bal, amount))
	return nil
}

// Transfer moves amount from one address to another.
func (s *State) Transfer(from, to ronin.Address, amount *uint256.Int) error {
	if amount.IsZero() || from == to {
		return nil
	}
	if err := s.SubBalance(from, amount); err != nil {
		return err
	}
	return s.AddBalance(to, amount)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr ronin.Address, key ronin.Bytes32) (ronin.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return ronin.Bytes32{}, err
	}
	if len(raw) == 0 {
		return ronin.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return ronin.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return ronin.Keccak256(raw), nil
	}
	return ronin.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr ronin.Address, key, value ronin.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr ronin.Address, key ronin.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr ronin.Address, key ronin.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr ronin.Address, key ronin.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr ronin.Address, key ronin.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute the new root or commit all changes.
func (s *State) Stage() (*Stage, error) {
	var (
		accounts = make(map[ronin.Address]*Account)
		storage  = make(map[storageKey]rlp.RawValue)
	)
	// later entries override earlier ones
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case accountKey:
			accounts[ronin.Address(key)] = v.(*Account)
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})

	changes := make([]change, 0, len(accounts)+len(storage))
	for addr, acc := range accounts {
		enc, err := encodeAccount(acc)
		if err != nil {
			return nil, &Error{err}
		}
		changes = append(changes, change{AccountBucket, append([]byte(nil), addr[:]...), enc})
	}
	for key, raw := range storage {
		changes = append(changes, change{StorageBucket, key.bytes(), raw})
	}
	return newStage(s.stater, s.root, changes), nil
}
