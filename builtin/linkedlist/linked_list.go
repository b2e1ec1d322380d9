// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// LinkedList is an insertion ordered set of addresses kept in contract storage.
type LinkedList struct {
	head  *solidity.Address
	tail  *solidity.Address
	count *solidity.Uint256
	next  *solidity.Mapping[ronin.Address, ronin.Address]
	prev  *solidity.Mapping[ronin.Address, ronin.Address]
}

// NewLinkedList creates a list rooted at the given slots.
func NewLinkedList(sctx *solidity.Context, headPos, tailPos, countPos ronin.Bytes32) *LinkedList {
	return &LinkedList{
		head:  solidity.NewAddress(sctx, headPos),
		tail:  solidity.NewAddress(sctx, tailPos),
		count: solidity.NewUint256(sctx, countPos),
		next:  solidity.NewMapping[ronin.Address, ronin.Address](sctx, headPos),
		prev:  solidity.NewMapping[ronin.Address, ronin.Address](sctx, tailPos),
	}
}

// Contains reports whether address is in the list.
func (l *LinkedList) Contains(address ronin.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return head == address, nil
}

// Add appends an address to the end of the list. Adding a present address is a no-op.
func (l *LinkedList) Add(address ronin.Address) error {
	if address.IsZero() {
		return errors.New("zero address")
	}
	if ok, err := l.Contains(address); err != nil || ok {
		return err
	}

	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		if err := l.head.Set(&address); err != nil {
			return err
		}
		if err := l.tail.Set(&address); err != nil {
			return err
		}
		return l.count.Add(uint256.NewInt(1))
	}

	if err := l.next.Set(oldTail, address); err != nil {
		return err
	}
	if err := l.prev.Set(address, oldTail); err != nil {
		return err
	}
	if err := l.tail.Set(&address); err != nil {
		return err
	}
	return l.count.Add(uint256.NewInt(1))
}

// Remove extracts an address from anywhere in the list, reconnecting adjacent nodes.
func (l *LinkedList) Remove(address ronin.Address) error {
	ok, err := l.Contains(address)
	if err != nil || !ok {
		return err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return err
	}

	if !prev.IsZero() {
		if err := l.next.Set(prev, next); err != nil {
			return err
		}
	} else if err := l.head.Set(&next); err != nil {
		return err
	}

	if !next.IsZero() {
		if err := l.prev.Set(next, prev); err != nil {
			return err
		}
	} else if err := l.tail.Set(&prev); err != nil {
		return err
	}

	if err := l.next.Delete(address); err != nil {
		return err
	}
	if err := l.prev.Delete(address); err != nil {
		return err
	}
	return l.count.Sub(uint256.NewInt(1))
}

// Len returns the number of addresses.
func (l *LinkedList) Len() (uint64, error) {
	return l.count.Uint64()
}

// Head returns the oldest address.
func (l *LinkedList) Head() (ronin.Address, error) {
	return l.head.Get()
}

// Iter traverses the list in insertion order until completion or error.
// The callback may remove the visited address.
func (l *LinkedList) Iter(callback func(ronin.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	for !ptr.IsZero() {
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}

// All returns the addresses in insertion order.
func (l *LinkedList) All() ([]ronin.Address, error) {
	var out []ronin.Address
	err := l.Iter(func(a ronin.Address) error {
		out = append(out, a)
		return nil
	})
	return out, err
}
