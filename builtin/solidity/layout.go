// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"sort"
	"sync"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// SlotInfo describes a named storage slot of a native contract.
type SlotInfo struct {
	Contract string
	Label    string
	Type     string
	Slot     ronin.Bytes32
}

var layout struct {
	sync.Mutex
	slots []SlotInfo
}

// Slot returns the position of the slot named label and records it in the layout of contract.
func Slot(contract, label, typ string) ronin.Bytes32 {
	pos := ronin.BytesToBytes32([]byte(label))

	layout.Lock()
	defer layout.Unlock()
	layout.slots = append(layout.slots, SlotInfo{contract, label, typ, pos})
	return pos
}

// Layout returns every recorded slot, ordered by contract then label.
func Layout() []SlotInfo {
	layout.Lock()
	defer layout.Unlock()

	slots := append([]SlotInfo(nil), layout.slots...)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Contract != slots[j].Contract {
			return slots[i].Contract < slots[j].Contract
		}
		return slots[i].Label < slots[j].Label
	})
	return slots
}
