// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Event represents a contract event log. These events are generated by the native contracts
// and stored in tx receipts.
type Event struct {
	// address of the contract that generated the event
	Address ronin.Address
	// list of topics provided by the contract.
	Topics []ronin.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

func (e *Event) String() string {
	return fmt.Sprintf(`
		(Address: %v
		 Topics: %v
		 Data: 0x%x)`, e.Address, e.Topics, e.Data)
}
