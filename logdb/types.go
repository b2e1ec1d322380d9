// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/ronin-chain/dpos-contract/ronin"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockID     ronin.Bytes32
	BlockTime   uint64
	TxID        ronin.Bytes32
	TxOrigin    ronin.Address // contract caller
	ClauseIndex uint32
	Address     ronin.Address // always a builtin contract address
	Topics      [5]*ronin.Bytes32
	Data        []byte
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive range of block numbers.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *ronin.Address
	Topics  [5]*ronin.Bytes32
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
