// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/logdb"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// LogMeta is the location of an event.
type LogMeta struct {
	BlockID        ronin.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
	TxID           ronin.Bytes32 `json:"txID"`
	TxOrigin       ronin.Address `json:"txOrigin"`
	ClauseIndex    uint32        `json:"clauseIndex"`
}

// DecodedEvent is an event decoded with the abi of the builtin contract emitting it.
type DecodedEvent struct {
	Contract string         `json:"contract"`
	Name     string         `json:"name"`
	Args     map[string]any `json:"args"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address ronin.Address    `json:"address"`
	Topics  []*ronin.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Decoded *DecodedEvent    `json:"decoded,omitempty"`
	Meta    LogMeta          `json:"meta"`
}

// ConvertEvent converts a logdb.Event into its json form.
func ConvertEvent(event *logdb.Event, decode bool) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			BlockID:        event.BlockID,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			TxID:           event.TxID,
			TxOrigin:       event.TxOrigin,
			ClauseIndex:    event.ClauseIndex,
		},
	}
	fe.Topics = make([]*ronin.Bytes32, 0)
	for i := range 5 {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	if decode {
		fe.Decoded = decodeEvent(event)
	}
	return fe
}

// decodeEvent returns nil for events it can't decode.
func decodeEvent(event *logdb.Event) *DecodedEvent {
	c := builtin.ByAddress(event.Address)
	if c == nil || event.Topics[0] == nil {
		return nil
	}
	ev, ok := c.ABI.EventByID(*event.Topics[0])
	if !ok {
		return nil
	}
	topics := make([]ronin.Bytes32, 0, 5)
	for _, t := range event.Topics {
		if t != nil {
			topics = append(topics, *t)
		}
	}
	args, err := ev.DecodeMap(topics, event.Data)
	if err != nil {
		logger.Debug("failed to decode event", "contract", c.Name(), "event", ev.Name(), "err", err)
		return nil
	}
	return &DecodedEvent{c.Name(), ev.Name(), args}
}

type TopicSet struct {
	Topic0 *ronin.Bytes32 `json:"topic0"`
	Topic1 *ronin.Bytes32 `json:"topic1"`
	Topic2 *ronin.Bytes32 `json:"topic2"`
	Topic3 *ronin.Bytes32 `json:"topic3"`
	Topic4 *ronin.Bytes32 `json:"topic4"`
}

type EventCriteria struct {
	Address *ronin.Address `json:"address"`
	// Event names the event of the builtin contract at Address, it sets Topic0.
	Event string `json:"event,omitempty"`
	TopicSet
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
	Decode bool    `json:"decode,omitempty"`
}

// Range is an inclusive range of block numbers.
type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

func (f *EventFilter) validate(limit uint64) error {
	if o := f.Options; o != nil {
		if o.Limit != nil && *o.Limit > limit {
			return errors.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
		}
		if o.Offset > math.MaxInt64 {
			return errors.Errorf("options.offset exceeds the maximum allowed value of %d", uint64(math.MaxInt64))
		}
	}
	if r := f.Range; r != nil {
		if r.From != nil && r.To != nil && *r.From > *r.To {
			return errors.New("range.to must be greater than or equal to range.from")
		}
	}
	if f.Order != "" && f.Order != logdb.ASC && f.Order != logdb.DESC {
		return errors.Errorf("order must be either 'asc' or 'desc', got '%s'", f.Order)
	}
	for i, criterion := range f.CriteriaSet {
		if criterion == nil {
			return errors.Errorf("criteriaSet[%d]: null not allowed", i)
		}
	}
	return nil
}

func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{To: math.MaxUint32}
	if r.From != nil {
		rng.From = uint32(min(*r.From, math.MaxUint32))
	}
	if r.To != nil {
		rng.To = uint32(min(*r.To, math.MaxUint32))
	}
	return rng
}

func convertCriteria(c *EventCriteria) (*logdb.EventCriteria, error) {
	topics := [5]*ronin.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4}
	if c.Event != "" {
		if c.Address == nil {
			return nil, errors.New("event requires address")
		}
		contract := builtin.ByAddress(*c.Address)
		if contract == nil {
			return nil, errors.Errorf("%v is not a builtin contract", c.Address)
		}
		ev, ok := contract.ABI.EventByName(c.Event)
		if !ok {
			return nil, errors.Errorf("event %v not found in %v", c.Event, contract.Name())
		}
		id := ev.ID()
		if topics[0] != nil && *topics[0] != id {
			return nil, errors.New("event conflicts with topic0")
		}
		topics[0] = &id
	}
	return &logdb.EventCriteria{
		Address: c.Address,
		Topics:  topics,
	}, nil
}

// ConvertEventFilter converts the json filter into the logdb one. Options must be set.
func ConvertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	f := &logdb.EventFilter{
		Range: convertRange(filter.Range),
		Options: &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	if len(filter.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, criterion := range filter.CriteriaSet {
			c, err := convertCriteria(criterion)
			if err != nil {
				return nil, errors.WithMessagef(err, "criteriaSet[%d]", i)
			}
			f.CriteriaSet[i] = c
		}
	}
	return f, nil
}
