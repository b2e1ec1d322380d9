// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 ronin.Bytes32
	event              ethabi.Event
	argsWithoutIndexed ethabi.Arguments
	indexed            ethabi.Arguments
}

func newEvent(event ethabi.Event) *Event {
	var indexed ethabi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return &Event{
		ronin.Bytes32(event.ID),
		event,
		event.Inputs.NonIndexed(),
		indexed,
	}
}

// ID returns event id.
func (e *Event) ID() ronin.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode encodes non-indexed args to data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.argsWithoutIndexed.Pack(normalize(args)...)
}

// EncodeLog splits the full argument list of the event into topics and data.
// The first topic is always the event id.
func (e *Event) EncodeLog(args ...any) ([]ronin.Bytes32, []byte, error) {
	if len(args) != len(e.event.Inputs) {
		return nil, nil, errors.New("argument count mismatch")
	}
	args = normalize(args)

	topics := []ronin.Bytes32{e.id}
	var data []any
	for i, input := range e.event.Inputs {
		if !input.Indexed {
			data = append(data, args[i])
			continue
		}
		hashes, err := ethabi.MakeTopics([]any{args[i]})
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, ronin.Bytes32(hashes[0][0]))
	}
	encoded, err := e.argsWithoutIndexed.Pack(data...)
	if err != nil {
		return nil, nil, err
	}
	return topics, encoded, nil
}

// Decode decodes event data.
func (e *Event) Decode(data []byte, v any) error {
	return unpack(e.argsWithoutIndexed, v, data)
}

// DecodeMap decodes both topics and data into a name keyed map.
func (e *Event) DecodeMap(topics []ronin.Bytes32, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(data) > 0 {
		if err := e.argsWithoutIndexed.UnpackIntoMap(out, data); err != nil {
			return nil, err
		}
	}
	if len(topics) > 0 {
		hashes := make([]common.Hash, 0, len(topics)-1)
		for _, t := range topics[1:] {
			hashes = append(hashes, common.Hash(t))
		}
		if err := ethabi.ParseTopicsIntoMap(out, e.indexed, hashes); err != nil {
			return nil, err
		}
	}
	return out, nil
}
