// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// ABI holds information about methods, events and custom errors of contract.
type ABI struct {
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	nameToError  map[string]*Error
	methods      map[MethodID]*Method
	events       map[ronin.Bytes32]*Event
	errors       map[MethodID]*Error
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		nameToError:  make(map[string]*Error),
		methods:      make(map[MethodID]*Method),
		events:       make(map[ronin.Bytes32]*Event),
		errors:       make(map[MethodID]*Error),
	}

	for name := range parsed.Methods {
		ethMethod := parsed.Methods[name]
		var id MethodID
		copy(id[:], ethMethod.ID)
		method := &Method{id, &ethMethod}
		abi.methods[id] = method
		abi.nameToMethod[name] = method
	}
	for name := range parsed.Events {
		event := newEvent(parsed.Events[name])
		abi.events[event.ID()] = event
		abi.nameToEvent[name] = event
	}
	for name := range parsed.Errors {
		e := newError(parsed.Errors[name])
		abi.errors[e.ID()] = e
		abi.nameToError[name] = e
	}
	return abi, nil
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// Methods returns all methods keyed by name.
func (a *ABI) Methods() map[string]*Method {
	return a.nameToMethod
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id ronin.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// ErrorByName find custom error for the given name.
func (a *ABI) ErrorByName(name string) (*Error, bool) {
	e, found := a.nameToError[name]
	return e, found
}

// ErrorByData returns the custom error whose selector prefixes the revert data.
func (a *ABI) ErrorByData(data []byte) (*Error, bool) {
	id, err := ExtractMethodID(data)
	if err != nil {
		return nil, false
	}
	e, found := a.errors[id]
	return e, found
}
