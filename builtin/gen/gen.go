// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABI of every native contract.
package gen

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ronin-chain/dpos-contract/abi"
)

//go:embed compiled/*.abi
var compiled embed.FS

var (
	lock   sync.Mutex
	loaded = map[string]*abi.ABI{}
)

// Asset returns the raw ABI json of the named contract.
func Asset(name string) ([]byte, error) {
	return compiled.ReadFile(path.Join("compiled", name+".abi"))
}

// Names lists the embedded contracts in lexical order.
func Names() []string {
	entries, err := compiled.ReadDir("compiled")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".abi"))
	}
	sort.Strings(names)
	return names
}

// MustABI returns the parsed ABI of the named contract, panicking if missing.
func MustABI(name string) *abi.ABI {
	lock.Lock()
	defer lock.Unlock()

	if a, ok := loaded[name]; ok {
		return a
	}
	data, err := Asset(name)
	if err != nil {
		panic(fmt.Errorf("load ABI of %s: %w", name, err))
	}
	a, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("parse ABI of %s: %w", name, err))
	}
	loaded[name] = a
	return a
}

// MustEvent returns the named event of a contract, panicking if missing.
func MustEvent(contract, event string) *abi.Event {
	ev, ok := MustABI(contract).EventByName(event)
	if !ok {
		panic(fmt.Errorf("event %s.%s not found", contract, event))
	}
	return ev
}

// MustMethodID returns the selector of a contract method, panicking if missing.
func MustMethodID(contract, method string) abi.MethodID {
	m, ok := MustABI(contract).MethodByName(method)
	if !ok {
		panic(fmt.Errorf("method %s.%s not found", contract, method))
	}
	return m.ID()
}
