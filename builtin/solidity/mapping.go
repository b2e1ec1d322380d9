// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ronin-chain/dpos-contract/ronin"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Entries live at keccak256(key, base), values are rlp encoded.
type Mapping[K Key, V any] struct {
	context *Context
	basePos ronin.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos ronin.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

// Position returns the slot of key.
func (m *Mapping[K, V]) Position(key K) ronin.Bytes32 {
	return ronin.Keccak256(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	return decodeAt[V](m.context, m.Position(key))
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encodeAt(m.context, m.Position(key), value)
}

// Delete clears the entry, equal to `delete m[key]`.
func (m *Mapping[K, V]) Delete(key K) error {
	return clearAt(m.context, m.Position(key))
}

// Exists reports whether the entry was ever set and not deleted.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.Position(key))
	if err != nil {
		return false, err
	}
	m.context.UseGas(ronin.SloadGas)
	return len(raw) > 0, nil
}
