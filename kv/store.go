// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv is the key-value surface the state and chain layers persist through.
package kv

// Getter reads values. A missing key is an error recognized by IsNotFound.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes values.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch buffers writes until Write applies them atomically.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Store is a readable and writable store handing out batches.
type Store interface {
	Getter
	Putter
	NewBatch() Batch
}
