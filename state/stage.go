// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ronin-chain/dpos-contract/kv"
	"github.com/ronin-chain/dpos-contract/ronin"
)

type change struct {
	bucket kv.Bucket
	key    []byte
	value  []byte
}

func (c *change) fullKey() []byte {
	return append([]byte(c.bucket), c.key...)
}

// Stage abstracts the journaled changes of a state ready to be committed.
type Stage struct {
	stater  *Stater
	root    ronin.Bytes32
	changes []change
}

func newStage(stater *Stater, parent ronin.Bytes32, changes []change) *Stage {
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].fullKey(), changes[j].fullKey()) < 0
	})

	data := make([][]byte, 0, len(changes)*2+1)
	data = append(data, parent[:])
	for i := range changes {
		data = append(data, changes[i].fullKey(), ronin.Keccak256(changes[i].value).Bytes())
	}

	root := parent
	if len(changes) > 0 {
		root = ronin.Keccak256(data...)
	}
	return &Stage{stater, root, changes}
}

// Hash returns the root the state will have after commit.
func (s *Stage) Hash() ronin.Bytes32 {
	return s.root
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the underlying store atomically.
func (s *Stage) Commit() (ronin.Bytes32, error) {
	batch := s.stater.store.NewBatch()
	for i := range s.changes {
		c := &s.changes[i]
		var err error
		if len(c.value) == 0 {
			err = batch.Delete(c.fullKey())
		} else {
			err = batch.Put(c.fullKey(), c.value)
		}
		if err != nil {
			return ronin.Bytes32{}, &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return ronin.Bytes32{}, &Error{err}
	}
	for i := range s.changes {
		c := &s.changes[i]
		s.stater.cache.Add(string(c.fullKey()), append([]byte(nil), c.value...))
	}
	metricCommittedKeys().Add(int64(len(s.changes)))
	return s.root, nil
}
