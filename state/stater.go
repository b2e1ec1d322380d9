// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ronin-chain/dpos-contract/cache"
	"github.com/ronin-chain/dpos-contract/kv"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/stackedmap"
)

const defaultCacheSize = 16384

// Stater is the state creator.
// All states created by a stater share the committed store and the read cache.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater.
func NewStater(store kv.Store) *Stater {
	return &Stater{
		store: store,
		cache: cache.MustNewLRU("state", defaultCacheSize),
	}
}

// NewState create a new state object on top of the committed store.
// root is the root reported by the last committed stage.
func (s *Stater) NewState(root ronin.Bytes32) *State {
	st := &State{stater: s, root: root}
	st.sm = stackedmap.New(st.cacheGetter)
	return st
}

// load reads a committed value. A missing key is returned as nil value.
func (s *Stater) load(bucket kv.Bucket, key []byte) ([]byte, error) {
	ck := string(bucket) + string(key)
	v, err := s.cache.GetOrLoad(ck, func(any) (any, error) {
		data, err := s.store.Get([]byte(ck))
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
