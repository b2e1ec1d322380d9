// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"strconv"

	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// Revision identifies a block by id, by number or as the best block.
type Revision struct {
	val any
}

// IsBest reports whether the revision follows the best block.
func (rev *Revision) IsBest() bool {
	return rev.val == nil
}

// ParseRevision parses a query parameter into a block number or block ID.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{}, nil
	}

	if len(revision) == 66 || len(revision) == 64 {
		blockID, err := ronin.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{blockID}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 64)
	if err != nil {
		return nil, err
	}
	return &Revision{n}, nil
}

// GetSummary returns the block summary for the given revision.
func GetSummary(rev *Revision, repo *chain.Repository) (*chain.BlockSummary, error) {
	var id ronin.Bytes32
	switch rev := rev.val.(type) {
	case ronin.Bytes32:
		id = rev
	case uint64:
		var err error
		if id, err = repo.GetBlockID(rev); err != nil {
			return nil, err
		}
	case nil:
		return repo.BestBlockSummary(), nil
	}
	if id.IsZero() {
		return nil, errors.New("invalid revision")
	}
	return repo.GetBlockSummary(id)
}
