// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// gas used by this tx
	GasUsed uint64
	// if the tx reverted
	Reverted bool
	// abi encoded revert reason, empty on success
	RevertReason []byte
	// outputs of clauses in tx
	Outputs []*Output
}

// Output output of clause execution.
type Output struct {
	// events produced by the clause
	Events Events
	// abi encoded return data
	Data []byte
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes the root hash of receipts.
func (rs Receipts) RootHash() ronin.Bytes32 {
	if len(rs) == 0 {
		return ronin.Bytes32{}
	}
	hashes := make([][]byte, 0, len(rs))
	for _, r := range rs {
		data, err := rlp.EncodeToBytes(r)
		if err != nil {
			panic(err)
		}
		h := ronin.Keccak256(data)
		hashes = append(hashes, h.Bytes())
	}
	return ronin.Keccak256(hashes...)
}
