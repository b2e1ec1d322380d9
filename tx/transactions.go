// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/ronin-chain/dpos-contract/ronin"

// Transactions a slice of transactions.
type Transactions []*Transaction

// RootHash computes merkle-free root hash of transactions: keccak over the ids.
func (txs Transactions) RootHash() ronin.Bytes32 {
	if len(txs) == 0 {
		return ronin.Bytes32{}
	}
	ids := make([][]byte, 0, len(txs))
	for _, t := range txs {
		id := t.ID()
		ids = append(ids, id.Bytes())
	}
	return ronin.Keccak256(ids...)
}
