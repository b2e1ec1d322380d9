// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ronin-chain/dpos-contract/ronin"
)

type body struct {
	Origin  ronin.Address
	Nonce   uint64
	Gas     uint64
	Clauses []*Clause
}

// Transaction is an immutable batch of clauses sent by one origin.
// Clauses are executed in order and atomically: if one reverts, all are reverted.
type Transaction struct {
	body body

	cache struct {
		id atomic.Pointer[ronin.Bytes32]
	}
}

// ID returns the id of the transaction, the keccak hash of its rlp encoding.
func (t *Transaction) ID() ronin.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	id := ronin.Keccak256(data)
	t.cache.id.Store(&id)
	return id
}

// Origin returns the sender.
func (t *Transaction) Origin() ronin.Address {
	return t.body.Origin
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Gas returns gas provision for this tx.
func (t *Transaction) Gas() uint64 {
	return t.body.Gas
}

// Clauses returns clauses in tx.
func (t *Transaction) Clauses() []*Clause {
	return append([]*Clause(nil), t.body.Clauses...)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v)
	Origin:         %v
	Clauses:        %v
	Gas:            %v
	Nonce:          %v`, t.ID(), t.body.Origin, t.body.Clauses, t.body.Gas, t.body.Nonce)
}
