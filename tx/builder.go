// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/ronin-chain/dpos-contract/ronin"

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder for a tx sent by origin.
func NewBuilder(origin ronin.Address) *Builder {
	return &Builder{body: body{Origin: origin}}
}

// Clause add a clause.
func (b *Builder) Clause(c *Clause) *Builder {
	b.body.Clauses = append(b.body.Clauses, c)
	return b
}

// Gas set gas provision for tx.
func (b *Builder) Gas(gas uint64) *Builder {
	b.body.Gas = gas
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	return &Transaction{body: b.body}
}
