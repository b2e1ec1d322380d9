// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Clause is one call of a transaction: value and calldata sent to an account,
// usually one of the native dpos contracts. Clauses never deploy code, so the
// recipient is mandatory. A Clause is immutable; the With methods return copies.
type Clause struct {
	body struct {
		To    ronin.Address
		Value *uint256.Int
		Data  []byte
	}
}

func NewClause(to ronin.Address) *Clause {
	c := &Clause{}
	c.body.To = to
	c.body.Value = new(uint256.Int)
	return c
}

func (c *Clause) WithValue(value *uint256.Int) *Clause {
	cpy := *c
	cpy.body.Value = value.Clone()
	return &cpy
}

func (c *Clause) WithData(data []byte) *Clause {
	cpy := *c
	cpy.body.Data = append([]byte(nil), data...)
	return &cpy
}

func (c *Clause) To() ronin.Address   { return c.body.To }
func (c *Clause) Value() *uint256.Int { return c.body.Value.Clone() }
func (c *Clause) Data() []byte        { return append([]byte(nil), c.body.Data...) }

func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var dec Clause
	if err := s.Decode(&dec.body); err != nil {
		return err
	}
	*c = dec
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf("Clause(to: %v, value: %v, data: 0x%x)", c.body.To, c.body.Value, c.body.Data)
}
