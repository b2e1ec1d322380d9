// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ResolvedTransaction resolve the transaction according to given state.
type ResolvedTransaction struct {
	tx           *tx.Transaction
	Origin       ronin.Address
	IntrinsicGas uint64
	SumValue     *uint256.Int
	Clauses      []*tx.Clause
}

// IntrinsicGas returns the gas charged before any clause runs.
func IntrinsicGas(clauses []*tx.Clause) uint64 {
	return ronin.ClauseGas * uint64(len(clauses))
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(trx *tx.Transaction) (*ResolvedTransaction, error) {
	clauses := trx.Clauses()
	if len(clauses) == 0 {
		return nil, errors.New("tx without clauses")
	}
	intrinsicGas := IntrinsicGas(clauses)
	if trx.Gas() < intrinsicGas {
		return nil, errors.New("intrinsic gas exceeds provided gas")
	}

	sumValue := new(uint256.Int)
	for _, clause := range clauses {
		if _, overflow := sumValue.AddOverflow(sumValue, clause.Value()); overflow {
			return nil, errors.New("tx value too large")
		}
	}

	return &ResolvedTransaction{
		trx,
		trx.Origin(),
		intrinsicGas,
		sumValue,
		clauses,
	}, nil
}

// CheckBalance ensures the origin can pay every clause value.
func (r *ResolvedTransaction) CheckBalance(st *state.State) error {
	bal, err := st.GetBalance(r.Origin)
	if err != nil {
		return err
	}
	if bal.Lt(r.SumValue) {
		return errors.WithMessagef(state.ErrInsufficientBalance, "origin %v", r.Origin)
	}
	return nil
}

// ToContext create a tx context object.
func (r *ResolvedTransaction) ToContext() *xenv.TransactionContext {
	return &xenv.TransactionContext{
		ID:     r.tx.ID(),
		Origin: r.Origin,
	}
}
