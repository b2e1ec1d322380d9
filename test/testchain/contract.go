// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"errors"
	"math"

	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/test/datagen"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// Contract calls a builtin contract on behalf of a dev account.
type Contract struct {
	chain *Chain
	abi   *abi.ABI
	addr  ronin.Address
	acc   genesis.DevAccount
}

func NewContract(chain *Chain, acc genesis.DevAccount, addr ronin.Address, abi *abi.ABI) *Contract {
	return &Contract{
		chain: chain,
		abi:   abi,
		addr:  addr,
		acc:   acc,
	}
}

func (c *Contract) Attach(acc genesis.DevAccount) *Contract {
	contract := *c
	contract.acc = acc
	return &contract
}

// Call calls a contract method at the best block and returns the result.
func (c *Contract) Call(method string, args ...any) ([]byte, error) {
	clause, err := c.BuildClause(method, args...)
	if err != nil {
		return nil, err
	}
	best := c.chain.Repo().BestBlockSummary().Header
	rt := runtime.New(c.chain.State(), &xenv.BlockContext{
		Number:   best.Number(),
		Time:     best.Timestamp(),
		Coinbase: best.Coinbase(),
	})
	out, err := rt.Call(clause, math.MaxUint64, xenv.TransactionContext{Origin: c.acc.Address})
	if err != nil {
		return nil, err
	}
	if out.VMErr != nil {
		return nil, out.VMErr
	}
	return out.Data, nil
}

// CallInto calls a contract method and decodes the result into the result argument.
func (c *Contract) CallInto(method string, result any, args ...any) error {
	data, err := c.Call(method, args...)
	if err != nil {
		return err
	}
	methodABI, ok := c.abi.MethodByName(method)
	if !ok {
		return errors.New("method not found")
	}
	return methodABI.DecodeOutput(data, result)
}

func (c *Contract) BuildClause(method string, args ...any) (*tx.Clause, error) {
	methodABI, ok := c.abi.MethodByName(method)
	if !ok {
		return nil, errors.New("method not found")
	}
	data, err := methodABI.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	return tx.NewClause(c.addr).WithData(data), nil
}

func (c *Contract) BuildTransaction(method string, value *uint256.Int, args ...any) (*tx.Transaction, error) {
	clause, err := c.BuildClause(method, args...)
	if err != nil {
		return nil, err
	}
	if value != nil {
		clause = clause.WithValue(value)
	}
	return tx.NewBuilder(c.acc.Address).
		Clause(clause).
		Gas(1_000_000).
		Nonce(datagen.RandUint64()).
		Build(), nil
}

// MintTransaction mints a block including the call and returns its receipt.
func (c *Contract) MintTransaction(method string, value *uint256.Int, args ...any) (*tx.Receipt, error) {
	trx, err := c.BuildTransaction(method, value, args...)
	if err != nil {
		return nil, err
	}
	if err := c.chain.MintBlock(trx); err != nil {
		return nil, err
	}
	return c.chain.GetTxReceipt(trx.ID())
}
