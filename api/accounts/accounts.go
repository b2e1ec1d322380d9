// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/api/utils"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

var errNotBest = errors.New("only the best revision is supported")

type Accounts struct {
	repo         *chain.Repository
	stater       *state.Stater
	callGasLimit uint64
}

func New(repo *chain.Repository, stater *state.Stater, callGasLimit uint64) *Accounts {
	return &Accounts{
		repo,
		stater,
		callGasLimit,
	}
}

// handleRevision returns the best block header. The state is flat, so older revisions can't be served.
func (a *Accounts) handleRevision(revision string) (*block.Header, error) {
	rev, err := utils.ParseRevision(revision)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	best := a.repo.BestBlockSummary()
	if !rev.IsBest() {
		summary, err := utils.GetSummary(rev, a.repo)
		if err != nil {
			if a.repo.IsNotFound(err) {
				return nil, utils.BadRequest(errors.WithMessage(err, "revision"))
			}
			return nil, err
		}
		if summary.Header.ID() != best.Header.ID() {
			return nil, utils.BadRequest(errors.WithMessage(errNotBest, "revision"))
		}
	}
	return best.Header, nil
}

func (a *Accounts) getAccount(addr ronin.Address, header *block.Header) (*Account, error) {
	st := a.stater.NewState(header.StateRoot())
	b, err := st.GetBalance(addr)
	if err != nil {
		return nil, err
	}
	acc := &Account{Balance: math.HexOrDecimal256(*b.ToBig())}
	if c := builtin.ByAddress(addr); c != nil {
		acc.IsContract = true
		acc.Contract = c.Name()
	}
	return acc, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := ronin.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	h, err := a.handleRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	acc, err := a.getAccount(*addr, h)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := ronin.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	key, err := ronin.ParseBytes32(mux.Vars(req)["key"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "key"))
	}
	h, err := a.handleRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	storage, err := a.stater.NewState(h.StateRoot()).GetStorage(*addr, key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, map[string]string{"value": storage.String()})
}

func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	callData := &CallData{}
	if err := utils.ParseJSON(req.Body, &callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	h, err := a.handleRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	addr, err := ronin.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	batchCallData := &BatchCallData{
		Clauses: Clauses{
			Clause{
				To:    *addr,
				Value: callData.Value,
				Data:  callData.Data,
			},
		},
		Gas:    callData.Gas,
		Caller: callData.Caller,
	}
	results, err := a.batchCall(req.Context(), batchCallData, h)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, results[0])
}

func (a *Accounts) handleCallBatchCode(w http.ResponseWriter, req *http.Request) error {
	batchCallData := &BatchCallData{}
	if err := utils.ParseJSON(req.Body, &batchCallData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	h, err := a.handleRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	results, err := a.batchCall(req.Context(), batchCallData, h)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, results)
}

// batchCall executes clauses on a throwaway state of header, it stops at the first failing clause.
func (a *Accounts) batchCall(ctx context.Context, batchCallData *BatchCallData, header *block.Header) (BatchCallResults, error) {
	gas, caller, clauses, err := a.handleBatchCallData(batchCallData)
	if err != nil {
		return nil, err
	}
	rt := runtime.New(a.stater.NewState(header.StateRoot()), &xenv.BlockContext{
		Number:   header.Number(),
		Time:     header.Timestamp(),
		Coinbase: header.Coinbase(),
	})
	txCtx := &xenv.TransactionContext{Origin: caller}

	results := make(BatchCallResults, 0, len(clauses))
	for _, clause := range clauses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := rt.ExecuteClause(clause, gas, txCtx)
		if err != nil {
			return nil, err
		}
		results = append(results, convertCallResultWithInputGas(out, gas))
		if out.VMErr != nil {
			return results, nil
		}
		gas = out.LeftOverGas
	}
	return results, nil
}

func (a *Accounts) handleBatchCallData(batchCallData *BatchCallData) (gas uint64, caller ronin.Address, clauses []*tx.Clause, err error) {
	if batchCallData.Gas > a.callGasLimit {
		return 0, caller, nil, utils.Forbidden(errors.New("gas: exceeds limit"))
	} else if batchCallData.Gas == 0 {
		gas = a.callGasLimit
	} else {
		gas = batchCallData.Gas
	}
	if batchCallData.Caller != nil {
		caller = *batchCallData.Caller
	}
	clauses = make([]*tx.Clause, len(batchCallData.Clauses))
	for i, c := range batchCallData.Clauses {
		clause := tx.NewClause(c.To)
		if c.Value != nil {
			value, overflow := uint256.FromBig((*big.Int)(c.Value))
			if overflow {
				return 0, caller, nil, utils.BadRequest(errors.Errorf("value[%d]: overflows", i))
			}
			clause = clause.WithValue(value)
		}
		if c.Data != "" {
			data, err := hexutil.Decode(c.Data)
			if err != nil {
				return 0, caller, nil, utils.BadRequest(errors.WithMessagef(err, "data[%d]", i))
			}
			clause = clause.WithData(data)
		}
		clauses[i] = clause
	}
	return
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/*").
		Methods(http.MethodPost).
		Name("accounts_call_batch_code").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallBatchCode))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/storage/{key}").
		Methods(http.MethodGet).
		Name("accounts_get_storage").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("accounts_call_contract").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
}
