// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/api/utils"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

// Sender accepts transactions for the next block.
type Sender interface {
	AddTx(trx *tx.Transaction)
}

type Transactions struct {
	repo   *chain.Repository
	sender Sender
}

func New(repo *chain.Repository, sender Sender) *Transactions {
	return &Transactions{
		repo,
		sender,
	}
}

func (t *Transactions) getTransactionByID(txID ronin.Bytes32) (*Transaction, error) {
	trx, meta, err := t.repo.GetTransaction(txID)
	if err != nil {
		if t.repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	summary, err := t.repo.GetBlockSummary(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return ConvertTransaction(trx, summary.Header), nil
}

// getTransactionReceiptByID get tx's receipt
func (t *Transactions) getTransactionReceiptByID(txID ronin.Bytes32) (*Receipt, error) {
	trx, meta, err := t.repo.GetTransaction(txID)
	if err != nil {
		if t.repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	summary, err := t.repo.GetBlockSummary(meta.BlockID)
	if err != nil {
		return nil, err
	}
	receipt, err := t.repo.GetReceipt(txID)
	if err != nil {
		return nil, err
	}
	return convertReceipt(receipt, summary.Header, trx), nil
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	if t.sender == nil {
		return utils.Forbidden(errors.New("transactions are not accepted"))
	}
	var body SendTransaction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := body.build()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	t.sender.AddTx(trx)
	return utils.WriteJSON(w, map[string]string{
		"id": trx.ID().String(),
	})
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	txID, err := ronin.ParseBytes32(id)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	trx, err := t.getTransactionByID(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, trx)
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	txID, err := ronin.ParseBytes32(id)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.getTransactionReceiptByID(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("transactions_send_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("transactions_get_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("transactions_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
