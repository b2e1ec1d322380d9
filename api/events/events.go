// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/api/utils"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/logdb"
)

var logger = log.WithContext("pkg", "events")

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	filter, err := ConvertEventFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = ConvertEvent(ev, ef.Options.Decode)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.validate(e.limit); err != nil {
		return utils.BadRequest(err)
	}
	if filter.Options == nil {
		filter.Options = &Options{}
	}
	if filter.Options.Limit == nil {
		// one more than the limit to detect whether there are more logs than allowed
		limit := e.limit + 1
		filter.Options.Limit = &limit
	}

	fes, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(fes) > int(e.limit) {
		return utils.Forbidden(errors.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("logs_filter_event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
