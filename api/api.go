// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the simulated chain over a rest interface.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ronin-chain/dpos-contract/api/accounts"
	"github.com/ronin-chain/dpos-contract/api/blocks"
	"github.com/ronin-chain/dpos-contract/api/events"
	"github.com/ronin-chain/dpos-contract/api/middleware"
	"github.com/ronin-chain/dpos-contract/api/transactions"
	"github.com/ronin-chain/dpos-contract/api/validators"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/logdb"
	"github.com/ronin-chain/dpos-contract/state"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	CallGasLimit         uint64
	PprofOn              bool
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(
	repo *chain.Repository,
	stater *state.Stater,
	sender transactions.Sender,
	logDB *logdb.LogDB,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(repo, stater, opts.CallGasLimit).
		Mount(router, "/accounts")
	if !opts.SkipLogs && logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	blocks.New(repo).
		Mount(router, "/blocks")
	transactions.New(repo, sender).
		Mount(router, "/transactions")
	validators.New(repo, stater).
		Mount(router, "/validators")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP
}
