// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/log"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a yaml or toml genesis file (devnet if not set)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for block-chain databases (in memory if not set)",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address (API disabled if empty)",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiCallGasLimitFlag = cli.Uint64Flag{
		Name:  "api-call-gas-limit",
		Value: 50000000,
		Usage: "limit contract call gas",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Usage: "only log API requests slower than the threshold",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip writing event logs (/logs API will be disabled)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	blocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Usage: "number of blocks to produce (no limit if set to 0)",
	}
	blockIntervalFlag = cli.Uint64Flag{
		Name:  "block-interval",
		Value: 3,
		Usage: "seconds between the timestamps of two blocks",
	}
	paceFlag = cli.DurationFlag{
		Name:  "pace",
		Value: 0,
		Usage: "wall clock delay between two blocks (as fast as possible if set to 0)",
	}
	exitFlag = cli.BoolFlag{
		Name:  "exit",
		Usage: "exit once the blocks are produced instead of serving the API",
	}

	nativeFlag = cli.BoolFlag{
		Name:  "native",
		Usage: "report the slots of the native contracts instead of an artifact",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "write the report to a file instead of stdout",
	}
	diffFlag = cli.StringFlag{
		Name:  "diff",
		Usage: "compare the report with a previously written one, failing on any change",
	}

	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	shutdownTimeout = 5 * time.Second
)
