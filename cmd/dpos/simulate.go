// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/api"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/metrics"
)

func simulateAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	d, err := openDB(ctx.String(dataDirFlag.Name), gene, ctx.Bool(skipLogsFlag.Name))
	if err != nil {
		return err
	}
	defer d.Close()

	repo, stater, err := initChain(gene, d.main)
	if err != nil {
		return err
	}

	opts := chain.DefaultOptions()
	opts.BlockInterval = ctx.Uint64(blockIntervalFlag.Name)
	sim := chain.NewSimulator(repo, stater, opts)
	if d.log != nil {
		sim.Subscribe(d.log.IndexBlock)
	}

	best := repo.BestBlockSummary().Header
	logger.Info("chain ready",
		"network", gene.Name(),
		"genesis", gene.ID(),
		"best", best.Number(),
		"instance", d.instanceDir)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, runCtx := errgroup.WithContext(runCtx)

	var servers []func() error
	defer func() {
		for _, shutdown := range servers {
			if err := shutdown(); err != nil {
				logger.Warn("failed to stop server", "err", err)
			}
		}
	}()

	serveAPI := ctx.String(apiAddrFlag.Name) != ""
	if serveAPI {
		enableReqLogger := &atomic.Bool{}
		enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
		handler := api.New(repo, stater, sim, d.log, api.Options{
			AllowedOrigins:       ctx.String(apiCorsFlag.Name),
			CallGasLimit:         ctx.Uint64(apiCallGasLimitFlag.Name),
			PprofOn:              ctx.Bool(pprofFlag.Name),
			SkipLogs:             ctx.Bool(skipLogsFlag.Name),
			EnableReqLogger:      enableReqLogger,
			SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
			Log5xxErrors:         true,
			EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
			LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		})
		url, shutdown, err := startServer(ctx.String(apiAddrFlag.Name), handler)
		if err != nil {
			return err
		}
		servers = append(servers, shutdown)
		logger.Info("API portal started", "url", url)
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		url, shutdown, err := startServer(ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
		servers = append(servers, shutdown)
		logger.Info("metrics started", "url", url+"metrics")
	}

	n := ctx.Uint64(blocksFlag.Name)
	g.Go(func() error {
		if err := produce(runCtx, sim, n, ctx.Duration(paceFlag.Name)); err != nil {
			return err
		}
		logger.Info("blocks produced", "best", repo.BestBlockSummary().Header.Number())
		if !serveAPI || ctx.Bool(exitFlag.Name) {
			stop()
			return nil
		}
		<-runCtx.Done()
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// produce adds n blocks, or blocks until ctx is done when n is zero.
func produce(ctx context.Context, sim *chain.Simulator, n uint64, pace time.Duration) error {
	progress := func(blk *block.Block) {
		logger.Debug("block produced", "number", blk.Header().Number(), "txs", len(blk.Transactions()))
	}
	if n > 0 {
		bar := pb.New64(int64(n)).SetMaxWidth(90)
		bar.NotPrint = !isTerminal()
		bar.Start()
		defer bar.Finish()
		progress = func(*block.Block) { bar.Increment() }
	}

	if pace <= 0 {
		return sim.Run(ctx, n, progress)
	}
	ticker := time.NewTicker(pace)
	defer ticker.Stop()
	for i := uint64(0); n == 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		blk, _, err := sim.Produce()
		if err != nil {
			return fmt.Errorf("produce block: %w", err)
		}
		progress(blk)
	}
	return nil
}
