// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/logdb"
	"github.com/ronin-chain/dpos-contract/lvldb"
	"github.com/ronin-chain/dpos-contract/state"
)

func initLogger(ctx *cli.Context) {
	lvl := log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name))
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		log.SetDefault(log.NewJSONHandler(os.Stderr, lvl))
		return
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandler(os.Stderr, lvl, useColor))
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return genesis.NewGenesis(name[:len(name)-len(filepath.Ext(name))], cfg)
}

// db holds the databases of one genesis.
type db struct {
	main        *lvldb.LevelDB
	log         *logdb.LogDB
	instanceDir string
}

func (d *db) Close() {
	if d.log != nil {
		logger.Info("closing log database...")
		d.log.Close()
	}
	logger.Info("closing main database...")
	d.main.Close()
}

// openDB opens the databases of gene under dataDir, or in memory when dataDir is empty.
func openDB(dataDir string, gene *genesis.Genesis, skipLogs bool) (d *db, err error) {
	d = &db{instanceDir: "memory"}
	if dataDir == "" {
		if d.main, err = lvldb.NewMem(); err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		if !skipLogs {
			if d.log, err = logdb.NewMem(); err != nil {
				d.main.Close()
				return nil, errors.Wrap(err, "open log database")
			}
		}
		return d, nil
	}

	d.instanceDir = filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(d.instanceDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create instance dir [%v]", d.instanceDir)
	}
	if d.main, err = lvldb.New(filepath.Join(d.instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	}); err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	if !skipLogs {
		if d.log, err = logdb.New(filepath.Join(d.instanceDir, "logs.db")); err != nil {
			d.main.Close()
			return nil, errors.Wrap(err, "open log database")
		}
	}
	return d, nil
}

// initChain opens the repository on top of the main database. The genesis state
// is only written while the best block is the genesis block, so a reopened chain
// keeps its state.
func initChain(gene *genesis.Genesis, mainDB *lvldb.LevelDB) (*chain.Repository, *state.Stater, error) {
	memDB, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	defer memDB.Close()

	genesisBlock, _, err := gene.Build(state.NewStater(memDB))
	if err != nil {
		return nil, nil, errors.Wrap(err, "build genesis")
	}
	repo, err := chain.NewRepository(mainDB, genesisBlock)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open repository")
	}
	stater := state.NewStater(mainDB)
	if repo.BestBlockSummary().Header.Number() == 0 {
		if _, _, err := gene.Build(stater); err != nil {
			return nil, nil, errors.Wrap(err, "write genesis state")
		}
	}
	return repo, stater, nil
}

// startServer serves handler on addr until the returned function is called.
func startServer(addr string, handler http.Handler) (string, func() error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	done := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			done <- err
		}
		close(done)
	}()
	return "http://" + listener.Addr().String() + "/", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		return <-done
	}, nil
}
