// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectAction(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return errors.New("expect genesis, block or tx")
	}
	w := ctx.App.Writer

	if args[0] == "genesis" {
		cfg := genesis.DevConfig()
		if path := ctx.String(genesisFlag.Name); path != "" {
			var err error
			if cfg, err = genesis.LoadConfig(path); err != nil {
				return err
			}
		}
		dumper.Fdump(w, cfg)
		return nil
	}

	if len(args) != 2 {
		return errors.Errorf("expect one argument for %v", args[0])
	}
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return errors.New("inspect requires --data-dir")
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	d, err := openDB(dataDir, gene, true)
	if err != nil {
		return err
	}
	defer d.Close()
	repo, _, err := initChain(gene, d.main)
	if err != nil {
		return err
	}

	switch args[0] {
	case "block":
		id := repo.BestBlockSummary().Header.ID()
		if args[1] != "best" {
			num, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parse block number")
			}
			if id, err = repo.GetBlockID(num); err != nil {
				return errors.Wrap(err, "get block id")
			}
		}
		blk, err := repo.GetBlock(id)
		if err != nil {
			return errors.Wrap(err, "get block")
		}
		receipts, err := repo.GetBlockReceipts(id)
		if err != nil {
			return errors.Wrap(err, "get receipts")
		}
		dumper.Fdump(w, blk.Header(), blk.Transactions(), receipts)
	case "tx":
		txID, err := ronin.ParseBytes32(args[1])
		if err != nil {
			return errors.Wrap(err, "parse tx id")
		}
		trx, meta, err := repo.GetTransaction(txID)
		if err != nil {
			return errors.Wrap(err, "get tx")
		}
		receipt, err := repo.GetReceipt(txID)
		if err != nil {
			return errors.Wrap(err, "get receipt")
		}
		dumper.Fdump(w, meta, trx, receipt)
	default:
		return errors.Errorf("unknown target %v", args[0])
	}
	return nil
}
