// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "dpos")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "dpos"
	app.Usage = "Ronin DPoS validator management on a simulated chain"
	app.Flags = []cli.Flag{
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		initLogger(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "simulate",
			Usage: "produce blocks with the validator contracts and serve the chain over the API",
			Flags: []cli.Flag{
				genesisFlag,
				dataDirFlag,
				blocksFlag,
				blockIntervalFlag,
				paceFlag,
				exitFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiCallGasLimitFlag,
				apiLogsLimitFlag,
				apiSlowQueriesThresholdFlag,
				enableAPILogsFlag,
				pprofFlag,
				skipLogsFlag,
				enableMetricsFlag,
				metricsAddrFlag,
			},
			Action: simulateAction,
		},
		{
			Name:      "storage-layout",
			Usage:     "print the storage layout of a compiler artifact or of the native contracts",
			ArgsUsage: "[artifact.json]",
			Flags: []cli.Flag{
				nativeFlag,
				outFlag,
				diffFlag,
			},
			Action: storageLayoutAction,
		},
		{
			Name:      "inspect",
			Usage:     "dump the genesis config, a block, or a transaction of a persisted chain",
			ArgsUsage: "genesis | block <number|best> | tx <id>",
			Flags: []cli.Flag{
				genesisFlag,
				dataDirFlag,
			},
			Action: inspectAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
