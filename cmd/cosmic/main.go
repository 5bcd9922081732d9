// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/cosmicsignature/engine/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "cosmic")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Cosmic",
		Usage:   "Cosmic Signature game ledger",
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run the game on a local chain, mining a block every interval",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					persistFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiBacktraceLimitFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					blockIntervalFlag,
					ntpServerFlag,
					botsFlag,
					seedFlag,
					metricsFlag,
					verbosityFlag,
				},
				Action: soloAction,
			},
			{
				Name:  "simulate",
				Usage: "play random rounds on an in-memory chain and print a summary",
				Flags: []cli.Flag{
					configFlag,
					roundsFlag,
					playersFlag,
					seedFlag,
					verbosityFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "inspect",
				Usage: "dump the state of the current round of a persisted chain",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					cacheFlag,
					bidderFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
