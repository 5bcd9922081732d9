// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a genesis YAML document (devnet if not set)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for chain databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'position' and best block for subscriptions",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Value: "info",
		Usage: "log verbosity (trace|debug|info|warn|error|crit)",
	}
	blockIntervalFlag = cli.Uint64Flag{
		Name:  "block-interval",
		Value: 10,
		Usage: "seconds between mined blocks",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the local clock at startup (empty to skip)",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "enables metrics collection, served at /metrics",
	}
	botsFlag = cli.Uint64Flag{
		Name:  "bots",
		Value: 0,
		Usage: "number of simulated players acting every block interval",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the chain database cache, at most half of the physical memory",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep the chain in the data dir instead of memory",
	}
	roundsFlag = cli.Uint64Flag{
		Name:  "rounds",
		Value: 10,
		Usage: "number of rounds to play",
	}
	playersFlag = cli.Uint64Flag{
		Name:  "players",
		Value: 5,
		Usage: "number of simulated players, up to the number of dev accounts minus the owner",
	}
	seedFlag = cli.Int64Flag{
		Name:  "seed",
		Value: 0,
		Usage: "random seed of the simulation (time based if 0)",
	}
	bidderFlag = cli.StringFlag{
		Name:  "bidder",
		Usage: "also dump the bidding records of the address in the current round",
	}
)
