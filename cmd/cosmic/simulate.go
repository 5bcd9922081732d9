// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/genesis"
	"github.com/cosmicsignature/engine/node"
)

// playersOf returns up to num funded accounts of the genesis, the owner excluded.
func playersOf(cfg *genesis.Config, num uint64) ([]cosmic.Address, error) {
	var players []cosmic.Address
	for _, acc := range cfg.Accounts {
		if uint64(len(players)) == num {
			break
		}
		if acc.Address != cfg.Owner && acc.Balance.Sign() > 0 {
			players = append(players, acc.Address)
		}
	}
	if len(players) == 0 {
		return nil, errors.New("no funded accounts to play with")
	}
	return players, nil
}

func seedOf(ctx *cli.Context) uint64 {
	seed := ctx.Int64(seedFlag.Name)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("random seed", "seed", seed)
	return uint64(seed)
}

func simulateAction(ctx *cli.Context) error {
	if err := initLogger(ctx); err != nil {
		return err
	}
	cfg, err := loadGenesisConfig(ctx, "")
	if err != nil {
		return err
	}
	gene, err := genesis.New(cfg)
	if err != nil {
		return errors.Wrap(err, "create genesis")
	}
	stores, err := openStores("", gene, 0)
	if err != nil {
		return err
	}
	defer stores.Close()

	c, err := initChain(gene, stores)
	if err != nil {
		return err
	}
	clock := node.NewManualClock(cfg.LaunchTime)
	n := node.New(c, clock)

	players, err := playersOf(cfg, ctx.Uint64(playersFlag.Name))
	if err != nil {
		return err
	}
	sim := newSimulator(n, clock, players, seedOf(ctx))

	rounds := ctx.Uint64(roundsFlag.Name)
	if err := runSimulation(sim, rounds, true); err != nil {
		return err
	}
	sim.printSummary(os.Stdout)
	return nil
}

// runSimulation plays rounds, each with a random number of actions before the main prize is claimed.
func runSimulation(sim *simulator, rounds uint64, progress bool) error {
	bar := pb.New64(int64(rounds)).
		SetMaxWidth(90)
	bar.NotPrint = !progress
	bar.Start()
	defer func() { bar.NotPrint = true }()

	for range rounds {
		if err := sim.playRound(5 + sim.rand.IntN(50)); err != nil {
			return err
		}
		bar.Increment()
	}
	bar.Finish()
	return nil
}
