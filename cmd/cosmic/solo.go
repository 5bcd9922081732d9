// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cosmicsignature/engine/api"
	"github.com/cosmicsignature/engine/genesis"
	"github.com/cosmicsignature/engine/metrics"
	"github.com/cosmicsignature/engine/node"
)

func soloAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	if interval <= 0 {
		return errors.New("block interval must be positive")
	}

	// meters bind lazily, the backend must be set before the chain is opened
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var dataDir string
	if ctx.Bool(persistFlag.Name) {
		var err error
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
	}
	cfg, err := loadGenesisConfig(ctx, dataDir)
	if err != nil {
		return err
	}
	gene, err := genesis.New(cfg)
	if err != nil {
		return errors.Wrap(err, "create genesis")
	}
	stores, err := openStores(dataDir, gene, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer stores.Close()

	c, err := initChain(gene, stores)
	if err != nil {
		return err
	}
	n := node.New(c, node.SystemClock{})

	handler, closeSubs := api.New(n, stores.logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(metricsFlag.Name),
		BlockInterval:   interval,
	})
	defer closeSubs()

	srv, listener, err := listenAPI(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	printStartupMessage(gene, c, stores.dir, "http://"+listener.Addr().String()+"/")

	if server := ctx.String(ntpServerFlag.Name); server != "" {
		go func() {
			if err := checkClockOffset(server, interval); err != nil {
				logger.Debug("failed to check clock offset", "err", err)
			}
		}()
	}

	var bots *simulator
	if num := ctx.Uint64(botsFlag.Name); num > 0 {
		players, err := playersOf(cfg, num)
		if err != nil {
			return err
		}
		bots = newSimulator(n, nil, players, seedOf(ctx))
		logger.Info("bots enabled", "players", len(players))
	}

	g, gctx := errgroup.WithContext(handleExitSignal())
	g.Go(func() error {
		return serveAPI(gctx, srv, listener)
	})
	g.Go(func() error {
		return mineLoop(gctx, n, bots, interval)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// mineLoop seals a block every interval. Bots act once per player before each block.
func mineLoop(ctx context.Context, n *node.Node, bots *simulator, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if bots != nil {
				for range bots.players {
					if err := bots.step(); err != nil {
						return errors.WithMessage(err, "bots")
					}
				}
			}
			header, err := n.Mine()
			if err != nil {
				return errors.WithMessage(err, "mine")
			}
			logger.Debug("block mined", "number", header.Number(), "id", header.ID())
		}
	}
}
