// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/genesis"
	"github.com/cosmicsignature/engine/node"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectAction(ctx *cli.Context) error {
	if err := initLogger(ctx); err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	var cfg *genesis.Config
	if path := ctx.String(configFlag.Name); path != "" {
		cfg, err = genesis.LoadConfig(path)
	} else {
		cfg, err = genesis.LoadConfig(filepath.Join(dataDir, devnetConfigFile))
	}
	if err != nil {
		return errors.WithMessage(err, "no chain found, use solo --persist first or pass --config")
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

	var bidder *cosmic.Address
	if s := ctx.String(bidderFlag.Name); s != "" {
		if bidder, err = cosmic.ParseAddress(s); err != nil {
			return errors.WithMessage(err, "bidder")
		}
	}
	return dumpState(os.Stdout, n, bidder)
}

// dumpState writes the round, its prices and champions, and the staking ledgers.
func dumpState(w io.Writer, n *node.Node, bidder *cosmic.Address) error {
	best := n.Chain().BestHeader()
	fmt.Fprintf(w, "best block #%v %v\n", best.Number(), best.ID())

	round, err := n.Round()
	if err != nil {
		return err
	}
	prices, err := n.Prices(0)
	if err != nil {
		return err
	}
	champions, err := n.Champions()
	if err != nil {
		return err
	}
	dumper.Fdump(w, round, prices, champions)

	for _, l := range node.Ledgers {
		info, err := n.StakingInfo(l)
		if err != nil {
			return err
		}
		dumper.Fdump(w, info)
	}

	if bidder != nil {
		info, err := n.BidderInfo(round.Number, *bidder)
		if err != nil {
			return err
		}
		dumper.Fdump(w, info)
	}
	return nil
}
