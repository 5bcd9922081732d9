// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"
	"math/big"

	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/genesis"
	"github.com/cosmicsignature/engine/logdb"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/node"
	"github.com/cosmicsignature/engine/state"
)

// DefaultLaunchTime is the genesis time of test chains.
const DefaultLaunchTime uint64 = 1_700_000_000

// Chain is a devnet ledger on in-memory stores, driven by a manual clock.
type Chain struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	chain   *chain.Chain
	clock   *node.ManualClock
	node    *node.Node
}

// NewIntegrationTestChain creates a chain of the devnet genesis. The first round is active at launch.
func NewIntegrationTestChain() (*Chain, error) {
	return NewIntegrationTestChainWithConfig(genesis.DevConfig(DefaultLaunchTime))
}

// NewIntegrationTestChainWithConfig creates a chain of the genesis described by cfg.
// Blocks are sealed with the devnet producer key.
func NewIntegrationTestChainWithConfig(cfg *genesis.Config) (*Chain, error) {
	gene, err := genesis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create genesis: %w", err)
	}
	header, stage, err := gene.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}

	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	c, err := chain.New(db, header, stage, logDB, genesis.DevProducer())
	if err != nil {
		return nil, err
	}

	clock := node.NewManualClock(cfg.LaunchTime)
	return &Chain{
		db:      db,
		logDB:   logDB,
		genesis: gene,
		chain:   c,
		clock:   clock,
		node:    node.New(c, clock),
	}, nil
}

func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }
func (c *Chain) Chain() *chain.Chain        { return c.chain }
func (c *Chain) Node() *node.Node           { return c.node }
func (c *Chain) LogDB() *logdb.LogDB        { return c.logDB }
func (c *Chain) Clock() *node.ManualClock   { return c.clock }

// State returns the state at the best block.
func (c *Chain) State() *state.State {
	return c.chain.NewBestState()
}

// Owner is the account owning every builtin contract.
func (c *Chain) Owner() cosmic.Address {
	return c.genesis.Config().Owner
}

// Accounts returns the funded dev accounts. The first one is the owner on devnet.
func (c *Chain) Accounts() []genesis.DevAccount {
	return genesis.DevAccounts()
}

// Advance moves the clock forward by d seconds.
func (c *Chain) Advance(d uint64) uint64 {
	return c.clock.Advance(d)
}

// Balance returns the ETH balance of addr at the best block.
func (c *Chain) Balance(addr cosmic.Address) (*big.Int, error) {
	return c.State().GetBalance(addr)
}

// Close releases the stores.
func (c *Chain) Close() error {
	if err := c.logDB.Close(); err != nil {
		return err
	}
	return c.db.Close()
}
