// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node is the typed entry point of the ledger.
//
// Every mutating method submits one atomic transaction, sealed in its own block.
// A reverted call returns its receipt together with the revert, as a *reverts.Error.
// Queries read the state of the best block.
package node

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "node")

// Node binds a chain to a clock.
type Node struct {
	chain *chain.Chain
	clock Clock

	// serializes the read of the clock with the block it stamps
	lock sync.Mutex
}

// New creates a node on top of c. A nil clock means the wall clock.
func New(c *chain.Chain, clock Clock) *Node {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Node{chain: c, clock: clock}
}

func (n *Node) Chain() *chain.Chain { return n.chain }
func (n *Node) Clock() Clock        { return n.clock }

// Now returns the timestamp the next block would get. Block time never goes backwards.
func (n *Node) Now() uint64 {
	now := n.clock.Now()
	if best := n.chain.BestHeader().Timestamp(); now < best {
		return best
	}
	return now
}

// Mine seals an empty block, making the elapsed time visible to queries.
func (n *Node) Mine() (*block.Header, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.chain.Mine(n.Now())
}

func (n *Node) submit(origin, to cosmic.Address, value *big.Int, method string, fn func(env *xenv.Environment) error) (*tx.Receipt, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	receipt, err := n.chain.Execute(n.Now(), &runtime.Transaction{
		Origin: origin,
		To:     to,
		Value:  value,
		Method: method,
		Fn:     fn,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "submit %s", method)
	}
	if receipt.Reverted {
		metricRevertCount().AddWithLabel(1, map[string]string{"method": method})
		return receipt, receipt.Err
	}
	logger.Debug("tx executed", "method", method, "origin", origin, "events", len(receipt.Events))
	return receipt, nil
}

// submitGame runs fn against the game logic the handle currently points to.
func (n *Node) submitGame(origin cosmic.Address, value *big.Int, method string, fn func(g *game.Game, env *xenv.Environment) error) (*tx.Receipt, error) {
	return n.submit(origin, builtin.Proxy.Address, value, method, func(env *xenv.Environment) error {
		g, err := builtin.Game.InForce(env.State())
		if err != nil {
			return err
		}
		return fn(g, env)
	})
}

// SendEth transfers value from origin to the account to. Sending to the game places an ETH bid,
// sending to the charity wallet donates.
func (n *Node) SendEth(origin, to cosmic.Address, value *big.Int) (*tx.Receipt, error) {
	receipt, err := n.submit(origin, to, value, "send", nil)
	if err == nil && to == builtin.Game.Address {
		metricBidCount().AddWithLabel(1, map[string]string{"type": "eth"})
	}
	return receipt, err
}

// BestState returns the state after the best block.
func (n *Node) BestState() *state.State {
	return n.chain.NewBestState()
}

// Balance returns the ETH balance of addr.
func (n *Node) Balance(addr cosmic.Address) (*big.Int, error) {
	return n.BestState().GetBalance(addr)
}
