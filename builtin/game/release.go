// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"

	"github.com/cosmicsignature/engine/builtin/pricing"
	"github.com/cosmicsignature/engine/xenv"
)

// Rules are the parts of the game logic a release may replace. A nil rule keeps the launch behavior.
type Rules struct {
	// RandomWalkNftBidPrice prices an ETH bid spending a RandomWalk NFT, given the plain ETH bid price.
	RandomWalkNftBidPrice func(ethBidPrice *big.Int) *big.Int
	// BidMessageLimit caps the bid message length below the BidMessageLengthMaxLimit parameter. Zero means no cap.
	BidMessageLimit uint64
}

// Release is a revision of the game logic, registered with the upgradeable handle.
type Release struct {
	Number uint64
	Rules  Rules
	// Migration runs when the handle is upgraded to this release. Optional.
	Migration func(env *xenv.Environment) error
}

// V1 is the launch release.
var V1 = Release{Number: 1}

func (r Release) Version() uint64 { return r.Number }

func (r Release) Migrate(env *xenv.Environment) error {
	if r.Migration == nil {
		return nil
	}
	return r.Migration(env)
}

// Bind makes g run the logic of r.
func (r Release) Bind(g *Game) *Game {
	g.rules = r.Rules
	return g
}

func (g *Game) randomWalkNftBidPrice(ethBidPrice *big.Int) *big.Int {
	if g.rules.RandomWalkNftBidPrice == nil {
		return pricing.EthPlusRandomWalkNftBidPrice(ethBidPrice)
	}
	return g.rules.RandomWalkNftBidPrice(ethBidPrice)
}
