// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
)

const (
	// maxStepDelay bounds the seconds between two simulated actions.
	maxStepDelay = 300
	// maxExtraSteps bounds the actions spent waiting for a round to end.
	maxExtraSteps = 1000
)

type stake struct {
	id    uint64
	owner cosmic.Address
}

type approval struct {
	ledger node.Ledger
	owner  cosmic.Address
}

type mainPrize struct {
	Round  uint64
	Winner cosmic.Address
	Amount *big.Int
}

type simulationStats struct {
	Rounds    uint64
	EthBids   uint64
	RwBids    uint64
	CstBids   uint64
	Donations uint64
	Stakes    uint64
	Unstakes  uint64
	Withdrawn *big.Int
	Prizes    []mainPrize
	Reverts   map[reverts.Kind]uint64
}

// simulator plays the game with a set of players choosing random actions.
type simulator struct {
	node    *node.Node
	clock   *node.ManualClock // nil when following the wall clock
	players []cosmic.Address
	rand    *rand.Rand

	approved map[approval]bool
	stakes   map[node.Ledger][]stake
	stats    simulationStats
}

func newSimulator(n *node.Node, clock *node.ManualClock, players []cosmic.Address, seed uint64) *simulator {
	return &simulator{
		node:     n,
		clock:    clock,
		players:  players,
		rand:     rand.New(rand.NewPCG(seed, seed>>32|1)), // #nosec G404
		approved: make(map[approval]bool),
		stakes:   make(map[node.Ledger][]stake),
		stats: simulationStats{
			Withdrawn: new(big.Int),
			Reverts:   make(map[reverts.Kind]uint64),
		},
	}
}

func (s *simulator) pick() cosmic.Address {
	return s.players[s.rand.IntN(len(s.players))]
}

func (s *simulator) advance(d uint64) {
	if s.clock != nil && d > 0 {
		s.clock.Advance(d)
	}
}

// record counts a revert as a played action. Other errors stop the simulation.
func (s *simulator) record(err error) error {
	if err == nil {
		return nil
	}
	if reverts.IsRevertErr(err) {
		kind := reverts.KindOf(err)
		s.stats.Reverts[kind]++
		logger.Debug("action reverted", "kind", kind)
		return nil
	}
	return err
}

// step performs one action. A claimable round is always claimed first.
func (s *simulator) step() error {
	r, err := s.node.Round()
	if err != nil {
		return err
	}
	switch r.State {
	case game.Inactive:
		s.advance(uint64(max(r.DurationUntilRoundActivation, 0)))
		return nil
	case game.MainPrizeClaimable:
		return s.claim(r, r.LastBidder)
	case game.ClaimTimedOut:
		return s.claim(r, s.pick())
	}

	player := s.pick()
	switch x := s.rand.IntN(100); {
	case x < 55:
		err = s.bidWithEth(player)
	case x < 65:
		err = s.bidWithRandomWalk(player)
	case x < 75:
		err = s.bidWithCst(player)
	case x < 85:
		err = s.stake(player)
	case x < 92:
		err = s.unstake()
	default:
		err = s.donate(player)
	}
	return s.record(err)
}

func (s *simulator) message() string {
	if s.rand.IntN(4) == 0 {
		return fmt.Sprintf("gm from bid #%d", s.stats.EthBids+s.stats.RwBids+s.stats.CstBids)
	}
	return ""
}

func (s *simulator) bidWithEth(player cosmic.Address) error {
	prices, err := s.node.Prices(0)
	if err != nil {
		return err
	}
	if _, err := s.node.BidWithEth(player, prices.Eth, node.NoRandomWalkNft, s.message()); err != nil {
		return err
	}
	s.stats.EthBids++
	return nil
}

func (s *simulator) bidWithRandomWalk(player cosmic.Address) error {
	id, _, err := s.node.MintRandomWalkNft(player)
	if err != nil {
		return err
	}
	prices, err := s.node.Prices(0)
	if err != nil {
		return err
	}
	if _, err := s.node.BidWithEth(player, prices.EthWithRandomWalk, int64(id), s.message()); err != nil {
		return err
	}
	s.stats.RwBids++
	return nil
}

func (s *simulator) bidWithCst(player cosmic.Address) error {
	prices, err := s.node.Prices(0)
	if err != nil {
		return err
	}
	balance, err := s.node.CstBalance(player)
	if err != nil {
		return err
	}
	if balance.Cmp(prices.Cst) < 0 {
		return s.bidWithEth(player)
	}
	if _, err := s.node.BidWithCst(player, prices.Cst, s.message()); err != nil {
		return err
	}
	s.stats.CstBids++
	return nil
}

// ownedNfts lists the NFTs of the collection held by owner. Staked NFTs are held by the ledger.
func (s *simulator) ownedNfts(l node.Ledger, owner cosmic.Address) ([]uint64, error) {
	supply, err := s.node.NftTotalSupply(l)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for id := range supply {
		holder, err := s.node.NftOwner(l, id)
		if err != nil {
			return nil, err
		}
		if holder == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *simulator) stake(player cosmic.Address) error {
	l := node.Ledgers[s.rand.IntN(len(node.Ledgers))]
	ids, err := s.ownedNfts(l, player)
	if err != nil || len(ids) == 0 {
		return err
	}
	if key := (approval{l, player}); !s.approved[key] {
		if _, err := s.node.SetNftApprovalForAll(l, player, l.Address(), true); err != nil {
			return err
		}
		s.approved[key] = true
	}

	id := ids[s.rand.IntN(len(ids))]
	actions, _, err := s.node.Stake(l, player, id)
	if err != nil {
		return err
	}
	for _, a := range actions {
		s.stakes[l] = append(s.stakes[l], stake{a, player})
	}
	s.stats.Stakes++
	return nil
}

func (s *simulator) unstake() error {
	l := node.Ledgers[s.rand.IntN(len(node.Ledgers))]
	staked := s.stakes[l]
	if len(staked) == 0 {
		return nil
	}
	i := s.rand.IntN(len(staked))
	if _, err := s.node.Unstake(l, staked[i].owner, staked[i].id); err != nil {
		return err
	}
	s.stakes[l] = slices.Delete(staked, i, i+1)
	s.stats.Unstakes++
	return nil
}

func (s *simulator) donate(player cosmic.Address) error {
	// 0.01 to 1 ether
	amount := new(big.Int).Mul(big.NewInt(int64(1+s.rand.IntN(100))), big.NewInt(1e16))
	if _, err := s.node.DonateEth(player, amount); err != nil {
		return err
	}
	s.stats.Donations++
	return nil
}

// claim ends the round, then lets every player withdraw its ETH prize.
func (s *simulator) claim(r *node.Round, claimer cosmic.Address) error {
	if _, err := s.node.ClaimMainPrize(claimer); err != nil {
		return s.record(err)
	}
	s.stats.Rounds++
	s.stats.Prizes = append(s.stats.Prizes, mainPrize{r.Number, claimer, r.MainEthPrizeAmount})
	logger.Debug("round claimed", "round", r.Number, "winner", claimer, "bids", r.TotalBids, "prize", r.MainEthPrizeAmount)

	for _, player := range s.players {
		balance, err := s.node.PrizeBalance(r.Number, player)
		if err != nil {
			return err
		}
		if balance.Eth.Sign() == 0 {
			continue
		}
		if _, err := s.node.WithdrawEth(player, r.Number); err != nil {
			if err := s.record(err); err != nil {
				return err
			}
			continue
		}
		s.stats.Withdrawn.Add(s.stats.Withdrawn, balance.Eth)
	}
	return nil
}

// playRound runs steps random actions, then waits for the main prize time until the round is claimed.
func (s *simulator) playRound(steps int) error {
	if s.clock == nil {
		return errors.New("rounds can only be played on a manual clock")
	}
	r, err := s.node.Round()
	if err != nil {
		return err
	}
	round := r.Number
	for i := 0; ; i++ {
		if i > steps+maxExtraSteps {
			return errors.Errorf("round %v did not end", round)
		}
		if err := s.step(); err != nil {
			return err
		}
		if r, err = s.node.Round(); err != nil {
			return err
		}
		if r.Number != round {
			return nil
		}
		if i < steps || r.TotalBids == 0 || r.DurationUntilMainPrize <= 0 {
			s.advance(1 + s.rand.Uint64N(maxStepDelay))
		} else {
			s.advance(uint64(r.DurationUntilMainPrize))
		}
	}
}

func (s *simulator) printSummary(w io.Writer) {
	fmt.Fprintf(w, `Simulation summary
    Rounds claimed [ %v ]
    Bids           [ eth %v, random walk %v, cst %v ]
    Donations      [ %v ]
    Staking        [ staked %v, unstaked %v ]
    ETH withdrawn  [ %v wei ]
`,
		s.stats.Rounds,
		s.stats.EthBids, s.stats.RwBids, s.stats.CstBids,
		s.stats.Donations,
		s.stats.Stakes, s.stats.Unstakes,
		s.stats.Withdrawn)

	for _, p := range s.stats.Prizes {
		fmt.Fprintf(w, "    Round %-7v [ %v won %v wei ]\n", p.Round, p.Winner, p.Amount)
	}

	kinds := make([]reverts.Kind, 0, len(s.stats.Reverts))
	for k := range s.stats.Reverts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "    Reverted       [ %v x%v ]\n", k, s.stats.Reverts[k])
	}
}
