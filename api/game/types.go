// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/cosmicsignature/engine/builtin/game"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/node"
)

type StellarSpender struct {
	Address       cosmic.Address         `json:"address"`
	TotalSpentEth *math.HexOrDecimal256 `json:"totalSpentEth"`
}

type Round struct {
	Number                       uint64                `json:"number"`
	State                        string                `json:"state"`
	Now                          uint64                `json:"now"`
	ActivationTime               uint64                `json:"activationTime"`
	MainPrizeTime                uint64                `json:"mainPrizeTime"`
	DurationUntilMainPrize       int64                 `json:"durationUntilMainPrize"`
	DurationUntilRoundActivation int64                 `json:"durationUntilRoundActivation"`
	TotalBids                    uint64                `json:"totalBids"`
	LastBidder                   cosmic.Address        `json:"lastBidder"`
	LastCstBidder                cosmic.Address        `json:"lastCstBidder"`
	Balance                      *math.HexOrDecimal256 `json:"balance"`
	StellarSpender               *StellarSpender       `json:"stellarSpender"`
	MainEthPrizeAmount           *math.HexOrDecimal256 `json:"mainEthPrizeAmount"`
	CharityEthDonationAmount     *math.HexOrDecimal256 `json:"charityEthDonationAmount"`
	ChronoWarriorEthPrizeAmount  *math.HexOrDecimal256 `json:"chronoWarriorEthPrizeAmount"`
	RaffleTotalEthPrizeAmount    *math.HexOrDecimal256 `json:"raffleTotalEthPrizeAmount"`
	StakingTotalEthRewardAmount  *math.HexOrDecimal256 `json:"stakingTotalEthRewardAmount"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func convertRound(r *node.Round) *Round {
	round := &Round{
		Number:                       r.Number,
		State:                        r.State.String(),
		Now:                          r.Now,
		ActivationTime:               r.ActivationTime,
		MainPrizeTime:                r.MainPrizeTime,
		DurationUntilMainPrize:       r.DurationUntilMainPrize,
		DurationUntilRoundActivation: r.DurationUntilRoundActivation,
		TotalBids:                    r.TotalBids,
		LastBidder:                   r.LastBidder,
		LastCstBidder:                r.LastCstBidder,
		Balance:                      hexOrDecimal(r.Balance),
		MainEthPrizeAmount:           hexOrDecimal(r.MainEthPrizeAmount),
		CharityEthDonationAmount:     hexOrDecimal(r.CharityEthDonationAmount),
		ChronoWarriorEthPrizeAmount:  hexOrDecimal(r.ChronoWarriorEthPrizeAmount),
		RaffleTotalEthPrizeAmount:    hexOrDecimal(r.RaffleTotalEthPrizeAmount),
		StakingTotalEthRewardAmount:  hexOrDecimal(r.StakingTotalEthRewardAmount),
	}
	if s := r.StellarSpender; s != nil && !s.Address.IsZero() {
		round.StellarSpender = &StellarSpender{
			Address:       s.Address,
			TotalSpentEth: hexOrDecimal(s.TotalSpentEth),
		}
	}
	return round
}

type Prices struct {
	Now               uint64                `json:"now"`
	Offset            int64                 `json:"offset"`
	Eth               *math.HexOrDecimal256 `json:"eth"`
	EthWithRandomWalk *math.HexOrDecimal256 `json:"ethWithRandomWalk"`
	Cst               *math.HexOrDecimal256 `json:"cst"`
}

type Champions struct {
	EnduranceChampion         cosmic.Address `json:"enduranceChampion"`
	EnduranceChampionStart    uint64         `json:"enduranceChampionStart"`
	EnduranceChampionDuration uint64         `json:"enduranceChampionDuration"`
	ChronoWarrior             cosmic.Address `json:"chronoWarrior"`
	ChronoWarriorDuration     uint64         `json:"chronoWarriorDuration"`
}

func convertChampions(c *game.Champions) *Champions {
	return &Champions{
		EnduranceChampion:         c.EnduranceChampion,
		EnduranceChampionStart:    c.EnduranceChampionStartTimeStamp,
		EnduranceChampionDuration: c.EnduranceChampionDuration,
		ChronoWarrior:             c.ChronoWarrior,
		ChronoWarriorDuration:     c.ChronoWarriorDuration,
	}
}

type Bidder struct {
	Address          cosmic.Address        `json:"address"`
	TotalSpentEth    *math.HexOrDecimal256 `json:"totalSpentEth"`
	TotalSpentCst    *math.HexOrDecimal256 `json:"totalSpentCst"`
	LastBidTimeStamp uint64                `json:"lastBidTimeStamp"`
}
