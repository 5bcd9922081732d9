// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package game

import (
	"github.com/cosmicsignature/engine/cosmic"
)

// Champions tracks the endurance champion and the chrono warrior of a round.
//
// The endurance champion is the bidder who held the last bid position for the
// longest single stretch. The chrono warrior is the bidder who was endurance
// champion for the longest continuous time.
type Champions struct {
	EnduranceChampion               cosmic.Address
	EnduranceChampionStartTimeStamp uint64
	EnduranceChampionDuration       uint64
	PrevEnduranceChampionDuration   uint64

	// zero until the first chrono warrior is recorded
	ChronoWarrior         cosmic.Address
	ChronoWarriorDuration uint64
}

// update accounts for the stretch of lastBidder, who bid at lastBidTime and held the position until now.
func (c *Champions) update(lastBidder cosmic.Address, lastBidTime, now uint64) {
	duration := now - lastBidTime
	if c.EnduranceChampion.IsZero() {
		c.EnduranceChampion = lastBidder
		c.EnduranceChampionStartTimeStamp = lastBidTime
		c.EnduranceChampionDuration = duration
		return
	}
	if duration > c.EnduranceChampionDuration {
		c.updateChronoWarrior(lastBidTime + c.EnduranceChampionDuration)
		c.PrevEnduranceChampionDuration = c.EnduranceChampionDuration
		c.EnduranceChampion = lastBidder
		c.EnduranceChampionStartTimeStamp = lastBidTime
		c.EnduranceChampionDuration = duration
	}
}

// updateChronoWarrior closes the champion's reign at end.
// The reign starts once the champion's stretch exceeds the previous record.
func (c *Champions) updateChronoWarrior(end uint64) {
	start := c.EnduranceChampionStartTimeStamp + c.PrevEnduranceChampionDuration
	if end < start {
		return
	}
	duration := end - start
	if c.ChronoWarrior.IsZero() || duration > c.ChronoWarriorDuration {
		c.ChronoWarrior = c.EnduranceChampion
		c.ChronoWarriorDuration = duration
	}
}
