// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/co"
	"github.com/cosmicsignature/engine/cosmic"
)

const delayBuffer = 5 * time.Second

type BlockIngestion struct {
	ID        cosmic.Bytes32 `json:"id"`
	Number    uint32         `json:"number"`
	Timestamp *time.Time     `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

// Health follows the best block of a chain.
type Health struct {
	lock          sync.RWMutex
	newBestBlock  time.Time
	bestBlockID   cosmic.Bytes32
	bestBlockNum  uint32
	blockInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	goes          co.Goes
}

// New returns a Health expecting a new block every blockInterval.
func New(blockInterval time.Duration) *Health {
	ctx, cancel := context.WithCancel(context.Background())
	return &Health{
		blockInterval: blockInterval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Follow records every new best block of c until Close.
func (h *Health) Follow(c *chain.Chain) {
	ticker := c.NewTicker()
	best := c.BestHeader()
	h.NewBestBlock(best.ID(), best.Number())

	h.goes.Loop(h.ctx, ticker, func() {
		best := c.BestHeader()
		h.NewBestBlock(best.ID(), best.Number())
	})
}

func (h *Health) Close() {
	h.cancel()
	h.goes.Wait()
}

func (h *Health) NewBestBlock(id cosmic.Bytes32, num uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if id == h.bestBlockID {
		return
	}
	h.newBestBlock = time.Now()
	h.bestBlockID = id
	h.bestBlockNum = num
}

// Status reports unhealthy once no block arrived for longer than maxTimeBetweenBlocks plus a buffer.
// A zero maxTimeBetweenBlocks means the configured block interval.
func (h *Health) Status(maxTimeBetweenBlocks time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	if maxTimeBetweenBlocks == 0 {
		maxTimeBetweenBlocks = h.blockInterval
	}
	ingested := h.newBestBlock
	return &Status{
		Healthy: !ingested.IsZero() && time.Since(ingested) <= maxTimeBetweenBlocks+delayBuffer,
		BlockIngestion: &BlockIngestion{
			ID:        h.bestBlockID,
			Number:    h.bestBlockNum,
			Timestamp: &ingested,
		},
	}
}
