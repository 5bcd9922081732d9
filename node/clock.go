// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"sync"
	"time"
)

// Clock tells the timestamp of the next block.
type Clock interface {
	Now() uint64
}

// SystemClock follows the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// ManualClock only moves when told to.
type ManualClock struct {
	lock sync.Mutex
	now  uint64
}

func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *ManualClock) Set(now uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

// Advance moves the clock forward by d seconds and returns the new time.
func (c *ManualClock) Advance(d uint64) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now += d
	return c.now
}
