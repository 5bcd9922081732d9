// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes tracks a group of goroutines.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Loop runs f every time w fires until ctx is done.
func (g *Goes) Loop(ctx context.Context, w Waiter, f func()) {
	g.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.C():
				f()
			}
		}
	})
}

// Wait waits for all goroutines started by Go.
func (g *Goes) Wait() {
	g.wg.Wait()
}
