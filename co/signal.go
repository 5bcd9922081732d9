// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides goroutine coordination helpers.
package co

import (
	"sync"
)

// Waiter provides the channel to wait on.
// A value read from the channel means a single wake-up (true) or a broadcast (false, channel closed).
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel based rendezvous point, usable in select statements.
// The zero value is ready to use.
type Signal struct {
	l   sync.Mutex
	ch  chan bool
	seq uint64
}

func (s *Signal) init() {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
}

// Signal wakes one goroutine that is waiting on s.
func (s *Signal) Signal() {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	select {
	case s.ch <- true:
	default:
	}
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	close(s.ch)
	s.ch = make(chan bool, 1)
	s.seq++
}

// Broadcasts returns the number of broadcasts so far.
func (s *Signal) Broadcasts() uint64 {
	s.l.Lock()
	defer s.l.Unlock()
	return s.seq
}

var closedCh = func() chan bool {
	ch := make(chan bool)
	close(ch)
	return ch
}()

// NewWaiter creates a Waiter. A broadcast made since the previous call of C fires immediately,
// unless it closed the channel that call returned.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	s.init()
	last := s.seq
	s.l.Unlock()

	var returned bool
	return waiterFunc(func() <-chan bool {
		s.l.Lock()
		defer s.l.Unlock()

		s.init()
		if s.seq != last && !(returned && s.seq == last+1) {
			last = s.seq
			returned = false
			return closedCh
		}
		last = s.seq
		returned = true
		return s.ch
	})
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
