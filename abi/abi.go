// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/cosmicsignature/engine/cosmic"
)

// ABI holds information about events of contract.
type ABI struct {
	nameToEvent map[string]*Event
	events      map[cosmic.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToEvent: make(map[string]*Event),
		events:      make(map[cosmic.Bytes32]*Event),
	}
	for _, ethEvent := range parsed.Events {
		event := newEvent(ethEvent)
		abi.events[event.id] = event
		abi.nameToEvent[ethEvent.Name] = event
	}
	return abi, nil
}

// MustNew is like New but panics on error.
func MustNew(data []byte) *ABI {
	abi, err := New(data)
	if err != nil {
		panic(err)
	}
	return abi
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// MustEventByName is like EventByName but panics if not found.
func (a *ABI) MustEventByName(name string) *Event {
	e, found := a.nameToEvent[name]
	if !found {
		panic("abi: event not found: " + name)
	}
	return e
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id cosmic.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// Events returns all events.
func (a *ABI) Events() []*Event {
	events := make([]*Event, 0, len(a.events))
	for _, e := range a.events {
		events = append(events, e)
	}
	return events
}

// UnpackRevert resolves the abi-encoded revert reason.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
