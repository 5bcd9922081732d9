// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"fmt"
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmicsignature/engine/cosmic"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 cosmic.Bytes32
	event              ethabi.Event
	indexed            ethabi.Arguments
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event ethabi.Event) *Event {
	var indexed, argsWithoutIndexed ethabi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		} else {
			argsWithoutIndexed = append(argsWithoutIndexed, arg)
		}
	}
	return &Event{
		cosmic.Bytes32(event.ID),
		event,
		indexed,
		argsWithoutIndexed,
	}
}

// ID returns event id.
func (e *Event) ID() cosmic.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Signature returns the canonical event signature.
func (e *Event) Signature() string {
	return e.event.Sig
}

// Encode encodes args, in declaration order, to topics and data.
// The first topic is the event id.
func (e *Event) Encode(args ...any) ([]cosmic.Bytes32, []byte, error) {
	if len(args) != len(e.event.Inputs) {
		return nil, nil, fmt.Errorf("abi: event %v expects %d args, got %d", e.event.Name, len(e.event.Inputs), len(args))
	}

	topics := []cosmic.Bytes32{e.id}
	var plain []any
	for i, arg := range e.event.Inputs {
		v := normalize(arg.Type, args[i])
		if !arg.Indexed {
			plain = append(plain, v)
			continue
		}
		t, err := ethabi.MakeTopics([]any{v})
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, cosmic.Bytes32(t[0][0]))
	}
	data, err := e.argsWithoutIndexed.Pack(plain...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// Decode decodes event data.
func (e *Event) Decode(data []byte, v any) error {
	return e.argsWithoutIndexed.UnpackIntoInterface(v, data)
}

// DecodeMap decodes both topics and data into a map keyed by argument name.
func (e *Event) DecodeMap(topics []cosmic.Bytes32, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := e.argsWithoutIndexed.UnpackIntoMap(out, data); err != nil {
		return nil, err
	}
	if len(topics) > 0 && len(e.indexed) > 0 {
		hashes := make([]common.Hash, 0, len(topics)-1)
		for _, t := range topics[1:] {
			hashes = append(hashes, common.Hash(t))
		}
		if err := ethabi.ParseTopicsIntoMap(out, e.indexed, hashes); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// normalize converts ledger types into the go types expected by the abi packer.
func normalize(t ethabi.Type, v any) any {
	switch val := v.(type) {
	case cosmic.Address:
		return common.Address(val)
	case cosmic.Bytes32:
		return [32]byte(val)
	case uint64:
		if t.Size > 64 {
			return new(big.Int).SetUint64(val)
		}
	case int64:
		if t.Size > 64 {
			return big.NewInt(val)
		}
	case int:
		if t.Size > 64 {
			return big.NewInt(int64(val))
		}
	}
	return v
}
