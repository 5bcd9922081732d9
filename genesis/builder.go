// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	origin cosmic.Address
	to     cosmic.Address
	method string
	fn     func(state *state.State, env *xenv.Environment) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call, executed after all state processes.
func (b *Builder) Call(origin, to cosmic.Address, method string, fn func(state *state.State, env *xenv.Environment) error) *Builder {
	b.calls = append(b.calls, call{origin, to, method, fn})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (cosmic.Bytes32, error) {
	header, _, err := b.Build()
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	return header.ID(), nil
}

// Build builds the genesis header and the state change set it commits to.
// The state is computed on a scratch store, so the result does not depend on any existing data.
func (b *Builder) Build() (*block.Header, *state.Stage, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	st := state.NewStater(db).NewState(cosmic.Bytes32{})

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	beacon := block.GenesisBeacon(b.timestamp)
	rt := runtime.New(st, &xenv.BlockContext{Time: b.timestamp, Beacon: beacon}, builtin.Receivers(st))
	for _, c := range b.calls {
		fn := c.fn
		receipt, err := rt.ExecuteTransaction(&runtime.Transaction{
			Origin: c.origin,
			To:     c.to,
			Method: c.method,
			Fn:     func(env *xenv.Environment) error { return fn(st, env) },
		})
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "call %s", c.method)
		}
		if receipt.Reverted {
			return nil, nil, errors.WithMessagef(receipt.Err, "call %s", c.method)
		}
	}

	stage := st.Stage()
	return new(block.Builder).
		ParentID(block.GenesisParentID()).
		Timestamp(b.timestamp).
		StateRoot(stage.Hash()).
		Beacon(beacon, nil).
		Build(), stage, nil
}
