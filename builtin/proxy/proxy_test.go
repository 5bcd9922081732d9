// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/lvldb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

type impl struct {
	version uint64
	migrate func(env *xenv.Environment) error
}

func (i impl) Version() uint64 { return i.version }

func (i impl) Migrate(env *xenv.Environment) error {
	if i.migrate == nil {
		return nil
	}
	return i.migrate(env)
}

var (
	proxyAddr = cosmic.BytesToAddress([]byte("proxy"))
	owner     = cosmic.BytesToAddress([]byte("owner"))
	stranger  = cosmic.BytesToAddress([]byte("stranger"))
)

func newProxy(t *testing.T, impls ...Implementation) (*state.State, *Proxy) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewStater(db).NewState(cosmic.Bytes32{})

	registry, err := NewRegistry(impls...)
	require.NoError(t, err)
	p := New(proxyAddr, st, registry)
	require.NoError(t, p.Init(owner, 1))
	return st, p
}

func upgrade(t *testing.T, st *state.State, p *Proxy, caller cosmic.Address, version uint64) error {
	receipt, err := runtime.New(st, &xenv.BlockContext{Time: 1}, nil).Execute(caller, proxyAddr, nil, func(env *xenv.Environment) error {
		return p.Upgrade(env, version)
	})
	require.NoError(t, err)
	if receipt.Err == nil {
		assert.Len(t, receipt.Events, 1)
		assert.Equal(t, upgradedEvent.ID(), receipt.Events[0].Topics[0])
	}
	return receipt.Err
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(impl{version: 3}, impl{version: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, r.Versions())

	assert.Error(t, r.Register(impl{version: 3}))
	_, err = NewRegistry(impl{version: 2}, impl{version: 2})
	assert.Error(t, err)

	_, ok := r.Get(2)
	assert.False(t, ok)
}

func TestInit(t *testing.T) {
	_, p := newProxy(t, impl{version: 1})

	v, err := p.Version()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	o, err := p.Ownable().Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, o)

	got, err := p.Implementation()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Version())

	db, _ := lvldb.NewMem()
	unknown := New(proxyAddr, state.NewStater(db).NewState(cosmic.Bytes32{}), p.registry)
	assert.Error(t, unknown.Init(owner, 9))
}

func TestUpgrade(t *testing.T) {
	marker := solidity.Slot("proxy.test.migrated")
	migrated := impl{version: 2, migrate: func(env *xenv.Environment) error {
		env.State().SetStorage(env.To(), marker, cosmic.BytesToBytes32([]byte{1}))
		return nil
	}}
	failing := impl{version: 3, migrate: func(*xenv.Environment) error {
		return reverts.New(reverts.InvalidVersion, "not yet")
	}}
	st, p := newProxy(t, impl{version: 1}, migrated, failing, impl{version: 5})

	assert.True(t, reverts.Is(upgrade(t, st, p, stranger, 2), reverts.OwnableUnauthorizedAccount))
	assert.True(t, reverts.Is(upgrade(t, st, p, owner, 4), reverts.UnknownImplementation))
	assert.True(t, reverts.Is(upgrade(t, st, p, owner, 1), reverts.InvalidVersion))

	require.NoError(t, upgrade(t, st, p, owner, 2))
	v, _ := p.Version()
	assert.Equal(t, uint64(2), v)
	stored, err := st.GetStorage(proxyAddr, marker)
	require.NoError(t, err)
	assert.Equal(t, cosmic.BytesToBytes32([]byte{1}), stored)

	err = upgrade(t, st, p, owner, 3)
	assert.True(t, reverts.Is(err, reverts.InvalidVersion))
	v, _ = p.Version()
	assert.Equal(t, uint64(2), v, "failed migration leaves the version")

	require.NoError(t, upgrade(t, st, p, owner, 5))
	v, _ = p.Version()
	assert.Equal(t, uint64(5), v)
}

func TestImplementationNotRegistered(t *testing.T) {
	_, p := newProxy(t, impl{version: 1})
	p.registry = &Registry{impls: map[uint64]Implementation{}}
	_, err := p.Implementation()
	assert.True(t, reverts.Is(err, reverts.UnknownImplementation))
}
