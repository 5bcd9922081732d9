// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proxy implements the upgradeable handle of the game.
//
// The handle is a stable address whose storage outlives implementation
// upgrades. It records the version of the logic in force; an upgrade runs the
// migration of the new version against the handle's storage.
package proxy

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/abi"
	"github.com/cosmicsignature/engine/builtin/access"
	"github.com/cosmicsignature/engine/builtin/gen"
	"github.com/cosmicsignature/engine/builtin/reverts"
	"github.com/cosmicsignature/engine/builtin/solidity"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "proxy")

var (
	ABI = abi.MustNew(gen.MustAsset("compiled/Proxy.abi"))

	upgradedEvent             = ABI.MustEventByName("Upgraded")
	ownershipTransferredEvent = ABI.MustEventByName("OwnershipTransferred")
)

var versionSlot = solidity.Slot("proxy.version")

// Implementation is a version of the logic behind a handle.
type Implementation interface {
	Version() uint64
	// Migrate adapts the handle's storage, written by earlier versions, for this version.
	Migrate(env *xenv.Environment) error
}

// Registry is the set of known implementations.
type Registry struct {
	lock  sync.RWMutex
	impls map[uint64]Implementation
}

func NewRegistry(impls ...Implementation) (*Registry, error) {
	r := &Registry{impls: make(map[uint64]Implementation)}
	for _, impl := range impls {
		if err := r.Register(impl); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds impl. Versions are unique.
func (r *Registry) Register(impl Implementation) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.impls[impl.Version()]; ok {
		return errors.Errorf("implementation version %d already registered", impl.Version())
	}
	r.impls[impl.Version()] = impl
	return nil
}

// Get returns the implementation of version.
func (r *Registry) Get(version uint64) (Implementation, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	impl, ok := r.impls[version]
	return impl, ok
}

// Versions lists the registered versions in ascending order.
func (r *Registry) Versions() []uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()

	versions := make([]uint64, 0, len(r.impls))
	for v := range r.impls {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// Proxy is the handle bound to its address.
type Proxy struct {
	addr     cosmic.Address
	registry *Registry
	ownable  *access.Ownable
	version  *solidity.Uint64
}

func New(addr cosmic.Address, state *state.State, registry *Registry) *Proxy {
	ctx := solidity.NewContext(addr, state)
	return &Proxy{
		addr:     addr,
		registry: registry,
		ownable:  access.NewOwnable(ctx, ownershipTransferredEvent),
		version:  solidity.NewUint64(ctx, versionSlot),
	}
}

// Init points the handle to its first version. Genesis only.
func (p *Proxy) Init(owner cosmic.Address, version uint64) error {
	if _, ok := p.registry.Get(version); !ok {
		return errors.Errorf("unknown implementation version %d", version)
	}
	p.ownable.Init(owner)
	p.version.Set(version)
	return nil
}

func (p *Proxy) Address() cosmic.Address  { return p.addr }
func (p *Proxy) Ownable() *access.Ownable { return p.ownable }

func (p *Proxy) Version() (uint64, error) {
	return p.version.Get()
}

// Implementation resolves the implementation in force.
func (p *Proxy) Implementation() (Implementation, error) {
	version, err := p.version.Get()
	if err != nil {
		return nil, err
	}
	impl, ok := p.registry.Get(version)
	if !ok {
		return nil, reverts.New(reverts.UnknownImplementation, "The implementation is not registered.", version)
	}
	return impl, nil
}

// Upgrade switches the handle to version, running its migration. Owner only.
func (p *Proxy) Upgrade(env *xenv.Environment, version uint64) error {
	if err := p.ownable.OnlyOwner(env); err != nil {
		return err
	}
	impl, ok := p.registry.Get(version)
	if !ok {
		return reverts.New(reverts.UnknownImplementation, "The implementation is not registered.", version)
	}
	current, err := p.version.Get()
	if err != nil {
		return err
	}
	if version <= current {
		return reverts.New(reverts.InvalidVersion, "The new version must be greater than the current one.", current, version)
	}
	if err := impl.Migrate(env); err != nil {
		return err
	}
	p.version.Set(version)
	env.Log(upgradedEvent, version)
	logger.Info("implementation upgraded", "address", p.addr, "from", current, "to", version)
	return nil
}
