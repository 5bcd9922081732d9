// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/kv"
	"github.com/cosmicsignature/engine/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

type keyKind byte

const (
	balanceKind keyKind = iota + 1
	storageKind
)

type stateKey struct {
	kind keyKind
	addr cosmic.Address
	key  cosmic.Bytes32
}

func (k stateKey) bucket() kv.Bucket {
	if k.kind == balanceKind {
		return BalanceBucket
	}
	return StorageBucket
}

func (k stateKey) dbKey() []byte {
	if k.kind == balanceKind {
		return k.addr.Bytes()
	}
	return append(k.addr.Bytes(), k.key[:]...)
}

func (k stateKey) cacheKey() []byte {
	return k.bucket().Key(k.dbKey())
}

// State manages balances and contract storage.
type State struct {
	stater *Stater
	root   cosmic.Bytes32
	sm     *stackedmap.StackedMap[stateKey, []byte]
}

// New create state object.
func New(stater *Stater, root cosmic.Bytes32) *State {
	return &State{
		stater: stater,
		root:   root,
		sm: stackedmap.New(func(key stateKey) ([]byte, bool, error) {
			v, err := stater.load(key)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}),
	}
}

// Root returns the root the state was created on.
func (s *State) Root() cosmic.Bytes32 {
	return s.root
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr cosmic.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(stateKey{kind: balanceKind, addr: addr})
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).SetBytes(v), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr cosmic.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance %v for %v", balance, addr)}
	}
	s.sm.Put(stateKey{kind: balanceKind, addr: addr}, balance.Bytes())
	return nil
}

// AddBalance adds amount to the balance of the given address.
func (s *State) AddBalance(addr cosmic.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr cosmic.Address, key cosmic.Bytes32) (cosmic.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	if len(raw) == 0 {
		return cosmic.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return cosmic.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return cosmic.Blake2b(raw), nil
	}
	return cosmic.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr cosmic.Address, key, value cosmic.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr cosmic.Address, key cosmic.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(stateKey{storageKind, addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr cosmic.Address, key cosmic.Bytes32, raw rlp.RawValue) {
	s.sm.Put(stateKey{storageKind, addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr cosmic.Address, key cosmic.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr cosmic.Address, key cosmic.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute hash of the change set or commit it.
func (s *State) Stage() *Stage {
	changes := make(map[stateKey][]byte)
	s.sm.Journal(func(k stateKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return newStage(s.stater, s.root, changes)
}
