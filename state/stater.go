// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"

	"github.com/qianbin/directcache"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/kv"
)

const (
	// BalanceBucket is the kv bucket of account balances.
	BalanceBucket = kv.Bucket("b")
	// StorageBucket is the kv bucket of contract storage.
	StorageBucket = kv.Bucket("s")

	cacheSizeBytes = 16 * 1024 * 1024
)

// Stater is the state creator.
type Stater struct {
	db    kv.Store
	cache *directcache.Cache // committed values, see cacheEntry
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	return &Stater{db, directcache.New(cacheSizeBytes)}
}

// NewState create a new state object.
func (s *Stater) NewState(root cosmic.Bytes32) *State {
	return New(s, root)
}

// load reads the committed value of key, through the cache.
func (s *Stater) load(key stateKey) ([]byte, error) {
	ck := key.cacheKey()
	var val []byte
	if s.cache.AdvGet(ck, func(entry []byte) {
		val = slices.Clone(entry[1:])
	}, false) {
		metricStateReadCount().AddWithLabel(1, map[string]string{"source": "cache"})
		return val, nil
	}
	metricStateReadCount().AddWithLabel(1, map[string]string{"source": "db"})

	val, err := key.bucket().NewGetter(s.db).Get(key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, err
		}
		val = nil
	}
	s.cache.Set(ck, cacheEntry(val))
	return val, nil
}

// remember updates the cached value of a committed key.
func (s *Stater) remember(key stateKey, val []byte) {
	s.cache.Set(key.cacheKey(), cacheEntry(val))
}

// cacheEntry prefixes val with a marker byte, so absent keys are cached as non-empty entries.
func cacheEntry(val []byte) []byte {
	return append([]byte{1}, val...)
}
