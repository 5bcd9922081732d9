// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix carving a namespace out of a store.
type Bucket string

// Key returns key prefixed by the bucket, in a new slice.
func (b Bucket) Key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewGetter reads src within the bucket.
func (b Bucket) NewGetter(src Getter) Getter { return bucketGetter{b, src} }

// NewPutter writes src within the bucket.
func (b Bucket) NewPutter(src Putter) Putter { return bucketPutter{b, src} }

type bucketGetter struct {
	bucket Bucket
	src    Getter
}

func (g bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.bucket.Key(key)) }
func (g bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.bucket.Key(key)) }
func (g bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	bucket Bucket
	src    Putter
}

func (p bucketPutter) Put(key, val []byte) error { return p.src.Put(p.bucket.Key(key), val) }
func (p bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.bucket.Key(key)) }
