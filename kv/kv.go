// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv is the key-value surface the chain and the state persist through.
package kv

type Getter interface {
	// Get fails for a missing key, with an error matching IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

type GetPutter interface {
	Getter
	Putter
}

// Batch collects writes applied together by Write.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Store is a closable GetPutter that writes in batches.
type Store interface {
	GetPutter
	NewBatch() Batch
	Close() error
}
