// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/kv"
)

type change struct {
	key stateKey
	val []byte
}

// Stage abstracts changes made on a state.
type Stage struct {
	stater  *Stater
	parent  cosmic.Bytes32
	changes []change
}

func newStage(stater *Stater, parent cosmic.Bytes32, changes map[stateKey][]byte) *Stage {
	sorted := make([]change, 0, len(changes))
	for k, v := range changes {
		sorted = append(sorted, change{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].key, sorted[j].key
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if c := bytes.Compare(a.addr[:], b.addr[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(a.key[:], b.key[:]) < 0
	})
	return &Stage{stater, parent, sorted}
}

// Len returns the number of changed entries.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the root of the staged change set, chained on the parent root.
func (s *Stage) Hash() cosmic.Bytes32 {
	return cosmic.Blake2bFn(func(w io.Writer) {
		var lenBuf [4]byte
		w.Write(s.parent[:])
		for _, c := range s.changes {
			w.Write([]byte{byte(c.key.kind)})
			w.Write(c.key.dbKey())
			binary.BigEndian.PutUint32(lenBuf[:], uint32(len(c.val)))
			w.Write(lenBuf[:])
			w.Write(c.val)
		}
	})
}

// Commit writes all changes into the putter, and returns the new root.
// Empty values are deleted.
func (s *Stage) Commit(putter kv.Putter) (cosmic.Bytes32, error) {
	for _, c := range s.changes {
		p := c.key.bucket().NewPutter(putter)
		var err error
		if len(c.val) == 0 {
			err = p.Delete(c.key.dbKey())
		} else {
			err = p.Put(c.key.dbKey(), c.val)
		}
		if err != nil {
			return cosmic.Bytes32{}, errors.Wrap(err, "commit state")
		}
	}
	for _, c := range s.changes {
		s.stater.remember(c.key, c.val)
	}
	return s.Hash(), nil
}
