// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/cosmic"
)

// Builder to make it easy to build a block header.
type Builder struct {
	body headerBody
}

// ParentID set parent id.
func (b *Builder) ParentID(id cosmic.Bytes32) *Builder {
	b.body.ParentID = id
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.body.Timestamp = ts
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(root cosmic.Bytes32) *Builder {
	b.body.StateRoot = root
	return b
}

// ReceiptsRoot set receipts root.
func (b *Builder) ReceiptsRoot(root cosmic.Bytes32) *Builder {
	b.body.ReceiptsRoot = root
	return b
}

// Beacon set the random beacon and its proof.
func (b *Builder) Beacon(beacon cosmic.Bytes32, proof []byte) *Builder {
	b.body.Beacon = beacon
	b.body.Proof = append([]byte(nil), proof...)
	return b
}

// Build build an unsigned header.
func (b *Builder) Build() *Header {
	return &Header{body: b.body}
}

// Seal proves the beacon of the block on parentBeacon and signs the header with sk.
func (b *Builder) Seal(parentBeacon cosmic.Bytes32, sk *ecdsa.PrivateKey) (*Header, error) {
	number := Number(b.body.ParentID) + 1
	beacon, proof, err := ProveBeacon(sk, parentBeacon, number)
	if err != nil {
		return nil, err
	}
	h := b.Beacon(beacon, proof).Build()

	sig, err := crypto.Sign(h.SigningHash().Bytes(), sk)
	if err != nil {
		return nil, errors.Wrap(err, "sign header")
	}
	return h.withSignature(sig), nil
}
