// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vechain/go-ecvrf"

	"github.com/cosmicsignature/engine/cosmic"
)

var (
	errInvalidBeacon = errors.New("beacon mismatch")
	errInvalidSigner = errors.New("signer mismatch")
)

// Alpha is the VRF input of the beacon of block number.
func Alpha(parentBeacon cosmic.Bytes32, number uint32) []byte {
	alpha := make([]byte, 0, 36)
	alpha = append(alpha, parentBeacon[:]...)
	return binary.BigEndian.AppendUint32(alpha, number)
}

// ProveBeacon computes the beacon of block number and its proof.
func ProveBeacon(sk *ecdsa.PrivateKey, parentBeacon cosmic.Bytes32, number uint32) (cosmic.Bytes32, []byte, error) {
	beta, pi, err := ecvrf.NewSecp256k1Sha256Tai().Prove(sk, Alpha(parentBeacon, number))
	if err != nil {
		return cosmic.Bytes32{}, nil, errors.Wrap(err, "prove beacon")
	}
	return cosmic.BytesToBytes32(beta), pi, nil
}

// GenesisBeacon is the beacon of the genesis block, which carries no proof.
func GenesisBeacon(timestamp uint64) cosmic.Bytes32 {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], timestamp)
	return cosmic.Keccak256([]byte("cosmic-signature genesis"), ts[:])
}

// VerifyBeacon checks that the header is produced by pub and its beacon follows parentBeacon.
func (h *Header) VerifyBeacon(parentBeacon cosmic.Bytes32, pub *ecdsa.PublicKey) error {
	signer, err := h.Signer()
	if err != nil {
		return errors.Wrap(err, "recover signer")
	}
	if signer != cosmic.Address(crypto.PubkeyToAddress(*pub)) {
		return errInvalidSigner
	}

	beta, err := ecvrf.NewSecp256k1Sha256Tai().Verify(pub, Alpha(parentBeacon, h.Number()), h.body.Proof)
	if err != nil {
		return errors.Wrap(err, "verify beacon proof")
	}
	if !bytes.Equal(beta, h.body.Beacon[:]) {
		return errInvalidBeacon
	}
	return nil
}
