// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/xenv"
)

// Header contains almost all information about a block, except its receipts.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		signingHash atomic.Value
		signer      atomic.Value
		id          atomic.Value
	}
}

// headerBody body of header
type headerBody struct {
	ParentID  cosmic.Bytes32
	Timestamp uint64

	StateRoot    cosmic.Bytes32
	ReceiptsRoot cosmic.Bytes32

	// VRF output over the parent beacon and the block number, and its proof
	Beacon cosmic.Bytes32
	Proof  []byte

	Signature []byte
}

// ParentID returns id of parent block.
func (h *Header) ParentID() cosmic.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent id
	return Number(h.body.ParentID) + 1
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// StateRoot returns the state root just after this block being applied.
func (h *Header) StateRoot() cosmic.Bytes32 {
	return h.body.StateRoot
}

// ReceiptsRoot returns root hash of tx receipts.
func (h *Header) ReceiptsRoot() cosmic.Bytes32 {
	return h.body.ReceiptsRoot
}

// Beacon returns the random beacon of the block.
func (h *Header) Beacon() cosmic.Bytes32 {
	return h.body.Beacon
}

// Proof returns the VRF proof of the beacon.
func (h *Header) Proof() []byte {
	return append([]byte(nil), h.body.Proof...)
}

// ID computes id of block.
// The block ID is defined as: blockNumber + hash(signingHash, signer)[4:].
func (h *Header) ID() (id cosmic.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return cached.(cosmic.Bytes32)
	}
	defer func() {
		// overwrite first 4 bytes of block hash to block number.
		binary.BigEndian.PutUint32(id[:], h.Number())
		h.cache.id.Store(id)
	}()

	signer, err := h.Signer()
	if err != nil {
		return
	}

	hw := cosmic.NewBlake2b()
	hw.Write(h.SigningHash().Bytes())
	hw.Write(signer.Bytes())
	hw.Sum(id[:0])

	return
}

// SigningHash computes hash of all header fields excluding signature.
func (h *Header) SigningHash() (hash cosmic.Bytes32) {
	if cached := h.cache.signingHash.Load(); cached != nil {
		return cached.(cosmic.Bytes32)
	}
	defer func() { h.cache.signingHash.Store(hash) }()

	hw := cosmic.NewBlake2b()
	rlp.Encode(hw, []any{
		h.body.ParentID,
		h.body.Timestamp,

		h.body.StateRoot,
		h.body.ReceiptsRoot,

		h.body.Beacon,
		h.body.Proof,
	})
	hw.Sum(hash[:0])
	return
}

// Signature returns signature.
func (h *Header) Signature() []byte {
	return append([]byte(nil), h.body.Signature...)
}

// withSignature create a new Header object with signature set.
func (h *Header) withSignature(sig []byte) *Header {
	cpy := Header{body: h.body}
	cpy.body.Signature = append([]byte(nil), sig...)
	return &cpy
}

// Signer extract signer of the block from signature.
func (h *Header) Signer() (signer cosmic.Address, err error) {
	if h.Number() == 0 {
		// special case for genesis block
		return cosmic.Address{}, nil
	}

	if cached := h.cache.signer.Load(); cached != nil {
		return cached.(cosmic.Address), nil
	}
	defer func() {
		if err == nil {
			h.cache.signer.Store(signer)
		}
	}()

	pub, err := crypto.SigToPub(h.SigningHash().Bytes(), h.body.Signature)
	if err != nil {
		return cosmic.Address{}, err
	}

	signer = cosmic.Address(crypto.PubkeyToAddress(*pub))
	return
}

// Context returns the execution context of transactions in this block.
func (h *Header) Context() *xenv.BlockContext {
	return &xenv.BlockContext{
		ID:     h.ID(),
		Number: h.Number(),
		Time:   h.body.Timestamp,
		Beacon: h.body.Beacon,
	}
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody

	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	var signerStr string
	if signer, err := h.Signer(); err != nil {
		signerStr = "N/A"
	} else {
		signerStr = signer.String()
	}

	return fmt.Sprintf(`Header(%v):
	Number:			%v
	ParentID:		%v
	Timestamp:		%v
	Signer:			%v
	StateRoot:		%v
	ReceiptsRoot:	%v
	Beacon:			%v
	Signature:		0x%x`, h.ID(), h.Number(), h.body.ParentID, h.body.Timestamp, signerStr,
		h.body.StateRoot, h.body.ReceiptsRoot, h.body.Beacon, h.body.Signature)
}

// Number extract block number from block id.
func Number(blockID cosmic.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}

// GenesisParentID is the parent id of the genesis block, whose number wraps to zero.
func GenesisParentID() (id cosmic.Bytes32) {
	binary.BigEndian.PutUint32(id[:], math.MaxUint32)
	return
}
