// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/kv"
	"github.com/cosmicsignature/engine/tx"
)

const (
	hdrBucket     = kv.Bucket("chain.hdr")     // for block headers
	receiptBucket = kv.Bucket("chain.receipt") // for receipts of a block
	numBucket     = kv.Bucket("chain.num")     // block number to id
	propBucket    = kv.Bucket("chain.props")   // for property-named blocks such as best block
)

var bestBlockIDKey = []byte("best-block-id")

func numberKey(n uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], n)
	return k[:]
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

// saveBlock writes the header, its receipts and the number index, and marks it best.
func saveBlock(w kv.Putter, header *block.Header, receipts tx.Receipts) error {
	id := header.ID()
	if err := saveRLP(hdrBucket.NewPutter(w), id[:], header); err != nil {
		return err
	}
	if err := saveRLP(receiptBucket.NewPutter(w), id[:], receipts); err != nil {
		return err
	}
	if err := numBucket.NewPutter(w).Put(numberKey(header.Number()), id[:]); err != nil {
		return err
	}
	return propBucket.NewPutter(w).Put(bestBlockIDKey, id[:])
}

func loadHeader(r kv.Getter, id cosmic.Bytes32) (*block.Header, error) {
	var header block.Header
	if err := loadRLP(hdrBucket.NewGetter(r), id[:], &header); err != nil {
		return nil, err
	}
	return &header, nil
}

func loadReceipts(r kv.Getter, id cosmic.Bytes32) (tx.Receipts, error) {
	var receipts tx.Receipts
	if err := loadRLP(receiptBucket.NewGetter(r), id[:], &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

func loadBlockID(r kv.Getter, n uint32) (cosmic.Bytes32, error) {
	data, err := numBucket.NewGetter(r).Get(numberKey(n))
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	return cosmic.BytesToBytes32(data), nil
}

func loadBestBlockID(r kv.Getter) (cosmic.Bytes32, error) {
	data, err := propBucket.NewGetter(r).Get(bestBlockIDKey)
	if err != nil {
		return cosmic.Bytes32{}, err
	}
	return cosmic.BytesToBytes32(data), nil
}
