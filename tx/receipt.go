// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmicsignature/engine/cosmic"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// id of the transaction
	TxID cosmic.Bytes32
	// name of the invoked operation
	Method string
	// sender and callee of the transaction
	Origin cosmic.Address
	To     cosmic.Address
	Value  *big.Int
	// whether the transaction was reverted
	Reverted bool
	// abi-encoded revert reason, empty if not reverted
	Output []byte
	// events and transfers produced, empty if reverted
	Events    Events
	Transfers Transfers

	// Err is the revert cause, not persisted.
	Err error `rlp:"-"`
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes root hash of receipts.
func (rs Receipts) RootHash() cosmic.Bytes32 {
	return cosmic.Blake2bFn(func(w io.Writer) {
		for _, r := range rs {
			rlp.Encode(w, r)
		}
	})
}
