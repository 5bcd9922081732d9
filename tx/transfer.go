// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/cosmicsignature/engine/cosmic"
)

// Transfer ETH transfer log.
type Transfer struct {
	Sender    cosmic.Address
	Recipient cosmic.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer
