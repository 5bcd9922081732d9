// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockID     cosmic.Bytes32
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	TxID        cosmic.Bytes32
	TxOrigin    cosmic.Address
	Method      string
	Address     cosmic.Address // always a contract address
	Topics      [5]*cosmic.Bytes32
	Data        []byte
}

// newEvent converts tx.Event to Event.
func newEvent(header *block.Header, index uint32, receipt *tx.Receipt, txEvent *tx.Event) *Event {
	ev := &Event{
		BlockID:     header.ID(),
		Index:       index,
		BlockNumber: header.Number(),
		BlockTime:   header.Timestamp(),
		TxID:        receipt.TxID,
		TxOrigin:    receipt.Origin,
		Method:      receipt.Method,
		Address:     txEvent.Address,
		Data:        txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	BlockID     cosmic.Bytes32
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	TxID        cosmic.Bytes32
	TxOrigin    cosmic.Address
	Sender      cosmic.Address
	Recipient   cosmic.Address
	Amount      *big.Int
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(header *block.Header, index uint32, receipt *tx.Receipt, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		BlockID:     header.ID(),
		Index:       index,
		BlockNumber: header.Number(),
		BlockTime:   header.Timestamp(),
		TxID:        receipt.TxID,
		TxOrigin:    receipt.Origin,
		Sender:      transfer.Sender,
		Recipient:   transfer.Recipient,
		Amount:      transfer.Amount,
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *cosmic.Address // always a contract address
	Topics  [5]*cosmic.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *cosmic.Address // who sent the transaction
	Sender    *cosmic.Address
	Recipient *cosmic.Address
}

type TransferFilter struct {
	TxID        *cosmic.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
