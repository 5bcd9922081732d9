// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/cosmicsignature/engine/api/events"
	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
)

type BlockMessage struct {
	Number       uint32           `json:"number"`
	ID           cosmic.Bytes32   `json:"id"`
	ParentID     cosmic.Bytes32   `json:"parentID"`
	Timestamp    uint64           `json:"timestamp"`
	StateRoot    cosmic.Bytes32   `json:"stateRoot"`
	ReceiptsRoot cosmic.Bytes32   `json:"receiptsRoot"`
	Beacon       cosmic.Bytes32   `json:"beacon"`
	Signer       cosmic.Address   `json:"signer"`
	Transactions []cosmic.Bytes32 `json:"transactions"`
}

func convertBlock(header *block.Header, receipts tx.Receipts) (*BlockMessage, error) {
	signer, err := header.Signer()
	if err != nil {
		return nil, err
	}
	txIDs := make([]cosmic.Bytes32, len(receipts))
	for i, r := range receipts {
		txIDs[i] = r.TxID
	}
	return &BlockMessage{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		Beacon:       header.Beacon(),
		Signer:       signer,
		Transactions: txIDs,
	}, nil
}

type LogMeta struct {
	BlockID        cosmic.Bytes32 `json:"blockID"`
	BlockNumber    uint32         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	TxID           cosmic.Bytes32 `json:"txID"`
	TxOrigin       cosmic.Address `json:"txOrigin"`
	Method         string         `json:"method"`
}

func newLogMeta(header *block.Header, receipt *tx.Receipt) LogMeta {
	return LogMeta{
		BlockID:        header.ID(),
		BlockNumber:    header.Number(),
		BlockTimestamp: header.Timestamp(),
		TxID:           receipt.TxID,
		TxOrigin:       receipt.Origin,
		Method:         receipt.Method,
	}
}

type EventMessage struct {
	Address cosmic.Address   `json:"address"`
	Topics  []cosmic.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Decoded *events.Decoded  `json:"decoded,omitempty"`
	Meta    LogMeta          `json:"meta"`
}

func convertEvent(header *block.Header, receipt *tx.Receipt, event *tx.Event) *EventMessage {
	return &EventMessage{
		Address: event.Address,
		Topics:  event.Topics,
		Data:    hexutil.Encode(event.Data),
		Decoded: events.Decode(event.Address, event.Topics, event.Data),
		Meta:    newLogMeta(header, receipt),
	}
}

type TransferMessage struct {
	Sender    cosmic.Address        `json:"sender"`
	Recipient cosmic.Address        `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta               `json:"meta"`
}

func convertTransfer(header *block.Header, receipt *tx.Receipt, transfer *tx.Transfer) *TransferMessage {
	v := math.HexOrDecimal256(*transfer.Amount)
	return &TransferMessage{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    &v,
		Meta:      newLogMeta(header, receipt),
	}
}

// EventFilter contains options for contract event filtering.
type EventFilter struct {
	Address *cosmic.Address // restricts matches to events created by specific contracts
	Topic0  *cosmic.Bytes32
	Topic1  *cosmic.Bytes32
	Topic2  *cosmic.Bytes32
	Topic3  *cosmic.Bytes32
	Topic4  *cosmic.Bytes32
}

func (ef *EventFilter) Match(event *tx.Event) bool {
	if (ef.Address != nil) && (*ef.Address != event.Address) {
		return false
	}

	matchTopic := func(topic *cosmic.Bytes32, index int) bool {
		if topic != nil {
			if len(event.Topics) <= index {
				return false
			}

			if *topic != event.Topics[index] {
				return false
			}
		}
		return true
	}

	return matchTopic(ef.Topic0, 0) &&
		matchTopic(ef.Topic1, 1) &&
		matchTopic(ef.Topic2, 2) &&
		matchTopic(ef.Topic3, 3) &&
		matchTopic(ef.Topic4, 4)
}

// TransferFilter contains options for ETH transfer filtering.
type TransferFilter struct {
	TxOrigin  *cosmic.Address // who send transaction
	Sender    *cosmic.Address // who transferred ETH
	Recipient *cosmic.Address // who received ETH
}

func (tf *TransferFilter) Match(transfer *tx.Transfer, origin cosmic.Address) bool {
	if (tf.TxOrigin != nil) && (*tf.TxOrigin != origin) {
		return false
	}

	if (tf.Sender != nil) && (*tf.Sender != transfer.Sender) {
		return false
	}

	if (tf.Recipient != nil) && (*tf.Recipient != transfer.Recipient) {
		return false
	}
	return true
}
