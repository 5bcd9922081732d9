// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/tx"
)

// maxBlocksPerRead bounds the backlog sent in one round of a pipe.
const maxBlocksPerRead = 100

type msgReader interface {
	Read() (msgs []any, hasMore bool, err error)
}

// blockReader reads the blocks sealed after a position, in order.
type blockReader struct {
	chain *chain.Chain
	next  uint32
}

func newBlockReader(c *chain.Chain, position *block.Header) *blockReader {
	return &blockReader{chain: c, next: position.Number() + 1}
}

func (br *blockReader) read(fn func(header *block.Header, receipts tx.Receipts) error) (bool, error) {
	best := br.chain.BestHeader().Number()
	for n := 0; br.next <= best; n++ {
		if n == maxBlocksPerRead {
			return true, nil
		}
		header, err := br.chain.GetHeaderByNumber(br.next)
		if err != nil {
			return false, err
		}
		receipts, err := br.chain.GetReceipts(header.ID())
		if err != nil {
			return false, err
		}
		if err := fn(header, receipts); err != nil {
			return false, err
		}
		br.next++
	}
	return false, nil
}

func (br *blockReader) Read() ([]any, bool, error) {
	var msgs []any
	hasMore, err := br.read(func(header *block.Header, receipts tx.Receipts) error {
		msg, err := convertBlock(header, receipts)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		return nil
	})
	return msgs, hasMore, err
}

type eventReader struct {
	blocks *blockReader
	filter *EventFilter
}

func newEventReader(c *chain.Chain, position *block.Header, filter *EventFilter) *eventReader {
	return &eventReader{
		blocks: newBlockReader(c, position),
		filter: filter,
	}
}

func (er *eventReader) Read() ([]any, bool, error) {
	var msgs []any
	hasMore, err := er.blocks.read(func(header *block.Header, receipts tx.Receipts) error {
		for _, receipt := range receipts {
			for _, event := range receipt.Events {
				if er.filter.Match(event) {
					msgs = append(msgs, convertEvent(header, receipt, event))
				}
			}
		}
		return nil
	})
	return msgs, hasMore, err
}

type transferReader struct {
	blocks *blockReader
	filter *TransferFilter
}

func newTransferReader(c *chain.Chain, position *block.Header, filter *TransferFilter) *transferReader {
	return &transferReader{
		blocks: newBlockReader(c, position),
		filter: filter,
	}
}

func (tr *transferReader) Read() ([]any, bool, error) {
	var msgs []any
	hasMore, err := tr.blocks.read(func(header *block.Header, receipts tx.Receipts) error {
		for _, receipt := range receipts {
			for _, transfer := range receipt.Transfers {
				if tr.filter.Match(transfer, receipt.Origin) {
					msgs = append(msgs, convertTransfer(header, receipt, transfer))
				}
			}
		}
		return nil
	})
	return msgs, hasMore, err
}
