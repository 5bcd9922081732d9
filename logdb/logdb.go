// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and transfers of committed blocks in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/tx"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch of the logs of the block.
func (db *LogDB) Prepare(header *block.Header) *BlockBatch {
	return &BlockBatch{
		db:     db.db,
		header: header,
	}
}

func rangeCondition(r *Range, args []any) (string, []any) {
	if r == nil {
		return "", args
	}
	condition := "blockNumber"
	if r.Unit == Time {
		condition = "blockTime"
	}
	args = append(args, r.From)
	stmt := " AND " + condition + " >= ? "
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += " AND " + condition + " <= ? "
	}
	return stmt, args
}

func orderAndLimit(order Order, index string, options *Options, args []any) (string, []any) {
	var stmt string
	if order == DESC {
		stmt = fmt.Sprintf(" ORDER BY blockNumber DESC,%s DESC ", index)
	} else {
		stmt = fmt.Sprintf(" ORDER BY blockNumber ASC,%s ASC ", index)
	}
	if options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

func normalizeOrder(o Order) Order {
	if o == DESC {
		return DESC
	}
	return ASC
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY blockNumber ASC,eventIndex ASC")
	}
	metricsHandleFilter("event", filter.Options, normalizeOrder(filter.Order), len(filter.CriteriaSet))

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}
	tail, args := orderAndLimit(filter.Order, "eventIndex", filter.Options, args)
	return db.queryEvents(ctx, stmt+tail, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer ORDER BY blockNumber ASC,transferIndex ASC")
	}
	metricsHandleFilter("transfer", filter.Options, normalizeOrder(filter.Order), len(filter.CriteriaSet))

	var args []any
	stmt := "SELECT * FROM transfer WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1 "
		} else {
			stmt += " OR ( 1 "
		}
		if criteria.TxOrigin != nil {
			args = append(args, criteria.TxOrigin.Bytes())
			stmt += " AND txOrigin = ? "
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ? "
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ? "
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}
	tail, args := orderAndLimit(filter.Order, "transferIndex", filter.Options, args)
	return db.queryTransfers(ctx, stmt+tail, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockID     []byte
			index       uint32
			blockNumber uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			method      string
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&blockID,
			&index,
			&blockNumber,
			&blockTime,
			&txID,
			&txOrigin,
			&method,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockID:     cosmic.BytesToBytes32(blockID),
			Index:       index,
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			TxID:        cosmic.BytesToBytes32(txID),
			TxOrigin:    cosmic.BytesToAddress(txOrigin),
			Method:      method,
			Address:     cosmic.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := cosmic.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockID     []byte
			index       uint32
			blockNumber uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			sender      []byte
			recipient   []byte
			amount      []byte
		)
		if err := rows.Scan(
			&blockID,
			&index,
			&blockNumber,
			&blockTime,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		trans := &Transfer{
			BlockID:     cosmic.BytesToBytes32(blockID),
			Index:       index,
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			TxID:        cosmic.BytesToBytes32(txID),
			TxOrigin:    cosmic.BytesToAddress(txOrigin),
			Sender:      cosmic.BytesToAddress(sender),
			Recipient:   cosmic.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
		}
		transfers = append(transfers, trans)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *cosmic.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// BlockBatch collects the logs of one block.
type BlockBatch struct {
	db        *sql.DB
	header    *block.Header
	events    []*Event
	transfers []*Transfer
}

// Insert adds the logs of a receipt. Reverted receipts carry none.
func (bb *BlockBatch) Insert(receipt *tx.Receipt) *BlockBatch {
	for _, event := range receipt.Events {
		bb.events = append(bb.events, newEvent(bb.header, uint32(len(bb.events)), receipt, event))
	}
	for _, transfer := range receipt.Transfers {
		bb.transfers = append(bb.transfers, newTransfer(bb.header, uint32(len(bb.transfers)), receipt, transfer))
	}
	return bb
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the batch in one sql transaction.
func (bb *BlockBatch) Commit() error {
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(blockID, eventIndex, blockNumber, blockTime, txID, txOrigin, method, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.BlockID.Bytes(),
				event.Index,
				event.BlockNumber,
				event.BlockTime,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Method,
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range bb.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(blockID, transferIndex, blockNumber, blockTime, txID, txOrigin, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.BlockID.Bytes(),
				transfer.Index,
				transfer.BlockNumber,
				transfer.BlockTime,
				transfer.TxID.Bytes(),
				transfer.TxOrigin.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
