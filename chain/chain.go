// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain sequences transactions into sealed blocks.
//
// A block is packed on top of the best block: its beacon is proved first, then
// the transactions run against the state in the block's context, and finally the
// state change set and receipts are committed together with the sealed header.
package chain

import (
	"crypto/ecdsa"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/cache"
	"github.com/cosmicsignature/engine/co"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/kv"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/logdb"
	"github.com/cosmicsignature/engine/runtime"
	"github.com/cosmicsignature/engine/state"
	"github.com/cosmicsignature/engine/tx"
	"github.com/cosmicsignature/engine/xenv"
)

var logger = log.WithContext("pkg", "chain")

var (
	errGenesisMismatch = errors.New("genesis mismatch")
	errTimestamp       = errors.New("block timestamp behind parent")
)

// Chain stores sealed blocks and sequences new ones.
//
// It's thread-safe.
type Chain struct {
	db       kv.Store
	stater   *state.Stater
	logDB    *logdb.LogDB
	producer *ecdsa.PrivateKey
	headers  *cache.LRU

	lock    sync.Mutex
	genesis *block.Header
	best    *block.Header
	tick    co.Signal
}

// New opens the chain stored in db, or initializes it with the genesis header and state.
// The producer key seals and proves every new block. logDB is optional.
func New(db kv.Store, genesis *block.Header, genesisState *state.Stage, logDB *logdb.LogDB, producer *ecdsa.PrivateKey) (*Chain, error) {
	if genesis.Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	headers, err := cache.NewLRU(512)
	if err != nil {
		return nil, err
	}
	c := &Chain{
		db:       db,
		logDB:    logDB,
		producer: producer,
		headers:  headers,
		genesis:  genesis,
	}

	bestID, err := loadBestBlockID(db)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		batch := db.NewBatch()
		if _, err := genesisState.Commit(batch); err != nil {
			return nil, err
		}
		if err := saveBlock(batch, genesis, tx.Receipts{}); err != nil {
			return nil, err
		}
		if err := batch.Write(); err != nil {
			return nil, errors.Wrap(err, "write genesis")
		}
		logger.Info("chain initialized", "genesis", genesis.ID())
		bestID = genesis.ID()
	} else {
		existing, err := loadBlockID(db, 0)
		if err != nil {
			return nil, errors.Wrap(err, "get existing genesis id")
		}
		if existing != genesis.ID() {
			return nil, errGenesisMismatch
		}
	}

	best, err := c.GetHeader(bestID)
	if err != nil {
		return nil, errors.Wrap(err, "load best block")
	}
	c.best = best
	// the stater is opened after genesis is written, its cache starts clean
	c.stater = state.NewStater(db)
	metricBestBlock().Set(int64(best.Number()))
	return c, nil
}

// GenesisHeader returns the genesis header.
func (c *Chain) GenesisHeader() *block.Header {
	return c.genesis
}

// BestHeader returns the latest sealed header.
func (c *Chain) BestHeader() *block.Header {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.best
}

// Stater returns the state creator of the chain.
func (c *Chain) Stater() *state.Stater {
	return c.stater
}

// NewBestState returns the state after the best block. It must not be committed.
func (c *Chain) NewBestState() *state.State {
	return c.stater.NewState(c.BestHeader().StateRoot())
}

// NewTicker returns a waiter signaled on every new block.
func (c *Chain) NewTicker() co.Waiter {
	return c.tick.NewWaiter()
}

// GetHeader returns the header of block id.
func (c *Chain) GetHeader(id cosmic.Bytes32) (*block.Header, error) {
	h, err := c.headers.GetOrLoad(id, func(any) (any, error) {
		metricHeaderCacheHits().AddWithLabel(1, map[string]string{"event": "miss"})
		return loadHeader(c.db, id)
	})
	if err != nil {
		return nil, err
	}
	return h.(*block.Header), nil
}

// GetHeaderByNumber returns the header of block n.
func (c *Chain) GetHeaderByNumber(n uint32) (*block.Header, error) {
	id, err := loadBlockID(c.db, n)
	if err != nil {
		return nil, err
	}
	return c.GetHeader(id)
}

// GetReceipts returns the receipts of block id.
func (c *Chain) GetReceipts(id cosmic.Bytes32) (tx.Receipts, error) {
	return loadReceipts(c.db, id)
}

// IsNotFound tells whether err is a missing block.
func (c *Chain) IsNotFound(err error) bool {
	return c.db.IsNotFound(err)
}

// Pack seals a block at timestamp that executes txs in order.
// A reverted transaction is kept with its receipt. Any other error discards the whole block.
func (c *Chain) Pack(timestamp uint64, txs ...*runtime.Transaction) (*block.Header, tx.Receipts, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	parent := c.best
	if timestamp < parent.Timestamp() {
		return nil, nil, errTimestamp
	}
	number := parent.Number() + 1
	beacon, _, err := block.ProveBeacon(c.producer, parent.Beacon(), number)
	if err != nil {
		return nil, nil, err
	}

	st := c.stater.NewState(parent.StateRoot())
	rt := runtime.New(st, &xenv.BlockContext{
		Number: number,
		Time:   timestamp,
		Beacon: beacon,
	}, builtin.Receivers(st))

	receipts := make(tx.Receipts, 0, len(txs))
	for i, t := range txs {
		if t.ID.IsZero() {
			t.ID = txID(parent.ID(), timestamp, i)
		}
		receipt, err := rt.ExecuteTransaction(t)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "execute %s", t.Method)
		}
		receipts = append(receipts, receipt)
	}

	batch := c.db.NewBatch()
	stateRoot, err := st.Stage().Commit(batch)
	if err != nil {
		return nil, nil, err
	}
	header, err := new(block.Builder).
		ParentID(parent.ID()).
		Timestamp(timestamp).
		StateRoot(stateRoot).
		ReceiptsRoot(receipts.RootHash()).
		Seal(parent.Beacon(), c.producer)
	if err != nil {
		return nil, nil, err
	}
	if err := header.VerifyBeacon(parent.Beacon(), &c.producer.PublicKey); err != nil {
		return nil, nil, errors.WithMessage(err, "verify sealed block")
	}
	if err := saveBlock(batch, header, receipts); err != nil {
		return nil, nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, nil, errors.Wrap(err, "write block")
	}

	if c.logDB != nil {
		logs := c.logDB.Prepare(header)
		for _, r := range receipts {
			logs.Insert(r)
		}
		if err := logs.Commit(); err != nil {
			// the block is in, the index lags behind
			logger.Warn("failed to index logs", "block", header.Number(), "err", err)
		}
	}

	c.best = header
	c.headers.Add(header.ID(), header)
	metricBestBlock().Set(int64(number))
	metricBlockTxCount().Observe(int64(len(txs)))
	logger.Debug("block packed", "number", number, "id", header.ID(), "txs", len(txs))
	c.tick.Broadcast()
	return header, receipts, nil
}

// Mine seals an empty block at timestamp.
func (c *Chain) Mine(timestamp uint64) (*block.Header, error) {
	header, _, err := c.Pack(timestamp)
	return header, err
}

// Execute packs a block holding the single transaction.
func (c *Chain) Execute(timestamp uint64, t *runtime.Transaction) (*tx.Receipt, error) {
	_, receipts, err := c.Pack(timestamp, t)
	if err != nil {
		return nil, err
	}
	return receipts[0], nil
}

func txID(parentID cosmic.Bytes32, timestamp uint64, index int) cosmic.Bytes32 {
	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:], timestamp)
	binary.BigEndian.PutUint32(buf[8:], uint32(index))
	return cosmic.Blake2b(parentID[:], buf[:])
}
