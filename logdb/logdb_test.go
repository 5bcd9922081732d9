// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/block"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/logdb"
	"github.com/cosmicsignature/engine/test/datagen"
	"github.com/cosmicsignature/engine/tx"
)

var (
	contractA = cosmic.BytesToAddress([]byte("a"))
	contractB = cosmic.BytesToAddress([]byte("b"))
	origin    = datagen.RandAddress()
	topicX    = cosmic.Keccak256([]byte("X"))
	topicY    = cosmic.Keccak256([]byte("Y"))
)

func newReceipt(i int) *tx.Receipt {
	addr, topic := contractA, topicX
	if i%2 == 1 {
		addr, topic = contractB, topicY
	}
	return &tx.Receipt{
		TxID:   cosmic.Keccak256(big.NewInt(int64(i)).Bytes()),
		Method: "bid",
		Origin: origin,
		To:     addr,
		Value:  big.NewInt(int64(i)),
		Events: tx.Events{{
			Address: addr,
			Topics:  []cosmic.Bytes32{topic, cosmic.BytesToBytes32(origin.Bytes())},
			Data:    []byte{byte(i)},
		}},
		Transfers: tx.Transfers{{
			Sender:    origin,
			Recipient: addr,
			Amount:    big.NewInt(int64(i + 1)),
		}},
	}
}

func fill(t *testing.T, db *logdb.LogDB, blocks int) {
	parentID := block.GenesisParentID()
	for n := range blocks {
		header := new(block.Builder).ParentID(parentID).Timestamp(uint64(1000 + n*10)).Build()
		batch := db.Prepare(header)
		batch.Insert(newReceipt(2 * n)).Insert(newReceipt(2*n + 1))
		batch.Insert(&tx.Receipt{Reverted: true})
		require.NoError(t, batch.Commit())
		parentID = header.ID()
	}
}

func TestFilterEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	fill(t, db, 10)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, uint32(0), all[0].BlockNumber)
	assert.Equal(t, "bid", all[0].Method)
	assert.Equal(t, origin, all[0].TxOrigin)

	byAddr, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &contractA}},
	})
	require.NoError(t, err)
	assert.Len(t, byAddr, 10)
	for _, ev := range byAddr {
		assert.Equal(t, contractA, ev.Address)
		assert.Equal(t, topicX, *ev.Topics[0])
		assert.Nil(t, ev.Topics[2])
	}

	ranged, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*cosmic.Bytes32{&topicY}}, {Address: &contractA}},
		Range:       &logdb.Range{Unit: logdb.Block, From: 2, To: 4},
		Order:       logdb.DESC,
		Options:     &logdb.Options{Offset: 1, Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, ranged, 3)
	assert.Equal(t, uint32(4), ranged[0].BlockNumber)
	assert.Equal(t, uint32(0), ranged[0].Index)
	assert.Equal(t, uint32(3), ranged[1].BlockNumber)
	assert.Equal(t, uint32(1), ranged[1].Index)

	byTime, err := db.FilterEvents(ctx, &logdb.EventFilter{
		Range: &logdb.Range{Unit: logdb.Time, From: 1085, To: 1200},
	})
	require.NoError(t, err)
	assert.Len(t, byTime, 2)
}

func TestFilterTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	fill(t, db, 5)
	ctx := context.Background()

	all, err := db.FilterTransfers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, big.NewInt(1), all[0].Amount)

	toB, err := db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &contractB}},
	})
	require.NoError(t, err)
	assert.Len(t, toB, 5)

	txID := cosmic.Keccak256(big.NewInt(3).Bytes())
	one, err := db.FilterTransfers(ctx, &logdb.TransferFilter{TxID: &txID})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, big.NewInt(4), one[0].Amount)
}

func TestLargeTransferAmounts(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	maxAmount := new(big.Int).Lsh(big.NewInt(1), 256)
	senders := datagen.RandAddresses(8)
	amounts := make(map[cosmic.Bytes32]*big.Int)

	header := new(block.Builder).ParentID(block.GenesisParentID()).Timestamp(1000).Build()
	batch := db.Prepare(header)
	for _, sender := range senders {
		id := datagen.RandomHash()
		amounts[id] = datagen.RandBigInt(maxAmount)
		batch.Insert(&tx.Receipt{
			TxID:      id,
			Origin:    sender,
			Transfers: tx.Transfers{{Sender: sender, Recipient: contractA, Amount: amounts[id]}},
		})
	}
	require.NoError(t, batch.Commit())

	all, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &contractA}},
	})
	require.NoError(t, err)
	require.Len(t, all, len(senders))
	for i, tr := range all {
		assert.Equal(t, senders[i], tr.Sender)
		assert.Equal(t, 0, amounts[tr.TxID].Cmp(tr.Amount), "tx %v", tr.TxID)
	}
}
