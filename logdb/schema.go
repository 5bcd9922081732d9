// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for event
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	blockID BLOB(32),
	eventIndex INTEGER,
	blockNumber INTEGER,
	blockTime INTEGER,
	txID BLOB(32),
	txOrigin BLOB(20),
	method TEXT,
	address BLOB(20),
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (blockID, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventBlockNumberIndex ON event(blockNumber);
CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address);
CREATE INDEX IF NOT EXISTS eventTopicIndex0 ON event(topic0);
CREATE INDEX IF NOT EXISTS eventTopicIndex1 ON event(topic1);
CREATE INDEX IF NOT EXISTS eventTopicIndex2 ON event(topic2);
`

// create a table for transfer
const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	blockID BLOB(32),
	transferIndex INTEGER,
	blockNumber INTEGER,
	blockTime INTEGER,
	txID BLOB(32),
	txOrigin BLOB(20),
	sender BLOB(20),
	recipient BLOB(20),
	amount BLOB,
	PRIMARY KEY (blockID, transferIndex)
);

CREATE INDEX IF NOT EXISTS transferBlockNumberIndex ON transfer(blockNumber);
CREATE INDEX IF NOT EXISTS transferSenderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipientIndex ON transfer(recipient);
`
