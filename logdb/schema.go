// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// the seq column orders events by block number and position in the block.
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockID BLOB NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB NOT NULL,
	txOrigin BLOB NOT NULL,
	clauseIndex INTEGER NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(address);
CREATE INDEX IF NOT EXISTS event_i1 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i3 ON event(txID);
`

const configTableSchema = `
CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY NOT NULL,
	value BLOB
);
`
