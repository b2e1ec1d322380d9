// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events emitted by the builtin contracts in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/tx"
)

// limit of rows returned by a filter without options
const defaultLimit = 1000

var (
	newestBlockIDKey = "newestBlockID"
	logger           = log.WithContext("pkg", "logdb")
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
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
	// an in-memory db lives as long as its only connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(configTableSchema + eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	if err := db.stmtCache.Close(); err != nil {
		logger.Warn("failed to close statements", "err", err)
	}
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestBlockID returns the id of the newest indexed block, zero when empty.
func (db *LogDB) NewestBlockID() (ronin.Bytes32, error) {
	var data []byte
	err := db.stmtCache.MustPrepare("SELECT value FROM config WHERE key=?").
		QueryRow(newestBlockIDKey).
		Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ronin.Bytes32{}, nil
		}
		return ronin.Bytes32{}, err
	}
	return ronin.BytesToBytes32(data), nil
}

// FilterEvents returns the events matching filter, ordered by their position in the chain.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		filter = &EventFilter{}
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = "SELECT seq, blockID, blockTime, txID, txOrigin, clauseIndex, address, topic0, topic1, topic2, topic3, topic4, data FROM event WHERE 1"
	)
	if filter.Range != nil {
		if filter.Range.From > filter.Range.To {
			return nil, nil
		}
		args = append(args, newSequence(filter.Range.From, 0), newSequence(filter.Range.To, math.MaxInt32))
		stmt += " AND seq >= ? AND seq <= ?"
	}

	if len(filter.CriteriaSet) > 0 {
		stmt += " AND ("
		for i, c := range filter.CriteriaSet {
			if i > 0 {
				stmt += " OR "
			}
			stmt += "(1"
			if c.Address != nil {
				args = append(args, c.Address[:])
				stmt += " AND address=?"
			}
			for j, topic := range c.Topics {
				if topic != nil {
					args = append(args, topic[:])
					stmt += fmt.Sprintf(" AND topic%v=?", j)
				}
			}
			stmt += ")"
		}
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	opts := filter.Options
	if opts == nil {
		opts = &Options{Limit: defaultLimit}
	}
	if opts.Limit > math.MaxInt64 || opts.Offset > math.MaxInt64 {
		return nil, errors.New("options out of range")
	}
	stmt += " LIMIT ?, ?"
	args = append(args, opts.Offset, opts.Limit)

	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
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
			seq         sequence
			blockID     []byte
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&blockID,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
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
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockID:     ronin.BytesToBytes32(blockID),
			BlockTime:   blockTime,
			TxID:        ronin.BytesToBytes32(txID),
			TxOrigin:    ronin.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Address:     ronin.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := ronin.BytesToBytes32(topic)
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

func topicValue(topics []ronin.Bytes32, i int) []byte {
	if i < len(topics) {
		return topics[i][:]
	}
	return nil
}

// Prepare starts the batch of events emitted in the block of header.
func (db *LogDB) Prepare(header *block.Header) *BlockBatch {
	return &BlockBatch{db: db, header: header}
}

type batchedEvent struct {
	txID        ronin.Bytes32
	txOrigin    ronin.Address
	clauseIndex uint32
	event       *tx.Event
}

// BlockBatch collects the events of a block and writes them in a single sql transaction.
type BlockBatch struct {
	db     *LogDB
	header *block.Header
	events []batchedEvent
}

// Insert appends the events emitted by clause clauseIndex of a transaction.
func (bb *BlockBatch) Insert(txID ronin.Bytes32, txOrigin ronin.Address, clauseIndex uint32, events tx.Events) *BlockBatch {
	for _, ev := range events {
		bb.events = append(bb.events, batchedEvent{txID, txOrigin, clauseIndex, ev})
	}
	return bb
}

// Commit writes the batch. Events of a block already indexed are replaced.
func (bb *BlockBatch) Commit() error {
	if bb.header.Number() > math.MaxUint32 {
		return errors.New("block number out of range")
	}
	var (
		id     = bb.header.ID()
		number = uint32(bb.header.Number())
	)

	insert, err := bb.db.stmtCache.Prepare("INSERT OR REPLACE INTO event(seq, blockID, blockTime, txID, txOrigin, clauseIndex, address, topic0, topic1, topic2, topic3, topic4, data) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	sqlTx, err := bb.db.db.Begin()
	if err != nil {
		return err
	}
	exec := func() error {
		if _, err := sqlTx.Exec("DELETE FROM event WHERE seq >= ? AND seq <= ?",
			newSequence(number, 0), newSequence(number, math.MaxInt32)); err != nil {
			return err
		}
		stmt := sqlTx.Stmt(insert)
		for i, e := range bb.events {
			if _, err := stmt.Exec(
				newSequence(number, uint32(i)),
				id[:],
				bb.header.Timestamp(),
				e.txID[:],
				e.txOrigin[:],
				e.clauseIndex,
				e.event.Address[:],
				topicValue(e.event.Topics, 0),
				topicValue(e.event.Topics, 1),
				topicValue(e.event.Topics, 2),
				topicValue(e.event.Topics, 3),
				topicValue(e.event.Topics, 4),
				e.event.Data,
			); err != nil {
				return err
			}
		}
		_, err := sqlTx.Exec("INSERT OR REPLACE INTO config(key, value) VALUES(?,?)", newestBlockIDKey, id[:])
		return err
	}
	if err := exec(); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return err
	}
	metricEventsIndexed().Add(int64(len(bb.events)))
	return nil
}

// IndexBlock indexes the events of every successful clause of blk.
func (db *LogDB) IndexBlock(blk *block.Block, receipts tx.Receipts) error {
	txs := blk.Transactions()
	if len(txs) != len(receipts) {
		return errors.New("txs count != receipts count")
	}
	batch := db.Prepare(blk.Header())
	for i, receipt := range receipts {
		if receipt.Reverted {
			continue
		}
		for j, out := range receipt.Outputs {
			batch.Insert(txs[i].ID(), txs[i].Origin(), uint32(j), out.Events)
		}
	}
	return batch.Commit()
}
