// Copyright (c) 2020 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/cache"
)

// stmtCache keeps one prepared statement per query text.
type stmtCache struct {
	db    *sql.DB
	lock  sync.Mutex
	stmts map[string]*sql.Stmt
	stats cache.Stats
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
		stats: cache.Stats{Name: "logdb-stmt"},
	}
}

// Prepare returns the statement of query, prepared on first use.
func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.lock.Lock()
	defer sc.lock.Unlock()
	defer sc.stats.Report()

	if stmt, ok := sc.stmts[query]; ok {
		sc.stats.Hit()
		return stmt, nil
	}
	sc.stats.Miss()
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare statement")
	}
	sc.stmts[query] = stmt
	return stmt, nil
}

func (sc *stmtCache) MustPrepare(query string) *sql.Stmt {
	stmt, err := sc.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

// Close closes every prepared statement.
func (sc *stmtCache) Close() error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	var first error
	for query, stmt := range sc.stmts {
		if err := stmt.Close(); err != nil && first == nil {
			first = err
		}
		delete(sc.stmts, query)
	}
	return first
}
