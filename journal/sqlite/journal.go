// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	epoch              INTEGER PRIMARY KEY,
	state              TEXT NOT NULL,
	circulating_supply TEXT NOT NULL,
	fragments_per_unit TEXT NOT NULL,
	fire_pit_balance   TEXT NOT NULL,
	burned             TEXT NOT NULL,
	grown              TEXT NOT NULL
)`

const columns = "epoch, state, circulating_supply, fragments_per_unit, fire_pit_balance, burned, grown"

var _ journal.Journal = (*Journal)(nil)

// Journal stores reports in a SQLite database, one row per epoch. Amounts are
// stored as decimal strings to keep the table readable by external tools.
type Journal struct {
	db   *sql.DB
	size uint64
	mu   sync.Mutex
}

// Open opens or creates a journal in the given database file.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite journal %s: %w", path, err)
	}
	// SQLite supports a single writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create journal table: %w", err), db.Close())
	}
	var size int64
	if err := db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&size); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Journal{db: db, size: uint64(size)}, nil
}

func (j *Journal) Append(report ledger.Report) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return journal.ErrClosed
	}
	if err := journal.CheckNext(j.size, report.Epoch); err != nil {
		return err
	}
	if report.Epoch > math.MaxInt64 {
		return fmt.Errorf("epoch %d exceeds the journal range", report.Epoch)
	}
	_, err := j.db.Exec(
		"INSERT INTO reports ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		int64(report.Epoch),
		report.State.String(),
		dec(report.CirculatingSupply),
		dec(report.FragmentsPerUnit),
		dec(report.FirePitBalance),
		dec(report.Burned),
		dec(report.Grown),
	)
	if err != nil {
		return fmt.Errorf("failed to append epoch %d: %w", report.Epoch, err)
	}
	j.size++
	return nil
}

func (j *Journal) Get(epoch uint64) (ledger.Report, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ledger.Report{}, journal.ErrClosed
	}
	if epoch >= j.size {
		return ledger.Report{}, fmt.Errorf("%w: %d", journal.ErrNotFound, epoch)
	}
	return j.get(epoch)
}

func (j *Journal) get(epoch uint64) (ledger.Report, error) {
	row := j.db.QueryRow("SELECT "+columns+" FROM reports WHERE epoch = ?", int64(epoch))
	var (
		id     int64
		state  string
		values [5]string
	)
	err := row.Scan(&id, &state, &values[0], &values[1], &values[2], &values[3], &values[4])
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Report{}, fmt.Errorf("%w: %d", journal.ErrNotFound, epoch)
	}
	if err != nil {
		return ledger.Report{}, err
	}

	res := ledger.Report{Epoch: uint64(id)}
	switch state {
	case ledger.RebaseActive.String():
		res.State = ledger.RebaseActive
	case ledger.RebaseEnded.String():
		res.State = ledger.RebaseEnded
	default:
		return ledger.Report{}, fmt.Errorf("invalid rebase state %q in epoch %d", state, epoch)
	}
	targets := []**uint256.Int{&res.CirculatingSupply, &res.FragmentsPerUnit, &res.FirePitBalance, &res.Burned, &res.Grown}
	for i, target := range targets {
		if *target, err = uint256.FromDecimal(values[i]); err != nil {
			return ledger.Report{}, fmt.Errorf("invalid amount %q in epoch %d: %w", values[i], epoch, err)
		}
	}
	return res, nil
}

func (j *Journal) Last() (ledger.Report, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ledger.Report{}, false, journal.ErrClosed
	}
	if j.size == 0 {
		return ledger.Report{}, false, nil
	}
	res, err := j.get(j.size - 1)
	return res, err == nil, err
}

func (j *Journal) Len() (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return 0, journal.ErrClosed
	}
	return j.size, nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

func dec(value *uint256.Int) string {
	if value == nil {
		return "0"
	}
	return value.Dec()
}
