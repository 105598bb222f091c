// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// reportKeyPrefix marks the keys of epoch reports. Keys are the prefix
// followed by the big-endian epoch, so the natural key order of LevelDB is
// the epoch order.
const reportKeyPrefix byte = 'R'

var _ journal.Journal = (*Journal)(nil)

// Journal stores reports in a LevelDB instance owned by the journal.
type Journal struct {
	db     *leveldb.DB
	size   uint64
	writes *opt.WriteOptions
	mu     sync.Mutex
}

// Open opens or creates a journal in the given directory. Existing reports
// are retained.
func Open(directory string) (*Journal, error) {
	db, err := leveldb.OpenFile(directory, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open LevelDB journal in %s: %w", directory, err)
	}
	size, err := recordedEpochs(db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Journal{
		db:     db,
		size:   size,
		writes: &opt.WriteOptions{Sync: true},
	}, nil
}

func recordedEpochs(db *leveldb.DB) (uint64, error) {
	iter := db.NewIterator(util.BytesPrefix([]byte{reportKeyPrefix}), nil)
	defer iter.Release()
	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	if len(key) != 9 {
		return 0, fmt.Errorf("invalid journal key %x", key)
	}
	return binary.BigEndian.Uint64(key[1:]) + 1, iter.Error()
}

func toKey(epoch uint64) []byte {
	res := make([]byte, 9)
	res[0] = reportKeyPrefix
	binary.BigEndian.PutUint64(res[1:], epoch)
	return res
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
	record := journal.Encode(report)
	if err := j.db.Put(toKey(report.Epoch), record[:], j.writes); err != nil {
		return err
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
	return j.get(epoch)
}

func (j *Journal) get(epoch uint64) (ledger.Report, error) {
	data, err := j.db.Get(toKey(epoch), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return ledger.Report{}, fmt.Errorf("%w: %d", journal.ErrNotFound, epoch)
	}
	if err != nil {
		return ledger.Report{}, err
	}
	return journal.Decode(data)
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
