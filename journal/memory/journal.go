// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"fmt"
	"sync"

	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
)

var _ journal.Journal = (*Journal)(nil)

// Journal keeps encoded reports in memory. Its content is lost on Close.
type Journal struct {
	records [][journal.RecordSize]byte
	closed  bool
	mu      sync.Mutex
}

func New() *Journal {
	return &Journal{}
}

func (j *Journal) Append(report ledger.Report) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return journal.ErrClosed
	}
	if err := journal.CheckNext(uint64(len(j.records)), report.Epoch); err != nil {
		return err
	}
	j.records = append(j.records, journal.Encode(report))
	return nil
}

func (j *Journal) Get(epoch uint64) (ledger.Report, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ledger.Report{}, journal.ErrClosed
	}
	if epoch >= uint64(len(j.records)) {
		return ledger.Report{}, fmt.Errorf("%w: %d", journal.ErrNotFound, epoch)
	}
	return journal.Decode(j.records[epoch][:])
}

func (j *Journal) Last() (ledger.Report, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ledger.Report{}, false, journal.ErrClosed
	}
	if len(j.records) == 0 {
		return ledger.Report{}, false, nil
	}
	res, err := journal.Decode(j.records[len(j.records)-1][:])
	return res, err == nil, err
}

func (j *Journal) Len() (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return 0, journal.ErrClosed
	}
	return uint64(len(j.records)), nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = nil
	j.closed = true
	return nil
}
