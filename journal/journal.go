// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package journal provides an append-only record of epoch reports. Journals
// are an audit trail of the ticks a ledger went through; a ledger is never
// restored from its journal.
package journal

//go:generate mockgen -source journal.go -destination journal_mocks.go -package journal

import (
	"errors"
	"fmt"

	"github.com/hashpy-labs/vulcan-spock/ledger"
)

var (
	// ErrNotFound is returned when requesting an epoch that was not recorded.
	ErrNotFound = errors.New("epoch not found")
	// ErrOutOfOrder is returned when appending a report that does not
	// directly follow the last recorded epoch.
	ErrOutOfOrder = errors.New("epoch out of order")
	// ErrClosed is returned by operations on a closed journal.
	ErrClosed = errors.New("journal closed")
)

// Journal records one report per epoch, starting at epoch 0 without gaps.
// Implementations are safe for concurrent use.
type Journal interface {
	// Append records the report of the next epoch. The report's epoch must
	// equal the current length of the journal.
	Append(report ledger.Report) error

	// Get returns the report of the given epoch.
	Get(epoch uint64) (ledger.Report, error)

	// Last returns the most recently appended report. The boolean is false if
	// the journal is empty.
	Last() (ledger.Report, bool, error)

	// Len returns the number of recorded epochs.
	Len() (uint64, error)

	// Close releases the resources of the journal.
	Close() error
}

// CheckNext verifies that a report for the given epoch may be appended to a
// journal currently holding size reports.
func CheckNext(size, epoch uint64) error {
	if epoch != size {
		return fmt.Errorf("%w: got epoch %d, expected %d", ErrOutOfOrder, epoch, size)
	}
	return nil
}
