// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package epoch

//go:generate mockgen -source reporter.go -destination reporter_mocks.go -package epoch

import (
	"fmt"
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
)

// Reporter consumes the report of every completed tick.
type Reporter interface {
	Report(report ledger.Report) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ledger.Report) error

func (f ReporterFunc) Report(report ledger.Report) error {
	return f(report)
}

// NewLogReporter creates a reporter printing one line per epoch. The time of
// an epoch is derived from the genesis time and the epoch duration, not from
// the wall clock at the time of the tick.
func NewLogReporter(log *Log, genesis time.Time, params ledger.Parameters) Reporter {
	return ReporterFunc(func(report ledger.Report) error {
		timestamp := genesis.Add(time.Duration(report.Epoch) * params.EpochDuration)
		line := fmt.Sprintf("epoch %d (%s): supply %s, fire pit %s, state %s",
			report.Epoch,
			timestamp.UTC().Format(time.RFC3339),
			amount.FormatTokens(report.CirculatingSupply, params.Decimals),
			amount.FormatTokens(report.FirePitBalance, params.Decimals),
			report.State,
		)
		if report.Burned != nil && !report.Burned.IsZero() {
			line += ", burned " + amount.FormatTokens(report.Burned, params.Decimals)
		}
		log.Printf("%s", line)
		return nil
	})
}

// NewJournalReporter creates a reporter appending reports to a journal.
func NewJournalReporter(j journal.Journal) Reporter {
	return ReporterFunc(j.Append)
}
