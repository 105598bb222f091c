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

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testLog() (*Log, *bytes.Buffer) {
	var buffer bytes.Buffer
	return &Log{logger: log.New(&buffer, "", 0), start: time.Now()}, &buffer
}

func TestLog_LinesArePrefixedWithElapsedTime(t *testing.T) {
	logger, buffer := testLog()
	logger.start = time.Now().Add(-(2*time.Minute + 5*time.Second))
	logger.Printf("hello %d", 12)
	require.Equal(t, "[t=   2:05] hello 12\n", buffer.String())
}

func TestProgressTracker_LogsEveryStep(t *testing.T) {
	logger, buffer := testLog()
	progress := logger.NewProgressTracker("processed %d epochs, %.2f epochs/s", 10)

	progress.Step(9)
	require.Empty(t, buffer.String())
	progress.Step(1)
	require.Contains(t, buffer.String(), "processed 10 epochs")
	progress.Step(25)
	require.Contains(t, buffer.String(), "processed 35 epochs")
	require.Equal(t, 2, strings.Count(buffer.String(), "\n"))
}

func TestLogReporter_PrintsEpochSummary(t *testing.T) {
	logger, buffer := testLog()
	params := ledger.DefaultParameters()
	genesis := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reporter := NewLogReporter(logger, genesis, params)

	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))
	err := reporter.Report(ledger.Report{
		Epoch:             5,
		State:             ledger.RebaseActive,
		CirculatingSupply: new(uint256.Int).Mul(uint256.NewInt(330_041_448), unit),
		FirePitBalance:    new(uint256.Int).Mul(uint256.NewInt(1_234), unit),
		Burned:            new(uint256.Int),
	})
	require.NoError(t, err)

	out := buffer.String()
	require.Contains(t, out, "epoch 5 (2024-01-01T01:15:00Z)")
	require.Contains(t, out, "supply 330,041,448")
	require.Contains(t, out, "fire pit 1,234")
	require.Contains(t, out, "state active")
	require.NotContains(t, out, "burned")
}

func TestLogReporter_PrintsBurns(t *testing.T) {
	logger, buffer := testLog()
	params := ledger.DefaultParameters()
	params.Decimals = 0
	reporter := NewLogReporter(logger, time.Unix(0, 0), params)

	require.NoError(t, reporter.Report(ledger.Report{
		Epoch:  8641,
		State:  ledger.RebaseEnded,
		Burned: uint256.NewInt(500_000),
	}))
	require.Contains(t, buffer.String(), "state ended, burned 500,000")
}

func TestNewLog_DefaultsToStderr(t *testing.T) {
	require.NotNil(t, NewLog(nil).logger)
}
