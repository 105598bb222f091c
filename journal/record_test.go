// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package journal

import (
	"testing"

	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestRecord_EncodeAndDecodeAreInverse(t *testing.T) {
	report := ledger.Report{
		Epoch:             1<<40 + 7,
		State:             ledger.RebaseEnded,
		CirculatingSupply: uint256.NewInt(1_010_000),
		FragmentsPerUnit:  new(uint256.Int).Lsh(uint256.NewInt(1), 230),
		FirePitBalance:    uint256.NewInt(12),
		Burned:            uint256.NewInt(0),
		Grown:             uint256.NewInt(10_000),
	}
	record := Encode(report)
	restored, err := Decode(record[:])
	require.NoError(t, err)
	require.Equal(t, report, restored)
}

func TestRecord_LayoutIsBigEndian(t *testing.T) {
	record := Encode(ledger.Report{
		Epoch:             0x0102,
		State:             ledger.RebaseEnded,
		CirculatingSupply: uint256.NewInt(0x0304),
	})
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x01, 0x02}, record[0:8])
	require.Equal(t, byte(1), record[8])
	require.Equal(t, []byte{0x03, 0x04}, record[9+30:9+32])
}

func TestRecord_MissingValuesDecodeAsZero(t *testing.T) {
	record := Encode(ledger.Report{Epoch: 3})
	restored, err := Decode(record[:])
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(0), restored.Burned)
	require.Equal(t, uint256.NewInt(0), restored.CirculatingSupply)
}

func TestRecord_DecodeRejectsInvalidInput(t *testing.T) {
	_, err := Decode(make([]byte, RecordSize-1))
	require.ErrorContains(t, err, "invalid record size")

	record := Encode(ledger.Report{})
	record[8] = 7
	_, err = Decode(record[:])
	require.ErrorContains(t, err, "invalid rebase state")
}

func TestCheckNext_RequiresConsecutiveEpochs(t *testing.T) {
	require.NoError(t, CheckNext(0, 0))
	require.NoError(t, CheckNext(5, 5))
	require.ErrorIs(t, CheckNext(5, 4), ErrOutOfOrder)
	require.ErrorIs(t, CheckNext(5, 6), ErrOutOfOrder)
}
