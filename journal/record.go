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
	"encoding/binary"
	"fmt"

	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
)

// RecordSize is the size of an encoded report: the epoch, the rebase state,
// and five 256-bit words.
const RecordSize = 8 + 1 + 5*32

// Encode serializes a report into its fixed-size binary form. Missing values
// are encoded as zero.
func Encode(report ledger.Report) [RecordSize]byte {
	var res [RecordSize]byte
	binary.BigEndian.PutUint64(res[0:8], report.Epoch)
	res[8] = byte(report.State)
	pos := 9
	for _, value := range words(&report) {
		if *value != nil {
			word := (*value).Bytes32()
			copy(res[pos:pos+32], word[:])
		}
		pos += 32
	}
	return res
}

// Decode parses a report produced by Encode.
func Decode(data []byte) (ledger.Report, error) {
	var res ledger.Report
	if len(data) != RecordSize {
		return res, fmt.Errorf("invalid record size, wanted %d, got %d", RecordSize, len(data))
	}
	res.Epoch = binary.BigEndian.Uint64(data[0:8])
	res.State = ledger.RebaseState(data[8])
	if res.State != ledger.RebaseActive && res.State != ledger.RebaseEnded {
		return res, fmt.Errorf("invalid rebase state %d", data[8])
	}
	pos := 9
	for _, value := range words(&res) {
		*value = new(uint256.Int).SetBytes32(data[pos : pos+32])
		pos += 32
	}
	return res, nil
}

func words(report *ledger.Report) []**uint256.Int {
	return []**uint256.Int{
		&report.CirculatingSupply,
		&report.FragmentsPerUnit,
		&report.FirePitBalance,
		&report.Burned,
		&report.Grown,
	}
}
