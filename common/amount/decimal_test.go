// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package amount

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestDecimal_AcceptsNumbersAndStrings(t *testing.T) {
	tests := map[string]uint64{
		`12`:          12,
		`"12"`:        12,
		`"1,234,567"`: 1_234_567,
		`"1_000"`:     1000,
		`0`:           0,
	}
	for input, want := range tests {
		var value Decimal
		require.NoError(t, json.Unmarshal([]byte(input), &value), input)
		require.Equal(t, uint256.NewInt(want), value.Int(), input)
	}
}

func TestDecimal_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{`"12x"`, `-1`, `""`, `1.5`, `true`, `"1e3"`} {
		var value Decimal
		require.Error(t, json.Unmarshal([]byte(input), &value), input)
	}
}

func TestDecimal_IsEncodedAsString(t *testing.T) {
	huge := new(uint256.Int).SetAllOne()
	data, err := json.Marshal(NewDecimal(huge))
	require.NoError(t, err)
	require.Equal(t, `"`+huge.Dec()+`"`, string(data))

	var restored Decimal
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, huge, restored.Int())
	require.Equal(t, "0", NewDecimal(nil).String())
}
