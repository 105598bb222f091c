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

	"github.com/holiman/uint256"
)

// Decimal is an amount encoded in JSON as a decimal string. When decoding, JSON
// numbers and strings with digit group separators are accepted as well.
type Decimal struct {
	value uint256.Int
}

func NewDecimal(value *uint256.Int) Decimal {
	if value == nil {
		return Decimal{}
	}
	return Decimal{value: *value}
}

// Int returns a copy of the amount.
func (d Decimal) Int() *uint256.Int {
	return d.value.Clone()
}

func (d Decimal) String() string {
	return d.value.Dec()
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	value, err := Parse(text)
	if err != nil {
		return err
	}
	d.value = *value
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value.Dec())
}
