// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package amount provides helpers for handling token amounts at the edges of
// the ledger: decimal scaling, parsing of user supplied values and formatting
// for human consumption. All values are unsigned 256-bit integers.
package amount

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// MaxDecimals is the largest supported number of decimal digits. 10^77 is the
// largest power of ten representable in 256 bits.
const MaxDecimals = 77

var ten = uint256.NewInt(10)

// Scale returns 10^decimals, the number of base units in one whole token.
func Scale(decimals uint8) (*uint256.Int, error) {
	if decimals > MaxDecimals {
		return nil, fmt.Errorf("decimals %d out of range (max %d)", decimals, MaxDecimals)
	}
	return new(uint256.Int).Exp(ten, uint256.NewInt(uint64(decimals))), nil
}

// ToBaseUnits converts a whole-token amount into base units. An overflow is
// reported as an error instead of wrapping around.
func ToBaseUnits(tokens *uint256.Int, decimals uint8) (*uint256.Int, error) {
	scale, err := Scale(decimals)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).MulOverflow(tokens, scale)
	if overflow {
		return nil, fmt.Errorf("%s tokens with %d decimals exceeds 256 bits", tokens.Dec(), decimals)
	}
	return res, nil
}

// Parse reads a non-negative decimal integer. Digit group separators ('_' and
// ',') are accepted and ignored, so values printed by Commify can be read back.
func Parse(s string) (*uint256.Int, error) {
	clean := strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return nil, fmt.Errorf("empty amount")
	}
	res, err := uint256.FromDecimal(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return res, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) *uint256.Int {
	res, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return res
}

// Commify renders an amount with comma separated groups of three digits,
// e.g. 1234567 -> "1,234,567". A nil amount is rendered as "0".
func Commify(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	digits := v.Dec()
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatTokens renders a base-unit amount as whole tokens with the fractional
// part truncated, comma grouped. Used for console output only.
func FormatTokens(v *uint256.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	scale, err := Scale(decimals)
	if err != nil {
		return Commify(v)
	}
	return Commify(new(uint256.Int).Div(v, scale))
}
