// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
)

// converter translates between base units and fragments. The ratio is
// TotalFragments / CirculatingSupply and must be refreshed after every
// change of the supply, once all balance updates of that change are done.
//
// Conversions to base units truncate, so converting back and forth may lose
// up to one base unit.
type converter struct {
	totalFragments uint256.Int
	scale          uint256.Int
	ratio          uint256.Int // fragments per base unit
}

func newConverter(totalFragments, scale *uint256.Int, supply *uint256.Int) converter {
	c := converter{totalFragments: *totalFragments, scale: *scale}
	c.refresh(supply)
	return c
}

// refresh recomputes the ratio for the given supply. A zero supply is a
// defect in the caller.
func (c *converter) refresh(supply *uint256.Int) {
	if supply.IsZero() {
		panic(fmt.Errorf("%w: conversion ratio of zero supply", ErrInvariantViolation))
	}
	c.ratio.Div(&c.totalFragments, supply)
}

// toInternal converts whole tokens into fragments. The second result is true
// if the amount is too large to be represented.
func (c *converter) toInternal(tokens *uint256.Int) (*uint256.Int, bool) {
	units, overflow := new(uint256.Int).MulOverflow(tokens, &c.scale)
	if overflow {
		return nil, true
	}
	return c.virtualize(units)
}

// virtualize converts base units into fragments.
func (c *converter) virtualize(units *uint256.Int) (*uint256.Int, bool) {
	res, overflow := new(uint256.Int).MulOverflow(units, &c.ratio)
	if overflow {
		return nil, true
	}
	return res, false
}

// toDisplay converts fragments into base units, rounding down.
func (c *converter) toDisplay(fragments *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(fragments, &c.ratio)
}
