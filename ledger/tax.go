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

// TaxShare is the tax credited to one destination by a transfer, in base
// units.
type TaxShare struct {
	Account string
	Amount  *uint256.Int
}

// levy is a tax share in fragments.
type levy struct {
	account   string
	fragments uint256.Int
}

// taxEngine computes the taxes charged on ordinary transfers.
type taxEngine struct {
	rates   []TaxRate
	divisor uint256.Int
	exempt  map[string]struct{}
}

func newTaxEngine(cfg *Config) taxEngine {
	res := taxEngine{
		exempt: map[string]struct{}{},
	}
	res.divisor.SetUint64(cfg.Params.TaxDivisor)
	for _, rate := range cfg.TaxRates {
		if rate.Rate > 0 {
			res.rates = append(res.rates, rate)
		}
	}
	for _, account := range cfg.protocolAccounts() {
		res.exempt[account] = struct{}{}
	}
	for _, account := range cfg.Exempt {
		res.exempt[account] = struct{}{}
	}
	return res
}

// isTaxable reports whether transfers sent by the given account are taxed.
// No taxes are charged once rebasing has ended.
func (t *taxEngine) isTaxable(from string, state RebaseState) bool {
	if state != RebaseActive {
		return false
	}
	_, exempt := t.exempt[from]
	return !exempt
}

// computeTax derives the levies on a transfer of the given fragments. Every
// share is computed on the original amount, not on what is left after the
// previous shares. The second result is the sum of all levies.
func (t *taxEngine) computeTax(fragments *uint256.Int) ([]levy, *uint256.Int, error) {
	total := new(uint256.Int)
	res := make([]levy, 0, len(t.rates))
	var rate uint256.Int
	for _, cur := range t.rates {
		rate.SetUint64(cur.Rate)
		share, overflow := new(uint256.Int).MulDivOverflow(fragments, &rate, &t.divisor)
		if overflow {
			return nil, nil, fmt.Errorf("%w: tax for %s overflows", ErrInvariantViolation, cur.Account)
		}
		total.Add(total, share)
		res = append(res, levy{account: cur.Account, fragments: *share})
	}
	if total.Gt(fragments) {
		return nil, nil, fmt.Errorf("%w: taxes of %s exceed transferred %s", ErrInvariantViolation, total.Dec(), fragments.Dec())
	}
	return res, total, nil
}
