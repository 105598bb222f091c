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

// balances maps accounts to their balance in fragments. Entries are created
// on first credit and never removed; a zero entry and a missing entry both
// read as zero.
type balances map[string]uint256.Int

// get returns the fragment balance of an account and whether it is known.
func (b balances) get(account string) (uint256.Int, bool) {
	res, found := b[account]
	return res, found
}

// debit subtracts the given amount of fragments from the account.
func (b balances) debit(account string, fragments *uint256.Int) error {
	balance, found := b[account]
	if !found || balance.Lt(fragments) {
		return fmt.Errorf("%w: %s holds %s fragments, %s required",
			ErrInsufficientBalance, account, balance.Dec(), fragments.Dec())
	}
	balance.Sub(&balance, fragments)
	b[account] = balance
	return nil
}

// credit adds the given amount of fragments to the account, creating it if
// needed. The sum of all balances never exceeds the fragment pool, so the
// addition cannot overflow.
func (b balances) credit(account string, fragments *uint256.Int) {
	balance := b[account]
	balance.Add(&balance, fragments)
	b[account] = balance
}

// total sums up all balances. It reports an invariant violation if the sum
// does not fit into 256 bits.
func (b balances) total() (*uint256.Int, error) {
	res := new(uint256.Int)
	for account, balance := range b {
		if _, overflow := res.AddOverflow(res, &balance); overflow {
			return nil, fmt.Errorf("%w: balance sum overflows at %s", ErrInvariantViolation, account)
		}
	}
	return res, nil
}
