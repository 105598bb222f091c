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

// burnFirePit destroys BurnTargetPercent of the circulating supply out of the
// fire pit, provided the fire pit holds at least BurnThresholdPercent of the
// supply. Both the fire pit and the supply are reduced at the pre-burn ratio;
// the ratio is refreshed afterwards. The result is the burned amount in base
// units, zero if the burn was deferred.
func (l *ledger) burnFirePit() (*uint256.Int, error) {
	threshold := new(uint256.Int).Mul(&l.supply, &l.derived.burnThreshold)
	threshold.Div(threshold, &l.derived.percent)

	fragments, _ := l.balances.get(l.firePit)
	if l.conv.toDisplay(&fragments).Lt(threshold) {
		return new(uint256.Int), nil
	}

	target := new(uint256.Int).Mul(&l.supply, &l.derived.burnTarget)
	target.Div(target, &l.derived.percent)

	burned, overflow := l.conv.virtualize(target)
	if overflow {
		return nil, fmt.Errorf("%w: burn target %s not representable", ErrInvariantViolation, target.Dec())
	}
	if err := l.balances.debit(l.firePit, burned); err != nil {
		return nil, fmt.Errorf("%w: burning fire pit: %v", ErrInvariantViolation, err)
	}
	l.supply.Sub(&l.supply, target)
	l.conv.refresh(&l.supply)
	return target, nil
}
