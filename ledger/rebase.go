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

// RebaseState is the state of the supply growth.
type RebaseState byte

const (
	// RebaseActive is the initial state; the supply grows every epoch.
	RebaseActive RebaseState = iota
	// RebaseEnded is entered once growth would exceed the maximum supply.
	// It is terminal.
	RebaseEnded
)

func (s RebaseState) String() string {
	switch s {
	case RebaseActive:
		return "active"
	case RebaseEnded:
		return "ended"
	}
	return fmt.Sprintf("unknown(%d)", byte(s))
}

// Report summarizes the effects of a single rebase tick. All amounts are in
// base units except FragmentsPerUnit.
type Report struct {
	Epoch             uint64 // the epoch just completed
	State             RebaseState
	CirculatingSupply *uint256.Int
	FragmentsPerUnit  *uint256.Int
	FirePitBalance    *uint256.Int
	Burned            *uint256.Int // destroyed by the fire pit burn
	Grown             *uint256.Int // added by the rebase
}

// rebase runs a single epoch:
//   - a burn scheduled by an earlier tick is executed first,
//   - a burn is scheduled for the next tick on every BurnInterval boundary,
//   - all epochs but the 0th grow the supply by RebaseRate / RebaseDivisor,
//     until growth would exceed the max supply, which ends rebasing.
//
// Once ended, ticks only advance the epoch counter.
func (l *ledger) rebase() (Report, error) {
	epoch := l.epoch
	burned := new(uint256.Int)
	grown := new(uint256.Int)

	if l.state == RebaseActive {
		if l.burnPending {
			var err error
			if burned, err = l.burnFirePit(); err != nil {
				return Report{}, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			l.burnPending = false
		}
	}

	if epoch%l.params.BurnInterval == 0 {
		l.burnPending = true
	}

	if l.state == RebaseActive && epoch > 0 {
		// Growth beyond 256 bits is above any max supply.
		growth, overflow := new(uint256.Int).MulDivOverflow(&l.supply, &l.derived.rebaseRate, &l.derived.rebaseDivisor)
		next := new(uint256.Int)
		if !overflow {
			_, overflow = next.AddOverflow(&l.supply, growth)
		}
		if overflow || next.Gt(&l.derived.maxSupply) {
			l.state = RebaseEnded
		} else {
			l.supply = *next
			l.conv.refresh(&l.supply)
			grown = growth
		}
	}

	l.epoch++
	return Report{
		Epoch:             epoch,
		State:             l.state,
		CirculatingSupply: l.supply.Clone(),
		FragmentsPerUnit:  l.conv.ratio.Clone(),
		FirePitBalance:    l.displayBalance(l.firePit),
		Burned:            burned,
		Grown:             grown,
	}, nil
}
