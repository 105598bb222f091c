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

import "errors"

var (
	// ErrInsufficientBalance is returned when a sender cannot cover the
	// requested (pre-tax) amount. No balance is modified in this case.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvariantViolation signals a defect in the accounting, e.g. a
	// negative balance or an arithmetic overflow on bounded quantities. It is
	// not expected in correct operation.
	ErrInvariantViolation = errors.New("ledger invariant violated")

	// ErrInvalidConfig is returned by New if the configuration is incomplete
	// or inconsistent.
	ErrInvalidConfig = errors.New("invalid ledger configuration")
)
