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
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/holiman/uint256"
)

// PercentDivisor is the divisor of the burn percentages.
const PercentDivisor = 100

// Parameters are the protocol constants of a ledger instance. They are fixed
// at construction time; two ledgers with different parameters are fully
// independent of each other.
type Parameters struct {
	Decimals      uint8        // number of decimals of a whole token
	InitialSupply *uint256.Int // in whole tokens
	MaxSupply     *uint256.Int // in whole tokens

	// Growth per epoch is RebaseRate / RebaseDivisor of the circulating supply.
	RebaseRate    uint64
	RebaseDivisor uint64

	BurnInterval         uint64 // in epochs
	BurnThresholdPercent uint64 // fire pit share of supply required to burn
	BurnTargetPercent    uint64 // share of supply destroyed by a burn

	TaxDivisor uint64 // divisor of all configured tax rates

	EpochDuration time.Duration // wall-clock length of an epoch
}

// DefaultParameters returns the parameters of the Vulcan main protocol:
// 330 million initial tokens growing at 1256/10^8 every 15 minutes up to a
// maximum of 375 billion tokens, with a quarterly fire pit burn.
func DefaultParameters() Parameters {
	return Parameters{
		Decimals:             18,
		InitialSupply:        uint256.NewInt(330_000_000),
		MaxSupply:            uint256.NewInt(375_000_000_000),
		RebaseRate:           1256,
		RebaseDivisor:        100_000_000,
		BurnInterval:         4 * 24 * 30 * 3,
		BurnThresholdPercent: 51,
		BurnTargetPercent:    50,
		TaxDivisor:           PercentDivisor,
		EpochDuration:        15 * time.Minute,
	}
}

// clone returns a copy not sharing the supply bounds with p.
func (p Parameters) clone() Parameters {
	res := p
	if p.InitialSupply != nil {
		res.InitialSupply = p.InitialSupply.Clone()
	}
	if p.MaxSupply != nil {
		res.MaxSupply = p.MaxSupply.Clone()
	}
	return res
}

// Validate checks the parameters for consistency.
func (p Parameters) Validate() error {
	_, err := p.derive()
	return err
}

// derived holds the values computed once from the parameters.
type derived struct {
	scale          uint256.Int // base units per whole token
	initialSupply  uint256.Int // in base units
	maxSupply      uint256.Int // in base units
	totalFragments uint256.Int
	rebaseRate     uint256.Int
	rebaseDivisor  uint256.Int
	burnThreshold  uint256.Int
	burnTarget     uint256.Int
	percent        uint256.Int
}

func (p Parameters) derive() (derived, error) {
	var d derived
	if p.InitialSupply == nil || p.InitialSupply.IsZero() {
		return d, fmt.Errorf("%w: initial supply must be positive", ErrInvalidConfig)
	}
	if p.MaxSupply == nil || p.MaxSupply.Lt(p.InitialSupply) {
		return d, fmt.Errorf("%w: max supply must not be below initial supply", ErrInvalidConfig)
	}
	if p.RebaseDivisor == 0 {
		return d, fmt.Errorf("%w: rebase divisor must be positive", ErrInvalidConfig)
	}
	if p.TaxDivisor == 0 {
		return d, fmt.Errorf("%w: tax divisor must be positive", ErrInvalidConfig)
	}
	if p.BurnInterval == 0 {
		return d, fmt.Errorf("%w: burn interval must be positive", ErrInvalidConfig)
	}
	if p.BurnThresholdPercent > PercentDivisor {
		return d, fmt.Errorf("%w: burn threshold of %d%% exceeds 100%%", ErrInvalidConfig, p.BurnThresholdPercent)
	}
	if p.BurnTargetPercent >= p.BurnThresholdPercent {
		return d, fmt.Errorf("%w: burn target (%d%%) must be below burn threshold (%d%%)",
			ErrInvalidConfig, p.BurnTargetPercent, p.BurnThresholdPercent)
	}

	scale, err := amount.Scale(p.Decimals)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.scale = *scale
	if _, overflow := d.initialSupply.MulOverflow(p.InitialSupply, scale); overflow {
		return d, fmt.Errorf("%w: initial supply not representable", ErrInvalidConfig)
	}
	if _, overflow := d.maxSupply.MulOverflow(p.MaxSupply, scale); overflow {
		return d, fmt.Errorf("%w: max supply not representable", ErrInvalidConfig)
	}

	// The fragment pool is the largest multiple of the initial supply that
	// fits into 256 bits.
	var rem uint256.Int
	d.totalFragments.SetAllOne()
	rem.Mod(&d.totalFragments, &d.initialSupply)
	d.totalFragments.Sub(&d.totalFragments, &rem)

	// Each base unit must be worth at least one fragment at max supply.
	if d.totalFragments.Lt(&d.maxSupply) {
		return d, fmt.Errorf("%w: max supply exceeds the fragment pool", ErrInvalidConfig)
	}

	d.rebaseRate.SetUint64(p.RebaseRate)
	d.rebaseDivisor.SetUint64(p.RebaseDivisor)
	d.burnThreshold.SetUint64(p.BurnThresholdPercent)
	d.burnTarget.SetUint64(p.BurnTargetPercent)
	d.percent.SetUint64(PercentDivisor)
	return d, nil
}
