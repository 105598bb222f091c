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

// DefaultFirePitAccount is the sentinel address used for the fire pit if no
// other account is configured.
const DefaultFirePitAccount = "0x0000"

// TaxRate directs Rate / Parameters.TaxDivisor of every taxable transfer to
// Account.
type TaxRate struct {
	Account string
	Rate    uint64
}

// Config is everything needed to construct a ledger.
type Config struct {
	Params Parameters

	TreasuryAccount      string
	FlexAccount          string
	FirePitAccount       string // defaults to DefaultFirePitAccount
	InsuranceFundAccount string // optional

	// TaxRates lists the tax destinations in the order taxes are charged.
	TaxRates []TaxRate

	// Exempt lists additional senders never taxed. Treasury, flex, insurance
	// fund and fire pit are always exempt.
	Exempt []string

	// Genesis maps accounts to their initial balance in whole tokens. Any part
	// of the initial supply not allocated here goes to the fire pit.
	Genesis map[string]*uint256.Int
}

// FirePit returns the effective fire pit account.
func (c *Config) FirePit() string {
	if c.FirePitAccount == "" {
		return DefaultFirePitAccount
	}
	return c.FirePitAccount
}

// protocolAccounts lists the accounts maintained by the protocol itself.
func (c *Config) protocolAccounts() []string {
	res := []string{c.TreasuryAccount, c.FlexAccount, c.FirePit()}
	if c.InsuranceFundAccount != "" {
		res = append(res, c.InsuranceFundAccount)
	}
	return res
}

func (c *Config) validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.TreasuryAccount == "" {
		return fmt.Errorf("%w: missing treasury account", ErrInvalidConfig)
	}
	if c.FlexAccount == "" {
		return fmt.Errorf("%w: missing flex account", ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for _, account := range c.protocolAccounts() {
		if seen[account] {
			return fmt.Errorf("%w: account %q used for more than one protocol role", ErrInvalidConfig, account)
		}
		seen[account] = true
	}

	var total uint64
	destinations := map[string]bool{}
	for _, rate := range c.TaxRates {
		if !seen[rate.Account] {
			return fmt.Errorf("%w: tax destination %q is not a protocol account", ErrInvalidConfig, rate.Account)
		}
		if destinations[rate.Account] {
			return fmt.Errorf("%w: duplicate tax destination %q", ErrInvalidConfig, rate.Account)
		}
		destinations[rate.Account] = true
		total += rate.Rate
		if rate.Rate > c.Params.TaxDivisor || total > c.Params.TaxDivisor {
			return fmt.Errorf("%w: tax rates exceed divisor %d", ErrInvalidConfig, c.Params.TaxDivisor)
		}
	}

	for account, tokens := range c.Genesis {
		if account == "" {
			return fmt.Errorf("%w: empty genesis account", ErrInvalidConfig)
		}
		if tokens == nil {
			return fmt.Errorf("%w: missing genesis balance for %q", ErrInvalidConfig, account)
		}
	}
	return nil
}
