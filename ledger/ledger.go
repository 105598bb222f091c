// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ledger implements the accounting core of an elastic-supply token.
//
// Balances are kept in fragments, a fixed pool of internal units set at
// genesis. The circulating supply, expressed in base units, grows every epoch
// (a rebase) by changing only the number of fragments per base unit, so every
// account keeps its proportional share of the supply without any balance
// being touched. Ordinary transfers are taxed in favour of configured protocol
// accounts, and the fire pit account is periodically burned, shrinking the
// supply.
//
// All arithmetic is exact unsigned 256-bit integer arithmetic.
package ledger

//go:generate mockgen -source ledger.go -destination ledger_mocks.go -package ledger

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
)

// Ledger is the interface of an elastic-supply token ledger. Amounts passed to
// transfers are whole tokens, all amounts returned are base units. Fragments
// never cross this interface.
type Ledger interface {
	// GetBalance returns the balance of an account. Unknown accounts have a
	// zero balance.
	GetBalance(account string) Balance

	// GetCirculatingSupply returns the current circulating supply.
	GetCirculatingSupply() *uint256.Int

	// Transfer moves the given number of whole tokens from one account to
	// another, charging taxes if the sender is taxable. The sender pays the
	// full amount, the receiver obtains the amount minus taxes. On error, no
	// balance is modified.
	Transfer(from, to string, tokens *uint256.Int) (TransferResult, error)

	// GasTransfer is like Transfer but never charges taxes.
	GasTransfer(from, to string, tokens *uint256.Int) (TransferResult, error)

	// Rebase runs a single epoch tick. An error indicates an invariant
	// violation; the ledger is left as before the tick.
	Rebase() (Report, error)

	// Status summarizes the current protocol state.
	Status() Status

	// Check verifies the ledger invariants.
	Check() error

	// Export writes a deterministic snapshot of the ledger to the given writer
	// and returns its digest.
	Export(out io.Writer) (Digest, error)
}

// Balance is the balance of an account in base units.
type Balance struct {
	Account string
	Amount  *uint256.Int
}

// TransferResult is the outcome of a successful transfer.
type TransferResult struct {
	Balances [2]Balance // < sender and receiver after the transfer
	Taxes    []TaxShare // < taxes charged, empty for untaxed transfers
}

// Status is a summary of the protocol state.
type Status struct {
	Epoch             uint64 // the next epoch to be run
	State             RebaseState
	CirculatingSupply *uint256.Int
	MaxSupply         *uint256.Int
	FragmentsPerUnit  *uint256.Int
	BurnPending       bool
	Accounts          int
	Parameters        Parameters
}

// ledger is the unsynchronized Ledger implementation.
//
// NOTE: this implementation is NOT thread-safe. Use New to obtain an instance
// synchronizing all operations.
type ledger struct {
	params  Parameters
	derived derived
	firePit string
	tax     taxEngine

	balances balances
	supply   uint256.Int // in base units
	conv     converter

	epoch       uint64
	state       RebaseState
	burnPending bool
}

// New creates a ledger from the given configuration, allocating the genesis
// balances. The returned ledger is safe for concurrent use.
func New(cfg Config) (Ledger, error) {
	res, err := newLedger(cfg)
	if err != nil {
		return nil, err
	}
	return WrapIntoSyncedLedger(res), nil
}

func newLedger(cfg Config) (*ledger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	d, err := cfg.Params.derive()
	if err != nil {
		return nil, err
	}

	res := &ledger{
		params:   cfg.Params.clone(),
		derived:  d,
		firePit:  cfg.FirePit(),
		tax:      newTaxEngine(&cfg),
		balances: balances{},
		supply:   d.initialSupply,
	}
	res.conv = newConverter(&d.totalFragments, &d.scale, &res.supply)

	for _, account := range cfg.protocolAccounts() {
		res.balances[account] = uint256.Int{}
	}

	// The whole fragment pool is handed out at genesis; whatever is not
	// allocated to a genesis account ends up in the fire pit.
	allocated := new(uint256.Int)
	for account, tokens := range cfg.Genesis {
		fragments, overflow := res.conv.toInternal(tokens)
		if overflow {
			return nil, fmt.Errorf("%w: genesis balance of %s too large", ErrInvalidConfig, account)
		}
		if _, overflow := allocated.AddOverflow(allocated, fragments); overflow || allocated.Gt(&d.totalFragments) {
			return nil, fmt.Errorf("%w: genesis balances exceed the initial supply", ErrInvalidConfig)
		}
		res.balances.credit(account, fragments)
	}
	remainder := new(uint256.Int).Sub(&d.totalFragments, allocated)
	res.balances.credit(res.firePit, remainder)
	return res, nil
}

func (l *ledger) GetBalance(account string) Balance {
	return Balance{Account: account, Amount: l.displayBalance(account)}
}

func (l *ledger) displayBalance(account string) *uint256.Int {
	fragments, found := l.balances.get(account)
	if !found {
		return new(uint256.Int)
	}
	return l.conv.toDisplay(&fragments)
}

func (l *ledger) GetCirculatingSupply() *uint256.Int {
	return l.supply.Clone()
}

func (l *ledger) Transfer(from, to string, tokens *uint256.Int) (TransferResult, error) {
	return l.transfer(from, to, tokens, true)
}

func (l *ledger) GasTransfer(from, to string, tokens *uint256.Int) (TransferResult, error) {
	return l.transfer(from, to, tokens, false)
}

// transfer moves tokens between accounts. All amounts are computed and
// checked before the first balance is modified.
func (l *ledger) transfer(from, to string, tokens *uint256.Int, taxed bool) (TransferResult, error) {
	if tokens == nil {
		tokens = new(uint256.Int)
	}
	fragments, overflow := l.conv.toInternal(tokens)
	if overflow {
		return TransferResult{}, fmt.Errorf("%w: %s tokens exceed the fragment pool", ErrInsufficientBalance, tokens.Dec())
	}
	balance, found := l.balances.get(from)
	if !found || balance.Lt(fragments) {
		return TransferResult{}, fmt.Errorf("%w: %s holds %s, transfer requires %s",
			ErrInsufficientBalance, from, l.conv.toDisplay(&balance).Dec(), l.conv.toDisplay(fragments).Dec())
	}

	var levies []levy
	net := fragments.Clone()
	if taxed && l.tax.isTaxable(from, l.state) {
		var total *uint256.Int
		var err error
		if levies, total, err = l.tax.computeTax(fragments); err != nil {
			return TransferResult{}, err
		}
		net.Sub(net, total)
	}

	if err := l.balances.debit(from, fragments); err != nil {
		return TransferResult{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	l.balances.credit(to, net)
	taxes := make([]TaxShare, 0, len(levies))
	for _, cur := range levies {
		l.balances.credit(cur.account, &cur.fragments)
		taxes = append(taxes, TaxShare{Account: cur.account, Amount: l.conv.toDisplay(&cur.fragments)})
	}

	return TransferResult{
		Balances: [2]Balance{l.GetBalance(from), l.GetBalance(to)},
		Taxes:    taxes,
	}, nil
}

func (l *ledger) Rebase() (Report, error) {
	return l.rebase()
}

func (l *ledger) Status() Status {
	return Status{
		Epoch:             l.epoch,
		State:             l.state,
		CirculatingSupply: l.supply.Clone(),
		MaxSupply:         l.derived.maxSupply.Clone(),
		FragmentsPerUnit:  l.conv.ratio.Clone(),
		BurnPending:       l.burnPending,
		Accounts:          len(l.balances),
		Parameters:        l.params.clone(),
	}
}

// Check verifies that
//   - the circulating supply is positive and below the max supply,
//   - the conversion ratio matches the current supply,
//   - all fragments together do not exceed the fragment pool, and
//   - all balances together do not exceed the circulating supply.
func (l *ledger) Check() error {
	if l.supply.IsZero() {
		return fmt.Errorf("%w: circulating supply is zero", ErrInvariantViolation)
	}
	if l.supply.Gt(&l.derived.maxSupply) {
		return fmt.Errorf("%w: circulating supply %s exceeds max supply %s",
			ErrInvariantViolation, l.supply.Dec(), l.derived.maxSupply.Dec())
	}
	want := new(uint256.Int).Div(&l.derived.totalFragments, &l.supply)
	if !want.Eq(&l.conv.ratio) {
		return fmt.Errorf("%w: stale conversion ratio %s, expected %s",
			ErrInvariantViolation, l.conv.ratio.Dec(), want.Dec())
	}
	if !l.conv.totalFragments.Eq(&l.derived.totalFragments) {
		return fmt.Errorf("%w: fragment pool modified", ErrInvariantViolation)
	}
	fragments, err := l.balances.total()
	if err != nil {
		return err
	}
	if fragments.Gt(&l.derived.totalFragments) {
		return fmt.Errorf("%w: %s fragments allocated, pool holds %s",
			ErrInvariantViolation, fragments.Dec(), l.derived.totalFragments.Dec())
	}
	units := new(uint256.Int)
	for _, balance := range l.balances {
		units.Add(units, l.conv.toDisplay(&balance))
	}
	if units.Gt(&l.supply) {
		return fmt.Errorf("%w: balances sum up to %s, circulating supply is %s",
			ErrInvariantViolation, units.Dec(), l.supply.Dec())
	}
	return nil
}
