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
	"io"
	"sync"

	"github.com/holiman/uint256"
)

// syncedLedger wraps a ledger, serializing all operations. Balances, supply,
// conversion ratio and epoch state form a single exclusion domain, so a
// transfer never interleaves with a rebase or burn.
type syncedLedger struct {
	ledger Ledger
	mu     sync.Mutex
}

// WrapIntoSyncedLedger wraps the given ledger such that all its operations
// are mutually exclusive. Wrapping an already synced ledger is a no-op.
func WrapIntoSyncedLedger(ledger Ledger) Ledger {
	if ledger == nil {
		return nil
	}
	if _, ok := ledger.(*syncedLedger); ok {
		return ledger
	}
	return &syncedLedger{ledger: ledger}
}

func (s *syncedLedger) GetBalance(account string) Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GetBalance(account)
}

func (s *syncedLedger) GetCirculatingSupply() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GetCirculatingSupply()
}

func (s *syncedLedger) Transfer(from, to string, tokens *uint256.Int) (TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transfer(from, to, tokens)
}

func (s *syncedLedger) GasTransfer(from, to string, tokens *uint256.Int) (TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GasTransfer(from, to, tokens)
}

func (s *syncedLedger) Rebase() (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Rebase()
}

func (s *syncedLedger) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Status()
}

func (s *syncedLedger) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Check()
}

func (s *syncedLedger) Export(out io.Writer) (Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Export(out)
}
