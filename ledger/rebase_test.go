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
	"math/rand/v2"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// burnConfig holds the given number of tokens in alice's account and leaves
// the remainder of the supply in the fire pit.
func burnConfig(aliceTokens, rebaseRate uint64) Config {
	cfg := testConfig()
	cfg.Params.RebaseRate = rebaseRate
	cfg.Genesis = map[string]*uint256.Int{alice: tokens(aliceTokens)}
	return cfg
}

func rebase(t *testing.T, l *ledger, ticks int) Report {
	t.Helper()
	var res Report
	for range ticks {
		var err error
		res, err = l.Rebase()
		require.NoError(t, err)
		require.NoError(t, l.Check())
	}
	return res
}

func TestRebase_FirstEpochDoesNotGrow(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t, testConfig())
	ratio := l.conv.ratio

	report := rebase(t, l, 1)
	require.Equal(uint64(0), report.Epoch)
	require.Equal(RebaseActive, report.State)
	require.Equal(tokens(1_000_000), report.CirculatingSupply)
	require.Equal(tokens(0), report.Grown)
	require.Equal(tokens(0), report.Burned)
	require.Equal(&ratio, report.FragmentsPerUnit)
	require.Equal(uint64(1), l.Status().Epoch)
}

func TestRebase_SupplyGrowsByRate(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t, testConfig())
	before := l.conv.ratio

	rebase(t, l, 1)
	report := rebase(t, l, 1)
	require.Equal(uint64(1), report.Epoch)
	require.Equal(tokens(10_000), report.Grown)
	require.Equal(tokens(1_010_000), report.CirculatingSupply)
	require.True(report.FragmentsPerUnit.Lt(&before))

	// Holders keep their share of the supply.
	require.Equal(tokens(1_010_000), l.GetBalance(alice).Amount)

	report = rebase(t, l, 1)
	require.Equal(tokens(10_100), report.Grown)
	require.Equal(tokens(1_020_100), l.GetCirculatingSupply())
}

func TestRebase_GrowthTruncates(t *testing.T) {
	cfg := testConfig()
	cfg.Params.RebaseRate = 1256
	cfg.Params.RebaseDivisor = 100_000_000
	l := newTestLedger(t, cfg)

	report := rebase(t, l, 2)
	// 1,000,000 * 1256 / 100,000,000 = 12.56
	require.Equal(t, tokens(12), report.Grown)
	require.Equal(t, tokens(1_000_012), report.CirculatingSupply)
}

func TestRebase_ExceedingMaxSupplyEndsRebasing(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.Params.MaxSupply = tokens(1_015_000)
	l := newTestLedger(t, cfg)

	rebase(t, l, 2)
	require.Equal(RebaseActive, l.state)
	ratio := l.conv.ratio

	report := rebase(t, l, 1)
	require.Equal(RebaseEnded, report.State)
	require.Equal(tokens(0), report.Grown)
	require.Equal(tokens(1_010_000), report.CirculatingSupply)
	require.Equal(&ratio, report.FragmentsPerUnit)
}

func TestRebase_OverflowingGrowthEndsRebasing(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.Params.InitialSupply = new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	cfg.Params.MaxSupply = new(uint256.Int).Lsh(uint256.NewInt(1), 250)
	cfg.Params.RebaseRate = ^uint64(0)
	cfg.Params.RebaseDivisor = 1
	cfg.Genesis = map[string]*uint256.Int{alice: tokens(1)}
	l := newTestLedger(t, cfg)

	// The burn flagged at epoch 0 runs before the overflowing growth.
	rebase(t, l, 1)
	report := rebase(t, l, 1)
	require.Equal(uint64(1), report.Epoch)
	require.Equal(RebaseEnded, report.State)
	require.Equal(tokens(0), report.Grown)
	require.Equal(new(uint256.Int).Lsh(uint256.NewInt(1), 199), report.Burned)
	require.Equal(new(uint256.Int).Lsh(uint256.NewInt(1), 199), report.CirculatingSupply)
	require.False(l.burnPending)

	report = rebase(t, l, 1)
	require.Equal(uint64(2), report.Epoch)
	require.Equal(RebaseEnded, report.State)
	require.Equal(uint64(3), l.Status().Epoch)
}

func TestRebase_ReachingMaxSupplyExactlyKeepsRebasing(t *testing.T) {
	cfg := testConfig()
	cfg.Params.MaxSupply = tokens(1_010_000)
	l := newTestLedger(t, cfg)

	report := rebase(t, l, 2)
	require.Equal(t, RebaseActive, report.State)
	require.Equal(t, tokens(1_010_000), report.CirculatingSupply)

	report = rebase(t, l, 1)
	require.Equal(t, RebaseEnded, report.State)
}

func TestRebase_EndedTicksOnlyAdvanceTheEpoch(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.Params.MaxSupply = cfg.Params.InitialSupply
	l := newTestLedger(t, cfg)

	rebase(t, l, 2)
	require.Equal(RebaseEnded, l.state)
	before := l.Status()
	aliceBefore := fragmentsOf(l, alice)

	report := rebase(t, l, 5)
	after := l.Status()
	require.Equal(uint64(6), report.Epoch)
	require.Equal(before.Epoch+5, after.Epoch)
	require.Equal(before.CirculatingSupply, after.CirculatingSupply)
	require.Equal(before.FragmentsPerUnit, after.FragmentsPerUnit)
	require.Equal(aliceBefore, fragmentsOf(l, alice))
	require.Equal(RebaseEnded, after.State)

	// Burn boundaries are still recorded, but no burn is run.
	require.True(after.BurnPending)
}

func TestBurn_FirePitAtThresholdIsBurned(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t, burnConfig(490_000, 0))
	require.Equal(tokens(510_000), l.GetBalance(DefaultFirePitAccount).Amount)
	ratio := l.conv.ratio
	firePitBefore := fragmentsOf(l, DefaultFirePitAccount)

	report := rebase(t, l, 1)
	require.Equal(tokens(0), report.Burned)
	require.True(l.burnPending)

	report = rebase(t, l, 1)
	require.Equal(tokens(500_000), report.Burned)
	require.Equal(tokens(500_000), report.CirculatingSupply)
	require.False(l.burnPending)

	firePitAfter := fragmentsOf(l, DefaultFirePitAccount)
	delta := new(uint256.Int).Sub(&firePitBefore, &firePitAfter)
	require.Equal(new(uint256.Int).Mul(tokens(500_000), &ratio), delta)

	// Halving the supply doubles the fragments per unit.
	require.Equal(new(uint256.Int).Mul(&ratio, tokens(2)), report.FragmentsPerUnit)
	require.Equal(tokens(5_000), report.FirePitBalance)
	require.Equal(tokens(245_000), l.GetBalance(alice).Amount)
}

func TestBurn_FirePitBelowThresholdIsKept(t *testing.T) {
	require := require.New(t)
	l := newTestLedger(t, burnConfig(490_001, 0))
	firePitBefore := fragmentsOf(l, DefaultFirePitAccount)

	report := rebase(t, l, 2)
	require.Equal(tokens(0), report.Burned)
	require.Equal(tokens(1_000_000), report.CirculatingSupply)
	require.Equal(firePitBefore, fragmentsOf(l, DefaultFirePitAccount))
	require.False(l.burnPending, "a skipped burn clears the pending flag")
}

func TestBurn_RunsBeforeGrowth(t *testing.T) {
	l := newTestLedger(t, burnConfig(490_000, 1))

	report := rebase(t, l, 2)
	require.Equal(t, tokens(500_000), report.Burned)
	require.Equal(t, tokens(5_000), report.Grown)
	require.Equal(t, tokens(505_000), report.CirculatingSupply)
}

func TestBurn_IsDeferredToTheTickAfterTheBoundary(t *testing.T) {
	require := require.New(t)
	cfg := burnConfig(100_000, 0)
	cfg.Params.BurnTargetPercent = 10
	l := newTestLedger(t, cfg)

	burned := []*uint256.Int{}
	pending := []bool{}
	for range 6 {
		report := rebase(t, l, 1)
		burned = append(burned, report.Burned)
		pending = append(pending, l.burnPending)
	}

	require.Equal([]*uint256.Int{
		tokens(0),       // epoch 0, boundary
		tokens(100_000), // 10% of 1,000,000
		tokens(0),
		tokens(0),
		tokens(0),      // epoch 4, boundary
		tokens(90_000), // 10% of 900,000
	}, burned)
	require.Equal([]bool{true, false, false, false, true, false}, pending)
	require.Equal(tokens(810_000), l.GetCirculatingSupply())
}

func TestBurn_SupplyRemainsPositive(t *testing.T) {
	cfg := burnConfig(0, 0)
	cfg.Params.BurnThresholdPercent = 100
	cfg.Params.BurnTargetPercent = 99
	cfg.Params.BurnInterval = 1
	l := newTestLedger(t, cfg)

	// Every tick burns 99% of the supply until too little is left.
	for range 10 {
		rebase(t, l, 1)
		require.False(t, l.GetCirculatingSupply().IsZero())
	}
}

func TestLedger_InvariantsHoldUnderRandomOperations(t *testing.T) {
	cfg := testConfig()
	cfg.Exempt = []string{carol}
	cfg.Genesis = map[string]*uint256.Int{
		alice: tokens(400_000),
		bob:   tokens(300_000),
		carol: tokens(300_000),
	}
	// Keep the fire pit far below the burn threshold.
	cfg.TaxRates = []TaxRate{{Account: treasury, Rate: 3}, {Account: flex, Rate: 2}}
	l := newTestLedger(t, cfg)

	accounts := []string{alice, bob, carol, treasury, flex, "0xDave", "0xErin"}
	rng := rand.New(rand.NewPCG(42, 7))
	for i := range 2_000 {
		if rng.IntN(20) == 0 {
			_, err := l.Rebase()
			require.NoError(t, err)
		} else {
			from := accounts[rng.IntN(len(accounts))]
			to := accounts[rng.IntN(len(accounts))]
			balance := l.GetBalance(from).Amount.Uint64()
			amount := tokens(rng.Uint64N(balance + 1))
			var err error
			if rng.IntN(2) == 0 {
				_, err = l.Transfer(from, to, amount)
			} else {
				_, err = l.GasTransfer(from, to, amount)
			}
			if _, found := l.balances.get(from); found {
				require.NoError(t, err, "step %d", i)
			} else {
				require.ErrorIs(t, err, ErrInsufficientBalance, "step %d", i)
			}
		}
		require.NoError(t, l.Check(), "step %d", i)

		sum := new(uint256.Int)
		for _, account := range accounts {
			sum.Add(sum, l.GetBalance(account).Amount)
		}
		sum.Add(sum, l.GetBalance(DefaultFirePitAccount).Amount)
		supply := l.GetCirculatingSupply()
		require.False(t, sum.Gt(supply), "step %d", i)

		// Truncation loses less than one unit per account.
		slack := new(uint256.Int).Add(sum, uint256.NewInt(uint64(len(l.balances))))
		require.False(t, slack.Lt(supply), "step %d", i)
	}
	require.Equal(t, RebaseActive, l.state)
}
