// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/hashpy-labs/vulcan-spock/common/diagnostics"
	"github.com/hashpy-labs/vulcan-spock/config"
	"github.com/hashpy-labs/vulcan-spock/epoch"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = cli.StringFlag{
		Name:     "config",
		Usage:    "protocol configuration file",
		Required: true,
	}
	envFlag = cli.StringFlag{
		Name:  "env",
		Usage: ".env file overriding the configuration",
	}
	epochsFlag = cli.Uint64Flag{
		Name:  "epochs",
		Usage: "number of epochs to simulate",
		Value: 96,
	}
	transfersFlag = cli.StringFlag{
		Name:  "transfers",
		Usage: "JSON file with a list of {from, to, amount} transfers applied before the first epoch",
	}
	quietFlag = cli.BoolFlag{
		Name:  "quiet",
		Usage: "only report progress instead of every epoch",
	}
)

var SimulateCmd = cli.Command{
	Action: diagnostics.AddPerformanceDiagnosticsAction(doSimulate),
	Name:   "simulate",
	Usage:  "runs a number of epochs in-process and prints the resulting balances",
	Flags: []cli.Flag{
		&configFlag,
		&envFlag,
		&epochsFlag,
		&transfersFlag,
		&quietFlag,
	},
}

type transfer struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Amount amount.Decimal `json:"amount"`
}

func loadTransfers(path string) ([]transfer, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transfers: %w", err)
	}
	var res []transfer
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("invalid transfers file %s: %w", path, err)
	}
	return res, nil
}

type simulation struct {
	file     config.File
	ledger   ledger.Ledger
	accounts map[string]struct{}
}

// simulate creates a ledger from the configuration, applies the transfers
// and runs the given number of epochs with invariant checks enabled.
func simulate(context *cli.Context, logger *epoch.Log) (*simulation, error) {
	file, err := config.Load(context.String(configFlag.Name), context.String(envFlag.Name))
	if err != nil {
		return nil, err
	}
	transfers, err := loadTransfers(context.String(transfersFlag.Name))
	if err != nil {
		return nil, err
	}
	cfg := file.LedgerConfig()
	l, err := ledger.New(cfg)
	if err != nil {
		return nil, err
	}

	res := &simulation{file: file, ledger: l, accounts: map[string]struct{}{}}
	for _, account := range []string{cfg.TreasuryAccount, cfg.FlexAccount, cfg.FirePit(), cfg.InsuranceFundAccount} {
		if account != "" {
			res.accounts[account] = struct{}{}
		}
	}
	for account := range cfg.Genesis {
		res.accounts[account] = struct{}{}
	}

	decimals := cfg.Params.Decimals
	for _, cur := range transfers {
		res.accounts[cur.From] = struct{}{}
		res.accounts[cur.To] = struct{}{}
		tokens := cur.Amount.Int()
		if _, err := l.Transfer(cur.From, cur.To, tokens); err != nil {
			logger.Printf("transfer of %s from %s to %s failed: %v", amount.Commify(tokens), cur.From, cur.To, err)
			continue
		}
		logger.Printf("transferred %s from %s to %s, balances %s / %s",
			amount.Commify(tokens), cur.From, cur.To,
			amount.FormatTokens(l.GetBalance(cur.From).Amount, decimals),
			amount.FormatTokens(l.GetBalance(cur.To).Amount, decimals),
		)
	}

	genesis := file.GenesisTime
	if genesis.IsZero() {
		genesis = time.Now()
	}
	var reporters []epoch.Reporter
	if !context.Bool(quietFlag.Name) {
		reporters = append(reporters, epoch.NewLogReporter(logger, genesis, cfg.Params))
	}
	progress := logger.NewProgressTracker("simulated %d epochs, %.2f epochs/s", 10_000)
	reporters = append(reporters, epoch.ReporterFunc(func(ledger.Report) error {
		progress.Step(1)
		return nil
	}))
	driver := epoch.NewDriver(l, epoch.Config{
		Reporters:       reporters,
		CheckInvariants: true,
	})

	epochs := context.Uint64(epochsFlag.Name)
	for i := uint64(0); i < epochs; i++ {
		if err := context.Context.Err(); err != nil {
			return nil, err
		}
		if _, err := driver.Step(); err != nil {
			return nil, err
		}
	}
	return res, driver.Err()
}

func (s *simulation) printBalances(out io.Writer) {
	decimals := s.file.LedgerConfig().Params.Decimals
	fmt.Fprintf(out, "Circulating supply: %s\n", amount.FormatTokens(s.ledger.GetCirculatingSupply(), decimals))
	for _, account := range slices.Sorted(maps.Keys(s.accounts)) {
		balance := s.ledger.GetBalance(account)
		fmt.Fprintf(out, "Balance of %s: %s\n", account, amount.FormatTokens(balance.Amount, decimals))
	}
}

func doSimulate(context *cli.Context) error {
	logger := epoch.NewLog(context.App.ErrWriter)
	res, err := simulate(context, logger)
	if err != nil {
		return err
	}
	res.printBalances(context.App.Writer)
	return nil
}
