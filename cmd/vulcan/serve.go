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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/diagnostics"
	"github.com/hashpy-labs/vulcan-spock/config"
	"github.com/hashpy-labs/vulcan-spock/epoch"
	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/hashpy-labs/vulcan-spock/rpc"
	"github.com/urfave/cli/v2"
)

var errJournalNotEmpty = errors.New("journal already holds reports of an earlier run")

var ServeCmd = cli.Command{
	Action: diagnostics.AddPerformanceDiagnosticsAction(doServe),
	Name:   "serve",
	Usage:  "runs the RPC server and ticks the ledger until interrupted",
	Flags: []cli.Flag{
		&configFlag,
		&envFlag,
		&journalBackendFlag,
		&journalDirFlag,
	},
}

func doServe(context *cli.Context) (err error) {
	logger := epoch.NewLog(context.App.ErrWriter)

	file, err := config.Load(context.String(configFlag.Name), context.String(envFlag.Name))
	if err != nil {
		return err
	}
	cfg := file.LedgerConfig()
	l, err := ledger.New(cfg)
	if err != nil {
		return err
	}

	j, err := openJournal(context.String(journalBackendFlag.Name), context.String(journalDirFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, j.Close())
	}()
	// The ledger starts from genesis, so the journal must not hold reports of
	// an earlier run.
	size, err := j.Len()
	if err != nil {
		return err
	}
	if size > 0 {
		return fmt.Errorf("%w: %d epochs recorded in %s", errJournalNotEmpty, size, context.String(journalDirFlag.Name))
	}

	genesis := file.GenesisTime
	if genesis.IsZero() {
		genesis = time.Now()
	}
	driver := epoch.NewDriver(l, epoch.Config{
		Interval: file.Interval(),
		Reporters: []epoch.Reporter{
			epoch.NewLogReporter(logger, genesis, cfg.Params),
			epoch.NewJournalReporter(j),
		},
		CheckInvariants: true,
	})

	ctx, stop := signal.NotifyContext(context.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, logger, l, driver, j, file.Address())
}

// serve runs the tick driver and the RPC server until the context is done or
// one of them fails. Both are stopped before serve returns.
func serve(ctx context.Context, logger *epoch.Log, l ledger.Ledger, driver *epoch.Driver, j journal.Journal, address string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driverDone := make(chan error, 1)
	go func() {
		err := driver.Run(ctx)
		if err != nil {
			err = fmt.Errorf("epoch driver failed: %w", err)
		}
		cancel()
		driverDone <- err
	}()

	logger.Printf("Serving ledger on %s, %d accounts", address, l.Status().Accounts)
	serverErr := rpc.NewServer(l, j, driver).ListenAndServe(ctx, address)
	cancel()
	driverErr := <-driverDone
	logger.Printf("Stopped at epoch %d", l.Status().Epoch)
	return errors.Join(serverErr, driverErr, driver.Err())
}
