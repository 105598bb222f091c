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
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/hashpy-labs/vulcan-spock/common/diagnostics"
	"github.com/hashpy-labs/vulcan-spock/epoch"
	"github.com/urfave/cli/v2"
)

var outFlag = cli.StringFlag{
	Name:     "out",
	Usage:    "target file of the snapshot",
	Required: true,
}

var ExportCmd = cli.Command{
	Action: diagnostics.AddPerformanceDiagnosticsAction(doExport),
	Name:   "export",
	Usage:  "simulates a number of epochs and writes a snapshot of the resulting ledger",
	Flags: []cli.Flag{
		&configFlag,
		&envFlag,
		&epochsFlag,
		&transfersFlag,
		&quietFlag,
		&outFlag,
	},
}

func doExport(context *cli.Context) (err error) {
	logger := epoch.NewLog(context.App.ErrWriter)
	res, err := simulate(context, logger)
	if err != nil {
		return err
	}

	target := context.String(outFlag.Name)
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	writer := bufio.NewWriter(file)
	digest, err := res.ledger.Export(writer)
	if err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	logger.Printf("Snapshot written to %s", target)
	fmt.Fprintf(context.App.Writer, "%v\n", digest)
	return nil
}
