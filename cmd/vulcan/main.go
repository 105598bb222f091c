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
	"fmt"
	"os"

	"github.com/hashpy-labs/vulcan-spock/common/diagnostics"
	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./cmd/vulcan <command> <flags>

var commands = []*cli.Command{
	&ServeCmd,
	&SimulateCmd,
	&ExportCmd,
	&JournalCmd,
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "vulcan",
		Usage:    "elastic supply token ledger",
		Flags:    diagnostics.Flags(),
		Commands: commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
