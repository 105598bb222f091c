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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashpy-labs/vulcan-spock/common/diagnostics"
	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/journal/ldb"
	"github.com/hashpy-labs/vulcan-spock/journal/memory"
	"github.com/hashpy-labs/vulcan-spock/journal/sqlite"
	"github.com/hashpy-labs/vulcan-spock/rpc"
	"github.com/urfave/cli/v2"
)

const sqliteFileName = "journal.sqlite"

var (
	journalBackendFlag = cli.StringFlag{
		Name:  "journal",
		Usage: "journal backend for epoch reports: memory, ldb or sqlite",
		Value: "memory",
	}
	journalDirFlag = cli.StringFlag{
		Name:  "journal-dir",
		Usage: "directory of a persistent journal",
	}
)

var JournalCmd = cli.Command{
	Action: diagnostics.AddPerformanceDiagnosticsAction(doJournal),
	Name:   "journal",
	Usage:  "prints the epoch reports recorded in a persistent journal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     journalDirFlag.Name,
			Aliases:  []string{"dir"},
			Usage:    journalDirFlag.Usage,
			Required: true,
		},
		&cli.StringFlag{
			Name:    journalBackendFlag.Name,
			Aliases: []string{"backend"},
			Usage:   "journal backend: ldb or sqlite",
			Value:   "ldb",
		},
	},
}

// openJournal opens a journal of the given kind. Persistent journals are
// stored in the given directory, which is created if needed.
func openJournal(kind, directory string) (journal.Journal, error) {
	switch kind {
	case "memory":
		return memory.New(), nil
	case "ldb", "sqlite":
	default:
		return nil, fmt.Errorf("unknown journal backend %q", kind)
	}
	if directory == "" {
		return nil, fmt.Errorf("the %s journal requires --%s", kind, journalDirFlag.Name)
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	if kind == "ldb" {
		return ldb.Open(directory)
	}
	return sqlite.Open(filepath.Join(directory, sqliteFileName))
}

func doJournal(context *cli.Context) (err error) {
	directory := context.String(journalDirFlag.Name)
	if _, err := os.Stat(directory); err != nil {
		return fmt.Errorf("no journal found: %w", err)
	}
	j, err := openJournal(context.String(journalBackendFlag.Name), directory)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, j.Close())
	}()

	size, err := j.Len()
	if err != nil {
		return err
	}
	out := context.App.Writer
	fmt.Fprintf(out, "%d epochs recorded\n", size)
	for i := uint64(0); i < size; i++ {
		report, err := j.Get(i)
		if err != nil {
			return err
		}
		data, err := json.Marshal(rpc.ToReportResponse(report))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	}
	return nil
}
