// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package diagnostics

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	runtimepprof "runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"
)

var (
	DiagnosticPortFlag = cli.IntFlag{
		Name:  "diagnostic-port",
		Usage: "enable hosting of a pprof diagnostic server at the given port on localhost",
		Value: 0,
	}
	CpuProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "sets the target file for storing CPU profiles to, disabled if empty",
		Value: "",
	}
	TraceFlag = cli.StringFlag{
		Name:  "tracefile",
		Usage: "sets the target file for traces to, disabled if empty",
		Value: "",
	}
)

// Flags lists the flags consumed by AddPerformanceDiagnosticsAction.
func Flags() []cli.Flag {
	return []cli.Flag{&DiagnosticPortFlag, &CpuProfileFlag, &TraceFlag}
}

// AddPerformanceDiagnosticsAction wraps an action such that, depending on the
// diagnostic flags, a pprof server is hosted, a CPU profile is recorded, and
// an execution trace is written while the action runs.
func AddPerformanceDiagnosticsAction(action cli.ActionFunc) cli.ActionFunc {
	return func(context *cli.Context) (err error) {
		server, err := startDiagnosticServer(context.Int(DiagnosticPortFlag.Name))
		if err != nil {
			return err
		}
		if server != nil {
			defer func() {
				err = errors.Join(err, server.Close())
			}()
		}

		if fileName := strings.TrimSpace(context.String(CpuProfileFlag.Name)); fileName != "" {
			stop, startErr := startCpuProfiler(fileName)
			if startErr != nil {
				return startErr
			}
			defer func() {
				err = errors.Join(err, stop())
			}()
		}

		if fileName := strings.TrimSpace(context.String(TraceFlag.Name)); fileName != "" {
			stop, startErr := startTracer(fileName)
			if startErr != nil {
				return startErr
			}
			defer func() {
				err = errors.Join(err, stop())
			}()
		}

		return action(context)
	}
}

func newDiagnosticRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	return router
}

// startDiagnosticServer hosts the pprof endpoints on localhost. Ports outside
// the valid range disable the server.
func startDiagnosticServer(port int) (*http.Server, error) {
	if port <= 0 || port >= (1<<16) {
		return nil, nil
	}
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to start diagnostic server: %w", err)
	}
	log.Printf("Starting diagnostic server at http://localhost:%d/debug/pprof/", port)
	log.Printf("Block and mutex sampling rate is set to 100%% for diagnostics, which may impact overall performance")
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	server := &http.Server{Handler: newDiagnosticRouter()}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("diagnostic server failed: %v", err)
		}
	}()
	return server, nil
}

func startCpuProfiler(filename string) (func() error, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := runtimepprof.StartCPUProfile(f); err != nil {
		return nil, errors.Join(fmt.Errorf("could not start CPU profile: %w", err), f.Close())
	}
	return func() error {
		runtimepprof.StopCPUProfile()
		return f.Close()
	}, nil
}

func startTracer(filename string) (func() error, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Start(f); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to start trace: %w", err), f.Close())
	}
	return func() error {
		trace.Stop()
		return f.Close()
	}, nil
}
