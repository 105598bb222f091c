// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rpc exposes a ledger through an HTTP/JSON interface.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashpy-labs/vulcan-spock/common/amount"
	"github.com/hashpy-labs/vulcan-spock/common/future"
	"github.com/hashpy-labs/vulcan-spock/common/result"
	"github.com/hashpy-labs/vulcan-spock/epoch"
	"github.com/hashpy-labs/vulcan-spock/journal"
	"github.com/hashpy-labs/vulcan-spock/ledger"
	"github.com/holiman/uint256"
)

// Ticker runs epoch ticks on request. It is implemented by epoch.Driver.
type Ticker interface {
	Request(ctx context.Context) future.Future[result.Result[ledger.Report]]
}

type Server struct {
	ledger  ledger.Ledger
	journal journal.Journal // < optional
	ticker  Ticker          // < optional
	router  *mux.Router
}

// NewServer creates the HTTP handler of a ledger. Epoch reports are only
// served if a journal is given, and ticks can only be requested if a ticker
// is given.
func NewServer(l ledger.Ledger, j journal.Journal, ticker Ticker) *Server {
	s := &Server{ledger: l, journal: j, ticker: ticker}
	r := mux.NewRouter()
	r.HandleFunc("/balance/{account}", s.handleGetBalance).Methods(http.MethodGet)
	r.HandleFunc("/supply", s.handleGetSupply).Methods(http.MethodGet)
	r.HandleFunc("/transfer", s.handleTransfer(l.Transfer)).Methods(http.MethodPost)
	r.HandleFunc("/gas-transfer", s.handleTransfer(l.GasTransfer)).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	if j != nil {
		r.HandleFunc("/epoch/{epoch:[0-9]+}", s.handleGetEpoch).Methods(http.MethodGet)
	}
	if ticker != nil {
		r.HandleFunc("/rebase", s.handleRebase).Methods(http.MethodPost)
	}
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves the ledger on the given address until the context is
// cancelled. Requests in progress are given a few seconds to complete.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- server.Shutdown(shutdownCtx)
	}()
	if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	writeJSON(w, http.StatusOK, toBalanceResponse(s.ledger.GetBalance(account)))
}

func (s *Server) handleGetSupply(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SupplyResponse{CirculatingSupply: amount.NewDecimal(s.ledger.GetCirculatingSupply())})
}

func (s *Server) handleTransfer(
	transfer func(from, to string, tokens *uint256.Int) (ledger.TransferResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request TransferRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&request); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid transfer request: %w", err))
			return
		}
		if request.From == "" || request.To == "" {
			writeError(w, http.StatusBadRequest, errors.New("invalid transfer request: missing account"))
			return
		}
		res, err := transfer(request.From, request.To, request.Amount.Int())
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, toTransferResponse(res))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(s.ledger.Status()))
}

func (s *Server) handleGetEpoch(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(mux.Vars(r)["epoch"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid epoch: %w", err))
		return
	}
	report, err := s.journal.Get(number)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ToReportResponse(report))
}

func (s *Server) handleRebase(w http.ResponseWriter, r *http.Request) {
	res, err := s.ticker.Request(r.Context()).AwaitContext(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	response, err := result.Map(res, ToReportResponse).Get()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, epoch.ErrNotRunning), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
