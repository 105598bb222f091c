// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package epoch drives the rebase ticks of a ledger. A Driver is the only
// component advancing epochs; ticks never overlap, whether they are triggered
// by the timer, requested by a client, or stepped manually.
package epoch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashpy-labs/vulcan-spock/common/future"
	"github.com/hashpy-labs/vulcan-spock/common/result"
	"github.com/hashpy-labs/vulcan-spock/ledger"
)

var (
	ErrAlreadyRunning = errors.New("driver is already running")
	ErrNotRunning     = errors.New("driver is not running")
)

type Config struct {
	// Interval is the wall-clock time between two timer ticks. Zero disables
	// the timer; ticks are then only run on request.
	Interval time.Duration

	// Reporters receive the report of every tick, in order.
	Reporters []Reporter

	// CheckInvariants runs the ledger's invariant check after every tick.
	CheckInvariants bool
}

type Driver struct {
	ledger ledger.Ledger
	config Config

	tickMutex sync.Mutex
	requests  chan future.Promise[result.Result[ledger.Report]]
	running   atomic.Bool
	stopped   chan struct{} // < closed when Run returns
	issues    issueCollector
}

func NewDriver(l ledger.Ledger, config Config) *Driver {
	return &Driver{
		ledger:   l,
		config:   config,
		requests: make(chan future.Promise[result.Result[ledger.Report]]),
		stopped:  make(chan struct{}),
	}
}

// Step runs a single tick synchronously. The returned error is non-nil only
// if the ledger failed to tick or, when enabled, its invariants are violated.
// Failing reporters do not fail the step; their issues are available through
// Err.
func (d *Driver) Step() (ledger.Report, error) {
	d.tickMutex.Lock()
	defer d.tickMutex.Unlock()

	report, err := d.ledger.Rebase()
	if err != nil {
		return ledger.Report{}, err
	}
	if d.config.CheckInvariants {
		if err := d.ledger.Check(); err != nil {
			return report, fmt.Errorf("after epoch %d: %w", report.Epoch, err)
		}
	}
	for _, reporter := range d.config.Reporters {
		if err := reporter.Report(report); err != nil {
			d.issues.HandleIssue(fmt.Errorf("failed to report epoch %d: %w", report.Epoch, err))
		}
	}
	return report, nil
}

// Run ticks the ledger until the context is cancelled or a tick fails. A
// failing tick ends the loop and its error is returned. Cancellation only
// prevents future ticks; a tick in progress is completed. Run may only be
// called once per driver.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(d.stopped)

	var ticks <-chan time.Time
	if d.config.Interval > 0 {
		ticker := time.NewTicker(d.config.Interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			if _, err := d.Step(); err != nil {
				return err
			}
		case promise := <-d.requests:
			res := result.From(d.Step())
			promise.Fulfill(res)
			if _, err := res.Get(); err != nil {
				return err
			}
		}
	}
}

// Request asks the running loop for an immediate tick. The resulting future
// is fulfilled once the tick completed. If the loop is not running, or the
// context ends before the loop accepted the request, the future carries the
// corresponding error.
func (d *Driver) Request(ctx context.Context) future.Future[result.Result[ledger.Report]] {
	if !d.running.Load() {
		return future.Immediate(result.Err[ledger.Report](ErrNotRunning))
	}
	promise, res := future.Create[result.Result[ledger.Report]]()
	select {
	case d.requests <- promise:
	case <-d.stopped:
		promise.Fulfill(result.Err[ledger.Report](ErrNotRunning))
	case <-ctx.Done():
		promise.Fulfill(result.Err[ledger.Report](ctx.Err()))
	}
	return res
}

// Err returns the issues reported since the last call and resets them.
func (d *Driver) Err() error {
	return d.issues.Collect()
}

// issueCollector keeps the first 10 issues and counts any further ones.
type issueCollector struct {
	issues      []error
	extraIssues int
	mutex       sync.Mutex
}

func (c *issueCollector) HandleIssue(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if len(c.issues) < 10 {
		c.issues = append(c.issues, err)
	} else {
		c.extraIssues++
	}
}

func (c *issueCollector) Collect() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.extraIssues > 0 {
		c.issues = append(c.issues, fmt.Errorf("%d additional errors truncated", c.extraIssues))
	}
	res := errors.Join(c.issues...)
	c.issues = c.issues[:0]
	c.extraIssues = 0
	return res
}
