// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package epoch

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Log is a logger prefixing each line with the time elapsed since its
// creation.
type Log struct {
	logger *log.Logger
	start  time.Time
}

// NewLog creates a log writing to the given writer. A nil writer logs to
// stderr.
func NewLog(out io.Writer) *Log {
	if out == nil {
		out = os.Stderr
	}
	return &Log{
		logger: log.New(out, "", 0),
		start:  time.Now(),
	}
}

func (l *Log) Printf(format string, v ...any) {
	elapsed := time.Since(l.start).Round(time.Second)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	l.logger.Printf("[t=%4d:%02d] %s", minutes, seconds, fmt.Sprintf(format, v...))
}

// NewProgressTracker creates a tracker logging a progress line every step
// items. The format receives the total number of items and the rate of items
// per second since the last line.
func (l *Log) NewProgressTracker(format string, step int) *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{
		log:    l,
		format: format,
		step:   step,
		last:   now,
	}
}

type ProgressTracker struct {
	log     *Log
	format  string
	step    int
	counter int
	last    time.Time
}

// Step records the given number of processed items.
func (t *ProgressTracker) Step(n int) {
	if t.step <= 0 {
		return
	}
	before := t.counter / t.step
	t.counter += n
	if t.counter/t.step == before {
		return
	}
	now := time.Now()
	rate := float64(t.step) / now.Sub(t.last).Seconds()
	t.log.Printf(t.format, t.counter, rate)
	t.last = now
}
