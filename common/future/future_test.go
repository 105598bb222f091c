// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package future

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreate_PromiseAndFutureAreLinked(t *testing.T) {
	promise, future := Create[int]()
	promise.Fulfill(12)
	require.Equal(t, 12, future.Await())
}

func TestCreate_FulfillDoesNotBlock(t *testing.T) {
	promise, future := Create[int]()
	done := make(chan struct{})
	go func() {
		promise.Fulfill(1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fulfilling a promise blocked")
	}
	require.Equal(t, 1, future.Await())
}

func TestImmediate_FutureIsFulfilled(t *testing.T) {
	future := Immediate("hello")
	require.Equal(t, "hello", future.Await())
}

func TestAwaitContext_ReturnsFulfilledValue(t *testing.T) {
	value, err := Immediate(3).AwaitContext(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, value)
}

func TestAwaitContext_StopsWaitingOnCancellation(t *testing.T) {
	_, future := Create[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	value, err := future.AwaitContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, value)
}

func TestThen_FutureResultCanBeTransformed(t *testing.T) {
	promise1, future1 := Create[[]int]()
	future2 := Then(future1, func(value []int) int {
		return len(value)
	})

	promise1.Fulfill([]int{1, 2, 3, 4, 5})
	require.Equal(t, 5, future2.Await())
}
