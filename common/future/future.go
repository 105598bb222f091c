// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package future provides single-shot placeholders for values produced by
// another goroutine. A Promise is held by the producer and fulfilled exactly
// once; the matching Future is held by the consumer and awaited.
//
// The tick driver hands out futures for manually requested ticks:
//
//	promise, res := future.Create[T]()
//	requests <- promise
//	return res
//
// and fulfills the promise from its loop once the tick completed.
package future

import "context"

// Promise is the producer side of a Future.
type Promise[T any] struct {
	c chan<- T
}

// Future is a value that becomes available once the matching Promise is
// fulfilled. A Future can only be consumed once.
type Future[T any] struct {
	c <-chan T
}

// Create returns a linked Promise and Future. Fulfilling the promise never
// blocks.
func Create[T any]() (Promise[T], Future[T]) {
	ch := make(chan T, 1)
	return Promise[T]{c: ch}, Future[T]{c: ch}
}

// Immediate creates an already fulfilled Future.
func Immediate[T any](value T) Future[T] {
	ch := make(chan T, 1)
	ch <- value
	close(ch)
	return Future[T]{c: ch}
}

// Fulfill makes the value available to the Future. It must be called at most
// once.
func (p Promise[T]) Fulfill(value T) {
	p.c <- value
	close(p.c)
}

// Await blocks until the Future is fulfilled.
func (f Future[T]) Await() T {
	return <-f.c
}

// AwaitContext is like Await but gives up when the context is done. If the
// context ends first, the context's error is returned; the value may still be
// produced but is discarded.
func (f Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case value := <-f.c:
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then derives a Future by applying transform to the value of f once it is
// available.
func Then[A, B any](f Future[A], transform func(A) B) Future[B] {
	promise, res := Create[B]()
	go func() {
		promise.Fulfill(transform(f.Await()))
	}()
	return res
}
