// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package result

// Result pairs a value with an error so that the outcome of an operation can
// be passed through a single channel or future. The tick driver uses it to
// hand epoch reports, or the reason a tick failed, to waiting requesters.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failed Result. The value of a failed Result is the zero value
// of T.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// From converts a conventional (value, error) return pair into a Result. If
// err is not nil the value is dropped.
func From[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// Get returns the value and error contained in the Result.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Map applies the given function to the value of a successful Result. Failed
// results are propagated unchanged.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if r.err != nil {
		return Err[B](r.err)
	}
	return Ok(f(r.value))
}
