// Package result defines the closed outcome type returned by every
// repository operation: either a success carrying a value, or a classified
// network error. Nothing else crosses the repository boundary.
package result

import "fmt"

// Kind classifies the failure reasons a caller can observe.
type Kind int

const (
	// KindUnknown is the catch-all for anything not classified below:
	// 4xx client errors, malformed payloads, unexpected failures.
	KindUnknown Kind = iota

	// KindNoConnection means the connectivity gate aborted the call
	// before any transport I/O was attempted.
	KindNoConnection

	// KindServer means the server answered with a 5xx status.
	KindServer

	// KindNoAccount means the backend holds no accounts for this user.
	// This is a local logic fault, not a network failure.
	KindNoAccount
)

// Error is the failure variant carried by a Result. Cause is optional and
// preserved for diagnostics; Kind is always set.
type Error struct {
	Kind  Kind
	Cause error
}

// Description returns the human-readable text callers surface to users.
func (e *Error) Description() string {
	switch e.Kind {
	case KindNoConnection:
		return "No internet connection"
	case KindServer:
		return "Server error"
	case KindNoAccount:
		return "No accounts found for the user"
	default:
		return "Unknown error"
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Description(), e.Cause)
	}
	return e.Description()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result is a two-variant outcome: exactly one of a value or an *Error.
// The zero value is a success carrying T's zero value; use Ok and Fail.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a classified error.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

// IsOK reports whether the result is the success variant.
func (r Result[T]) IsOK() bool {
	return r.err == nil
}

// Value returns the success value. Meaningful only when IsOK is true.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil for the success variant.
func (r Result[T]) Err() *Error {
	return r.err
}

// Fold invokes exactly one of the given functions depending on the variant.
func (r Result[T]) Fold(onSuccess func(T), onError func(*Error)) {
	if r.err != nil {
		onError(r.err)
		return
	}
	onSuccess(r.value)
}
