package repository

import (
	"errors"

	"finbridge/internal/remote"
	"finbridge/internal/result"
	"finbridge/internal/transport"
)

// ErrNoAccounts is returned when the backend holds no accounts for the
// user. This is a local logic fault, kept distinct from network failures.
var ErrNoAccounts = errors.New("no accounts found for the user")

// mapError classifies every failure leaving the request pipeline. The
// mapping is total: whatever went wrong, callers see exactly one error kind.
func mapError(err error) *result.Error {
	switch {
	case errors.Is(err, transport.ErrNoConnection):
		return &result.Error{Kind: result.KindNoConnection, Cause: err}
	case errors.Is(err, ErrNoAccounts):
		return &result.Error{Kind: result.KindNoAccount, Cause: err}
	}

	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) && statusErr.IsServerError() {
		return &result.Error{Kind: result.KindServer, Cause: err}
	}

	return &result.Error{Kind: result.KindUnknown, Cause: err}
}

// fail wraps a raw error into the failure variant of a Result.
func fail[T any](err error) result.Result[T] {
	return result.Fail[T](mapError(err))
}
