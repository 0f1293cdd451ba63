package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// Kind classifies a failure. Each kind maps to exactly one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidOperation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the service-level error every layer above the repositories
// returns. Msg is safe to show to clients unless Kind is internal.
type Error struct {
	Kind       Kind
	Msg        string
	Details    []string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches a kind and client message to cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Validation reports malformed or missing input.
func Validation(msg string, details ...string) error {
	return &Error{Kind: KindValidation, Msg: msg, Details: details}
}

// InvalidOperation reports a well-formed request that is not allowed,
// such as subscribing to one's own channel.
func InvalidOperation(msg string) error {
	return &Error{Kind: KindInvalidOperation, Msg: msg}
}

// Unauthenticated hides reason from the client; it is kept for logs only.
func Unauthenticated(reason string) error {
	return &Error{Kind: KindUnauthenticated, Msg: "unauthorized request", Err: errors.New(reason)}
}

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error  { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error  { return &Error{Kind: KindConflict, Msg: msg} }

func RateLimited(retryAfter time.Duration) error {
	return &Error{Kind: KindRateLimited, Msg: "too many requests", RetryAfter: retryAfter}
}

func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Msg: msg, Err: err}
}

func Internal(err error) error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}

// Map converts repo/infra errors into service errors.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	switch {
	case errors.As(err, &se):
		return err

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("resource not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("resource already exists")

	case errors.Is(err, context.DeadlineExceeded):
		return Unavailable("request timed out", err)

	case errors.Is(err, context.Canceled):
		return Unavailable("request was canceled", err)

	default:
		return Internal(err)
	}
}

// KindOf returns the kind of err after mapping.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(Map(err), &se) {
		return se.Kind
	}
	return KindInternal
}

// Is reports whether err maps to kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message and details for err.
// Internal causes never leak.
func PublicMessage(err error) (string, []string) {
	var se *Error
	if !errors.As(Map(err), &se) || se.Kind == KindInternal {
		return "internal server error", nil
	}
	return se.Msg, se.Details
}

// RetryAfter returns the back-off hint carried by a rate-limit error.
func RetryAfter(err error) time.Duration {
	var se *Error
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	return 0
}
