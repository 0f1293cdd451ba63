package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	assert.Nil(t, Map(nil))

	tests := []struct {
		name string
		in   error
		kind Kind
	}{
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), KindNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, KindConflict},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"canceled", context.Canceled, KindUnavailable},
		{"unknown", errors.New("boom"), KindInternal},
		{"already mapped", InvalidOperation("nope"), KindInvalidOperation},
		{"wrapped service error", fmt.Errorf("ctx: %w", NotFound("video not found")), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.in))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidOperation("self")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthenticated("expired")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbidden("not owner")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("taken")))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(RateLimited(time.Second)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Unavailable("down", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestPublicMessage_HidesInternals(t *testing.T) {
	msg, details := PublicMessage(errors.New("dial tcp 10.0.0.1: refused"))
	assert.Equal(t, "internal server error", msg)
	assert.Empty(t, details)

	msg, _ = PublicMessage(Unauthenticated("refresh token reused"))
	assert.Equal(t, "unauthorized request", msg)

	msg, details = PublicMessage(Validation("invalid input", "title is required"))
	assert.Equal(t, "invalid input", msg)
	assert.Equal(t, []string{"title is required"}, details)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, RetryAfter(RateLimited(30*time.Second)))
	assert.Zero(t, RetryAfter(errors.New("x")))
}
