package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatusAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("not yours", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("dup", true, nil), http.StatusConflict, "CONFLICT"},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.code, tc.err.Code)
		})
	}
}

func TestCustomCodeWins(t *testing.T) {
	code := "WEIGHT_ALREADY_EXISTS"
	err := NewConflictError("Weight already added to this day", true, &code)

	assert.Equal(t, code, err.Code)
	assert.Equal(t, "Weight already added to this day", err.Error())
}

func TestIsMatchesWrappedHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewForbiddenError("nope", true))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))

	var httpErr *HTTPError
	if assert.True(t, errors.As(wrapped, &httpErr)) {
		assert.Equal(t, http.StatusForbidden, httpErr.Status)
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewNotFoundError("Gear not found", true, nil)
	other := base.WithMessage("Activity not found")

	assert.Equal(t, "Gear not found", base.Message)
	assert.Equal(t, "Activity not found", other.Message)
	assert.Equal(t, base.Status, other.Status)
}
