package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("thing not found")

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeConflict, http.StatusBadRequest},
		{ErrCodeInvalidCredentials, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	err := NotFound(errSentinel, "thing not found with id: %d", 7)
	wrapped := fmt.Errorf("handler: %w", err)

	assert.ErrorIs(t, wrapped, errSentinel)
	assert.True(t, IsCode(wrapped, ErrCodeNotFound))
	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
	assert.Equal(t, "thing not found with id: 7", GetMessage(wrapped))
	assert.Equal(t, http.StatusNotFound, err.HTTPStatusCode())
}

func TestUnstructuredErrorsStayInternal(t *testing.T) {
	err := errors.New("pq: connection refused to 10.0.0.5")

	assert.Equal(t, ErrCodeInternal, GetCode(err))
	assert.Equal(t, "internal error", GetMessage(err))
	assert.False(t, IsCode(err, ErrCodeInternal))
}

func TestInvalidCredentialsHidesCause(t *testing.T) {
	unknown := InvalidCredentials(errors.New("unknown email"))
	mismatch := InvalidCredentials(errors.New("password mismatch"))

	assert.Equal(t, GetMessage(unknown), GetMessage(mismatch))
	assert.Equal(t, GetCode(unknown), GetCode(mismatch))
	assert.NotEqual(t, unknown.Error(), mismatch.Error())
}

func TestInvalidInputCarriesField(t *testing.T) {
	err := InvalidInput("name", "lab name is required")

	assert.Equal(t, "invalid name: lab name is required", err.Message)
	assert.Equal(t, "name", err.Details["field"])
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}
