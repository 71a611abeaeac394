package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewExternalError("viacep lookup failed", errors.New("connection refused"))
	assert.Equal(t, "EXTERNAL: viacep lookup failed: connection refused", err.Error())

	notFound := NewNotFoundError("postal code 99999999 not found")
	assert.Equal(t, "NOT_FOUND: postal code 99999999 not found", notFound.Error())
}

func TestIsType_FollowsWrapping(t *testing.T) {
	base := NewNotFoundError("address not found")
	wrapped := fmt.Errorf("resolve: %w", base)

	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(wrapped, ErrorTypeExternal))
	assert.False(t, IsType(nil, ErrorTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeNotFound))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}
