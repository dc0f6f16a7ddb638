package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_WrapsCause(t *testing.T) {
	err := NewPincodeLookupFailedError("560001", context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "StandardError[PINCODE_LOOKUP_FAILED]: Pincode lookup failed: context deadline exceeded", err.Error())
	assert.Equal(t, "560001", err.Metadata["pincode"])
	assert.True(t, err.Retryable)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("mount: %w", NewStateLoadFailedError("s-1", assert.AnError))

	assert.Equal(t, ErrCodeStateLoadFailed, CodeOf(wrapped))
	assert.True(t, Is(wrapped, ErrCodeStateLoadFailed))
	assert.True(t, IsRetryable(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
	assert.False(t, IsRetryable(assert.AnError))
}

func TestInvalidField(t *testing.T) {
	err := NewInvalidFieldError("shoeSize")

	assert.False(t, IsRetryable(err))
	assert.Equal(t, "StandardError[INVALID_FIELD]: Unknown form field: shoeSize", err.Error())
	assert.Nil(t, err.Unwrap())
}
