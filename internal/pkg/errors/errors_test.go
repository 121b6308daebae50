package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrBadRequest,
		ErrAlreadyConfirmed,
		ErrChannelUnavailable,
		ErrConflict,
		ErrInternal,
		ErrTokenExpired,
	}
	seen := make(map[string]bool, len(sentinels))
	for _, s := range sentinels {
		assert.False(t, seen[s.Error()], "duplicate sentinel message %q", s.Error())
		seen[s.Error()] = true
	}
}

func TestValidationErrorUnwrapsToSentinel(t *testing.T) {
	err := NewValidationError("buyer_phone", "products")

	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"buyer_phone", "products"}, ve.Fields)
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "load order")

	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "load order")

	assert.Nil(t, Wrap(nil, "no-op"))
}
