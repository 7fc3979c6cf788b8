package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs_ThroughWrappedChain(t *testing.T) {
	base := NotFound("trip not found")
	wrapped := fmt.Errorf("loading trip: %w", base)

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, got.Kind)
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestIsKind(t *testing.T) {
	err := Conflict("trip already assigned")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindInvalidState))
	assert.False(t, IsKind(nil, KindConflict))
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation("invalid trip", map[string]string{"proposed_price": "must be positive"})
	got, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "must be positive", got.Fields["proposed_price"])
}

func TestWrap_PreservesKindAndFields(t *testing.T) {
	inner := Validation("invalid offer", map[string]string{"price": "must be positive"})
	wrapped := Wrap(inner, "submitting offer")

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindValidation, got.Kind)
	assert.Equal(t, "must be positive", got.Fields["price"])
	assert.Contains(t, got.Message, "submitting offer")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("query failed", cause)
	assert.ErrorIs(t, err, cause)
}
