package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrConfig", ErrConfig},
		{"ErrUnknownTable", ErrUnknownTable},
		{"ErrSyncInProgress", ErrSyncInProgress},
		{"ErrRecordDropped", ErrRecordDropped},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrUpstreamUnavailable", ErrUpstreamUnavailable},
		{"ErrMalformedResponse", ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrConfig, ErrInvalidInput))
	assert.False(t, errors.Is(ErrRecordDropped, ErrMalformedResponse))
	assert.False(t, errors.Is(ErrAuthInvalid, ErrUpstreamUnavailable))
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", ErrConfig)

	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, "loading: invalid configuration", err.Error())
}

func TestUnknownTableError(t *testing.T) {
	err := &UnknownTableError{Name: "widgets"}

	assert.Equal(t, "unknown table: widgets", err.Error())
	assert.ErrorIs(t, err, ErrUnknownTable)

	var target *UnknownTableError
	assert.ErrorAs(t, fmt.Errorf("filter: %w", err), &target)
	assert.Equal(t, "widgets", target.Name)
}
