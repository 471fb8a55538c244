package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *DomainError
		want string
	}{
		{
			name: "with wrapped error",
			err:  New("response", "AddHeader", ErrEncode, errors.New("invalid header name")),
			want: "response.AddHeader: encode response: invalid header name",
		},
		{
			name: "kind only",
			err:  New("token", "ValidateToken", ErrUnauthorized, nil),
			want: "token.ValidateToken: unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "matches kind",
			err:    New("response", "SetStatus", ErrEncode, nil),
			target: ErrEncode,
			want:   true,
		},
		{
			name:   "matches wrapped error",
			err:    New("provider", "New", ErrInternal, inner),
			target: inner,
			want:   true,
		},
		{
			name:   "matches through fmt wrapping",
			err:    fmt.Errorf("outer: %w", New("token", "ValidateToken", ErrUnauthorized, nil)),
			target: ErrUnauthorized,
			want:   true,
		},
		{
			name:   "does not match unrelated kind",
			err:    New("token", "ValidateToken", ErrUnauthorized, nil),
			target: ErrForbidden,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	assert.Equal(t, inner, New("d", "op", ErrInternal, inner).Unwrap())
	assert.NoError(t, New("d", "op", ErrInternal, nil).Unwrap())
}

func TestDomainError_WithContext(t *testing.T) {
	t.Parallel()

	err := &DomainError{Domain: "response", Op: "AddHeader"}
	got := err.WithContext("header", "X-Test").WithContext("reason", "bad value")

	assert.Same(t, err, got)
	assert.Equal(t, "X-Test", err.Context["header"])
	assert.Equal(t, "bad value", err.Context["reason"])
}

func TestDomainError_LogAttrs(t *testing.T) {
	t.Parallel()

	err := New("response", "SetStatus", ErrEncode, nil).WithContext("status", 42)
	attrs := err.LogAttrs()

	require.Len(t, attrs, 8)
	assert.Equal(t, []any{"domain", "response", "op", "SetStatus", "kind", "encode response", "status", 42}, attrs)
}

func TestAs(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handler: %w", New("token", "ValidateToken", ErrUnauthorized, nil))

	de, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "ValidateToken", de.Op)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
