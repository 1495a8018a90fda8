package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
		{"rate limited", &AdapterError{Status: 429}, true},
		{"server error", &AdapterError{Status: 503}, true},
		{"bad request", &AdapterError{Status: 400}, false},
		{"unauthorized", &AdapterError{Status: 401}, false},
		{"temporary flag", &AdapterError{Temporary: true}, true},
		{"wrapped adapter error", fmt.Errorf("call failed: %w", &AdapterError{Status: 500}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAdapterErrorMessage(t *testing.T) {
	err := &AdapterError{Status: 429, Err: errors.New("rate limited")}
	if err.Error() != "rate limited" {
		t.Errorf("Error() = %q, want underlying message", err.Error())
	}

	bare := &AdapterError{Status: 502}
	if bare.Error() != "adapter error (status=502)" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestAdapterErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &AdapterError{Status: 500, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find wrapped error")
	}
}
