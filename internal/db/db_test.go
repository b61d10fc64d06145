package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestWrapNotFound(t *testing.T) {
	if err := WrapNotFound(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := WrapNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	other := errors.New("connection reset")
	err := WrapNotFound(other)
	if !errors.Is(err, other) || IsNotFound(err) {
		t.Fatalf("expected wrapped non-not-found error, got %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{ErrNotFound, true},
		{pgx.ErrNoRows, true},
		{fmt.Errorf("get booking: %w", ErrNotFound), true},
		{errors.New("boom"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsNotFound(tc.err); got != tc.want {
			t.Fatalf("IsNotFound(%v): expected %v, got %v", tc.err, tc.want, got)
		}
	}
}
