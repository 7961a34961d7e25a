package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bare sentinel", err: sql.ErrNoRows, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("get round: %w", sql.ErrNoRows), want: true},
		{name: "doubly wrapped", err: fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", sql.ErrNoRows)), want: true},
		{name: "unrelated error", err: fmt.Errorf("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isNotFound(tc.err); got != tc.want {
				t.Fatalf("isNotFound(%v): got=%t want=%t", tc.err, got, tc.want)
			}
		})
	}
}
