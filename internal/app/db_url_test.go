package app

import (
	"strings"
	"testing"
)

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	got := normalizeDBURL("postgres://u:p@localhost:5432/league?sslmode=disable", true)
	if !strings.Contains(got, "disable_prepared_binary_result=yes") {
		t.Fatalf("expected disable_prepared_binary_result param, got=%q", got)
	}
	if !strings.Contains(got, "sslmode=disable") {
		t.Fatalf("existing params must survive, got=%q", got)
	}

	raw := "postgres://u:p@localhost:5432/league?disable_prepared_binary_result=no"
	if got := normalizeDBURL(raw, true); got != raw {
		t.Fatalf("explicit param must not be overridden, got=%q", got)
	}

	raw = "postgres://u:p@localhost:5432/league"
	if got := normalizeDBURL(raw, false); got != raw {
		t.Fatalf("disabled normalization must pass through, got=%q", got)
	}
}

func TestDBNameFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "url form", raw: "postgres://u:p@localhost:5432/prediction_league?sslmode=disable", want: "prediction_league"},
		{name: "key value form", raw: "host=localhost port=5432 dbname=prediction_league sslmode=disable", want: "prediction_league"},
		{name: "quoted key value", raw: `host=localhost dbname="prediction_league"`, want: "prediction_league"},
		{name: "no database", raw: "postgres://u:p@localhost:5432/", want: ""},
		{name: "empty", raw: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dbNameFromURL(tc.raw); got != tc.want {
				t.Fatalf("db name: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace("  SELECT id,\n\t       name\n  FROM users  ")
	if got != "SELECT id, name FROM users" {
		t.Fatalf("normalized query: got=%q", got)
	}

	long := strings.Repeat("SELECT 1 ", 200)
	got = formatDBQueryForTrace(long)
	if len(got) != maxTracedQueryLength+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("long query must be truncated with marker, len=%d", len(got))
	}

	if got := formatDBQueryForTrace("   "); got != "" {
		t.Fatalf("blank query: got=%q", got)
	}
}
