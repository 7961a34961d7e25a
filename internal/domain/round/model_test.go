package round

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]string{
		{StatusOpen, StatusClosed},
		{StatusOpen, StatusScored},
		{StatusClosed, StatusScoring},
		{StatusScoring, StatusScored},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s must be allowed", pair[0], pair[1])
		}
	}

	forbidden := [][2]string{
		{StatusScored, StatusScoring},
		{StatusScoring, StatusClosed},
		{StatusClosed, StatusOpen},
		{StatusScored, StatusScored},
		{"BOGUS", StatusScored},
		{StatusOpen, "BOGUS"},
	}
	for _, pair := range forbidden {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s must be forbidden", pair[0], pair[1])
		}
	}
}

func TestDynamicComplete(t *testing.T) {
	t.Parallel()

	rnd := Round{Status: StatusScored}
	if rnd.DynamicComplete() {
		t.Fatalf("round without the marker must not be dynamic-complete")
	}

	at := time.Unix(1_700_000_000, 0)
	rnd.DynamicScoredAt = &at
	if !rnd.DynamicComplete() {
		t.Fatalf("round with the marker must be dynamic-complete")
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	if got := NormalizeStatus(" scoring "); got != StatusScoring {
		t.Fatalf("normalize: got=%q want=%q", got, StatusScoring)
	}
	if got := NormalizeStatus(""); got != StatusOpen {
		t.Fatalf("empty status: got=%q want=%q", got, StatusOpen)
	}
}
