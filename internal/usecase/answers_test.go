package usecase

import (
	"math"
	"reflect"
	"testing"

	"github.com/matchday/prediction-league/internal/platform/logging"
)

func TestNormalizeNumericAnswer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   any
		want  int64
		valid bool
	}{
		{name: "int", raw: 42, want: 42, valid: true},
		{name: "int64", raw: int64(7), want: 7, valid: true},
		{name: "float truncates", raw: 57.9, want: 57, valid: true},
		{name: "negative takes absolute value", raw: -57.9, want: 57, valid: true},
		{name: "numeric string", raw: " 128 ", want: 128, valid: true},
		{name: "upper bound", raw: 10_000_000, want: 10_000_000, valid: true},
		{name: "zero is below range", raw: 0},
		{name: "fraction floors to zero", raw: 0.4},
		{name: "above range", raw: 10_000_001},
		{name: "NaN", raw: math.NaN()},
		{name: "positive infinity", raw: math.Inf(1)},
		{name: "bool", raw: true},
		{name: "non-numeric string", raw: "arsenal"},
		{name: "empty string", raw: ""},
		{name: "nil", raw: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeNumericAnswer(tc.raw)
			if ok != tc.valid {
				t.Fatalf("valid: got=%t want=%t", ok, tc.valid)
			}
			if ok && got != tc.want {
				t.Fatalf("value: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestNormalizeValidAnswers_DropsInvalidAndDeduplicates(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	raw := []any{57, "bogus", 61.0, math.NaN(), 57, "61", nil, -64}

	got := NormalizeValidAnswers(logger, raw)
	want := []int64{57, 61, 64}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized answers: got=%v want=%v", got, want)
	}
}

func TestNormalizeValidAnswers_AllInvalidYieldsEmpty(t *testing.T) {
	t.Parallel()

	got := NormalizeValidAnswers(logging.NewNop(), []any{"x", false, math.Inf(-1)})
	if len(got) != 0 {
		t.Fatalf("expected empty set, got=%v", got)
	}
}

func TestPredictionMatches(t *testing.T) {
	t.Parallel()

	if !PredictionMatches(57, SingleAnswer(57)) {
		t.Fatalf("expected single answer match")
	}
	if PredictionMatches(58, SingleAnswer(57)) {
		t.Fatalf("unexpected match against different answer")
	}
	if !PredictionMatches(61, MultipleAnswers(57, 61, 64)) {
		t.Fatalf("expected set membership match")
	}
	if PredictionMatches(99, MultipleAnswers(57, 61, 64)) {
		t.Fatalf("unexpected match outside set")
	}
	if PredictionMatches(57, MultipleAnswers()) {
		t.Fatalf("empty set must never match")
	}
}

func TestPredictionMatches_NaNNeverMatches(t *testing.T) {
	t.Parallel()

	if PredictionMatches(math.NaN(), SingleAnswer(math.NaN())) {
		t.Fatalf("NaN prediction must not match NaN answer")
	}
	if PredictionMatches(math.NaN(), MultipleAnswers(1, 2, 3)) {
		t.Fatalf("NaN prediction must not match any set")
	}
	if !PredictionMatches(2, MultipleAnswers(math.NaN(), 2)) {
		t.Fatalf("NaN candidates must be skipped, not poison the set")
	}
}
