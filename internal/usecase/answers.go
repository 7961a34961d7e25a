package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/matchday/prediction-league/internal/platform/logging"
)

// Stored season answers arrive from heterogeneous sources (form posts, JSON
// imports, legacy rows), so raw values may be numbers, numeric strings,
// arrays, or junk. Everything funnels through these normalizers before any
// comparison runs.

const (
	minValidAnswerID = 1
	maxValidAnswerID = 10_000_000
)

// NormalizeNumericAnswer coerces a raw value into a validated identifier.
// Booleans, non-numeric strings, and non-finite numbers are rejected. The
// value is floored after taking its absolute value, then range-checked.
func NormalizeNumericAnswer(raw any) (int64, bool) {
	value, ok := toFloat(raw)
	if !ok {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	id := int64(math.Floor(math.Abs(value)))
	if id < minValidAnswerID || id > maxValidAnswerID {
		return 0, false
	}
	return id, true
}

// NormalizeValidAnswers normalizes each element, dropping invalid ones with a
// diagnostic each, deduplicating, and preserving first-seen order.
func NormalizeValidAnswers(logger *logging.Logger, raw []any) []int64 {
	if logger == nil {
		logger = logging.Default()
	}

	out := make([]int64, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for idx, element := range raw {
		id, ok := NormalizeNumericAnswer(element)
		if !ok {
			logger.Debug("dropped invalid answer element", "index", idx, "value", element)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AnswerSet is the tagged single-or-multiple answer shape accepted at the
// normalization boundary. Internally every comparison operates on the set.
type AnswerSet struct {
	values []float64
}

func SingleAnswer(value float64) AnswerSet {
	return AnswerSet{values: []float64{value}}
}

func MultipleAnswers(values ...float64) AnswerSet {
	return AnswerSet{values: values}
}

// PredictionMatches is the foundational matching primitive: membership of the
// prediction in the valid-answer set. NaN never matches anything, on either
// side; an empty set never matches.
func PredictionMatches(userPrediction float64, validAnswers AnswerSet) bool {
	if math.IsNaN(userPrediction) {
		return false
	}
	for _, candidate := range validAnswers.values {
		if math.IsNaN(candidate) {
			continue
		}
		if candidate == userPrediction {
			return true
		}
	}
	return false
}

func toFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case float32:
		return float64(value), true
	case float64:
		return value, true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
