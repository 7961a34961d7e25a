package usecase

import (
	"time"

	"github.com/matchday/prediction-league/internal/platform/logging"
)

// The four dynamic questions share one comparison algorithm: membership of
// the user's prediction in the set of currently-correct answers. What differs
// per question is telemetry shape, so the variants are expressed as profiles
// over a single Comparer rather than as subclasses.

// CompareProfile parameterizes the telemetry thresholds of one question type.
type CompareProfile struct {
	Strategy string
	// TieAware enables tie metadata when the candidate set holds more than
	// one answer.
	TieAware bool
	// TieEscalationSize is the tie size above which diagnostics escalate.
	TieEscalationSize int
	// LargeSetSize is the candidate-set size above which even a plain
	// comparison escalates.
	LargeSetSize int
	// SlowCompare is the elapsed-time bound above which any comparison
	// escalates, tie or not.
	SlowCompare time.Duration
	// TieSlowCompare is a second, looser elapsed bound for the tie path;
	// exceeding it escalates the tie diagnostics even when the tie size
	// stays under TieEscalationSize.
	TieSlowCompare time.Duration
}

// ExactMatchProfile covers the guaranteed-singleton questions
// (league winner, last place).
func ExactMatchProfile() CompareProfile {
	return CompareProfile{
		Strategy:     "exact_match",
		LargeSetSize: 10,
		SlowCompare:  time.Millisecond,
	}
}

// TopScorerProfile is tie-aware; scorer ties are real and every user who
// picked any tied player must be credited.
func TopScorerProfile() CompareProfile {
	return CompareProfile{
		Strategy:          "top_scorer_tie_aware",
		TieAware:          true,
		TieEscalationSize: 5,
		LargeSetSize:      10,
		SlowCompare:       time.Millisecond,
		TieSlowCompare:    2 * time.Millisecond,
	}
}

// GoalDifferenceProfile is tie-aware with a looser escalation bound, since
// goal-difference ties tend to be larger.
func GoalDifferenceProfile() CompareProfile {
	return CompareProfile{
		Strategy:          "goal_difference_tie_aware",
		TieAware:          true,
		TieEscalationSize: 8,
		LargeSetSize:      10,
		SlowCompare:       time.Millisecond,
		TieSlowCompare:    2 * time.Millisecond,
	}
}

// ComparisonResult is ephemeral diagnostic output; it is logged, never
// persisted.
type ComparisonResult struct {
	Strategy      string
	Matched       bool
	MatchedAnswer int64
	ValidAnswers  []int64
	AnswerCount   int
	TieSize       int
	Elapsed       time.Duration
	Escalated     bool
}

// Comparer decides whether a single prediction is contained in a set of
// valid, possibly tied, answers.
type Comparer struct {
	profile CompareProfile
	logger  *logging.Logger
	now     func() time.Time
}

func NewComparer(profile CompareProfile, logger *logging.Logger) *Comparer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Comparer{
		profile: profile,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Comparer) Compare(userPrediction int64, validAnswers []int64) ComparisonResult {
	started := c.now()

	candidates := make([]float64, len(validAnswers))
	for i, answer := range validAnswers {
		candidates[i] = float64(answer)
	}
	matched := PredictionMatches(float64(userPrediction), MultipleAnswers(candidates...))

	result := ComparisonResult{
		Strategy:     c.profile.Strategy,
		Matched:      matched,
		ValidAnswers: validAnswers,
		AnswerCount:  len(validAnswers),
		Elapsed:      c.now().Sub(started),
	}
	if matched {
		result.MatchedAnswer = userPrediction
	}

	result.Escalated = result.AnswerCount > c.profile.LargeSetSize ||
		result.Elapsed > c.profile.SlowCompare

	if c.profile.TieAware && result.AnswerCount > 1 {
		result.TieSize = result.AnswerCount
		if result.TieSize > c.profile.TieEscalationSize {
			result.Escalated = true
		}
		if c.profile.TieSlowCompare > 0 && result.Elapsed > c.profile.TieSlowCompare {
			result.Escalated = true
		}
	}

	// Escalation is observability only; correctness never depends on it.
	if result.Escalated {
		c.logger.Warn("comparison escalated",
			"strategy", result.Strategy,
			"answer_count", result.AnswerCount,
			"tie_size", result.TieSize,
			"elapsed", result.Elapsed,
			"matched", result.Matched,
		)
	} else {
		c.logger.Debug("comparison completed",
			"strategy", result.Strategy,
			"answer_count", result.AnswerCount,
			"tie_size", result.TieSize,
			"matched", result.Matched,
		)
	}

	return result
}
