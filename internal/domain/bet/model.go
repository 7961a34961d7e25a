package bet

import (
	"time"

	"github.com/matchday/prediction-league/internal/domain/fixture"
)

// Bet is one user's 1X2 prediction for one fixture in a round.
//
// PointsAwarded doubles as the idempotency boundary: once non-nil the bet is
// scored and must never be recomputed. IsSynthetic marks fallback rows
// fabricated for non-participants; they never count as participation.
type Bet struct {
	ID            int64
	UserID        int64
	RoundID       int64
	FixtureID     int64
	Prediction    fixture.Outcome
	PointsAwarded *int
	IsSynthetic   bool
	CreatedAt     time.Time
}

// Scored reports whether the bet already crossed the idempotency boundary.
func (b Bet) Scored() bool {
	return b.PointsAwarded != nil
}

// PointsUpdate is one row of the atomic match-points batch.
type PointsUpdate struct {
	BetID  int64
	Points int
}
