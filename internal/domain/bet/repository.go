package bet

import (
	"context"
	"time"
)

type Repository interface {
	ListByRound(ctx context.Context, roundID int64) ([]Bet, error)

	// ApplyRoundScores persists the match-points batch and marks the round
	// SCORED in a single transaction (all rows or none). It must succeed with
	// an empty batch so a round whose bets are all pre-scored, or which has no
	// bets at all, still reaches SCORED.
	ApplyRoundScores(ctx context.Context, roundID int64, updates []PointsUpdate, scoredAt time.Time) error

	// InsertSynthetic stores fabricated fallback rows for non-participants.
	InsertSynthetic(ctx context.Context, bets []Bet) error
}
