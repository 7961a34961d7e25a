package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchday/prediction-league/internal/domain/bet"
	"github.com/matchday/prediction-league/internal/domain/fixture"
	"github.com/matchday/prediction-league/internal/domain/round"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) ListByRound(ctx context.Context, roundID int64) ([]bet.Bet, error) {
	const query = `SELECT id, user_id, round_id, fixture_id, prediction, points_awarded, is_synthetic, created_at
FROM bets
WHERE round_id = $1
ORDER BY id`

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list bets by round: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.Bet{
			ID:            row.ID,
			UserID:        row.UserID,
			RoundID:       row.RoundID,
			FixtureID:     row.FixtureID,
			Prediction:    fixture.Outcome(row.Prediction),
			PointsAwarded: row.PointsAwarded,
			IsSynthetic:   row.IsSynthetic,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, nil
}

// ApplyRoundScores writes the match-points batch and the SCORED transition in
// one transaction. The points_awarded IS NULL guard keeps already-scored rows
// untouched even if a stale batch slips through.
func (r *BetRepository) ApplyRoundScores(ctx context.Context, roundID int64, updates []bet.PointsUpdate, scoredAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin round scores tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const updateBet = `UPDATE bets SET points_awarded = $1 WHERE id = $2 AND points_awarded IS NULL`
	for _, update := range updates {
		if _, err := tx.ExecContext(ctx, updateBet, update.Points, update.BetID); err != nil {
			return fmt.Errorf("update bet %d points: %w", update.BetID, err)
		}
	}

	const markScored = `UPDATE rounds SET status = $2, scored_at = $3 WHERE id = $1 AND status = $4`
	result, err := tx.ExecContext(ctx, markScored, roundID, round.StatusScored, scoredAt, round.StatusScoring)
	if err != nil {
		return fmt.Errorf("mark round scored: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark round scored: rows affected: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("mark round scored: round %d is no longer in %s", roundID, round.StatusScoring)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit round scores tx: %w", err)
	}
	return nil
}

func (r *BetRepository) InsertSynthetic(ctx context.Context, bets []bet.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin synthetic bets tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `INSERT INTO bets (user_id, round_id, fixture_id, prediction, points_awarded, is_synthetic, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
ON CONFLICT (user_id, fixture_id) DO NOTHING`

	for _, row := range bets {
		if _, err := tx.ExecContext(ctx, insert,
			row.UserID, row.RoundID, row.FixtureID, string(row.Prediction), row.PointsAwarded, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert synthetic bet user=%d fixture=%d: %w", row.UserID, row.FixtureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit synthetic bets tx: %w", err)
	}
	return nil
}
