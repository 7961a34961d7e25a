package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchday/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, id int64) (round.Round, bool, error) {
	const query = `SELECT id, season_id, competition_id, season_year, name, status, scoring_started_at, scored_at, dynamic_scored_at
FROM rounds
WHERE id = $1`

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return round.Round{
		ID:               row.ID,
		SeasonID:         row.SeasonID,
		CompetitionID:    row.CompetitionID,
		SeasonYear:       row.SeasonYear,
		Name:             row.Name,
		Status:           round.NormalizeStatus(row.Status),
		ScoringStartedAt: row.ScoringStartedAt,
		ScoredAt:         row.ScoredAt,
		DynamicScoredAt:  row.DynamicScoredAt,
	}, true, nil
}

func (r *RoundRepository) ListFixtureIDs(ctx context.Context, roundID int64) ([]int64, error) {
	const query = `SELECT fixture_id FROM round_fixtures WHERE round_id = $1 ORDER BY fixture_id`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, roundID); err != nil {
		return nil, fmt.Errorf("list round fixture ids: %w", err)
	}
	return ids, nil
}

// ClaimScoring is the compare-and-swap guard against concurrent scoring
// passes. The stale-claim clause lets a fresh invocation take over a round
// whose previous claimant died mid-pass.
func (r *RoundRepository) ClaimScoring(ctx context.Context, roundID int64, now time.Time, takeover time.Duration) (bool, error) {
	const query = `UPDATE rounds
SET status = $2, scoring_started_at = $3
WHERE id = $1
  AND (status = $4 OR (status = $2 AND scoring_started_at < $5))`

	staleBefore := now.Add(-takeover)
	result, err := r.db.ExecContext(ctx, query, roundID, round.StatusScoring, now, round.StatusClosed, staleBefore)
	if err != nil {
		return false, fmt.Errorf("claim round for scoring: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim round for scoring: rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *RoundRepository) ReleaseScoring(ctx context.Context, roundID int64) error {
	const query = `UPDATE rounds
SET status = $2, scoring_started_at = NULL
WHERE id = $1 AND status = $3`

	if _, err := r.db.ExecContext(ctx, query, roundID, round.StatusClosed, round.StatusScoring); err != nil {
		return fmt.Errorf("release round from scoring: %w", err)
	}
	return nil
}

func (r *RoundRepository) MarkDynamicScored(ctx context.Context, roundID int64, at time.Time) error {
	const query = `UPDATE rounds
SET dynamic_scored_at = $2
WHERE id = $1 AND status = $3`

	if _, err := r.db.ExecContext(ctx, query, roundID, at, round.StatusScored); err != nil {
		return fmt.Errorf("mark round dynamic scored: %w", err)
	}
	return nil
}
