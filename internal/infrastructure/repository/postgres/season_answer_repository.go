package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
)

type SeasonAnswerRepository struct {
	db *sqlx.DB
}

func NewSeasonAnswerRepository(db *sqlx.DB) *SeasonAnswerRepository {
	return &SeasonAnswerRepository{db: db}
}

func (r *SeasonAnswerRepository) ListBySeason(ctx context.Context, seasonID int64) ([]seasonanswer.Answer, error) {
	const query = `SELECT id, user_id, season_id, question, team_id, player_id, locked_at
FROM season_answers
WHERE season_id = $1
ORDER BY user_id, id`

	var rows []seasonAnswerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list season answers: %w", err)
	}

	out := make([]seasonanswer.Answer, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonanswer.Answer{
			ID:       row.ID,
			UserID:   row.UserID,
			SeasonID: row.SeasonID,
			Question: seasonanswer.Question(row.Question),
			TeamID:   row.TeamID,
			PlayerID: row.PlayerID,
			LockedAt: row.LockedAt,
		})
	}
	return out, nil
}

// ApplyDynamicPoints upserts the whole batch in one transaction, keyed by
// (user_id, round_id) so a re-run overwrites instead of accumulating.
func (r *SeasonAnswerRepository) ApplyDynamicPoints(ctx context.Context, rows []seasonanswer.DynamicPointsRow, calculatedAt time.Time) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dynamic points tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO round_dynamic_points
    (user_id, round_id, total_points, league_winner, top_scorer, best_goal_difference, last_place, calculated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, round_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    league_winner = EXCLUDED.league_winner,
    top_scorer = EXCLUDED.top_scorer,
    best_goal_difference = EXCLUDED.best_goal_difference,
    last_place = EXCLUDED.last_place,
    calculated_at = EXCLUDED.calculated_at`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, upsert,
			row.UserID, row.RoundID, row.TotalPoints,
			row.LeagueWinner, row.TopScorer, row.BestGoalDifference, row.LastPlace,
			calculatedAt,
		); err != nil {
			return fmt.Errorf("upsert dynamic points user=%d round=%d: %w", row.UserID, row.RoundID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dynamic points tx: %w", err)
	}
	return nil
}

func (r *SeasonAnswerRepository) GetDynamicPoints(ctx context.Context, userID, roundID int64) (seasonanswer.DynamicPointsRow, bool, error) {
	const query = `SELECT user_id, round_id, total_points, league_winner, top_scorer, best_goal_difference, last_place
FROM round_dynamic_points
WHERE user_id = $1 AND round_id = $2`

	var row dynamicPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, userID, roundID); err != nil {
		if isNotFound(err) {
			return seasonanswer.DynamicPointsRow{}, false, nil
		}
		return seasonanswer.DynamicPointsRow{}, false, fmt.Errorf("get dynamic points user=%d round=%d: %w", userID, roundID, err)
	}

	return seasonanswer.DynamicPointsRow{
		UserID:             row.UserID,
		RoundID:            row.RoundID,
		TotalPoints:        row.TotalPoints,
		LeagueWinner:       row.LeagueWinner,
		TopScorer:          row.TopScorer,
		BestGoalDifference: row.BestGoalDifference,
		LastPlace:          row.LastPlace,
	}, true, nil
}
