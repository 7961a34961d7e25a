package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matchday/prediction-league/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByIDs(ctx context.Context, ids []int64) ([]fixture.Fixture, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id, home_team_id, away_team_id, home_team, away_team, kickoff_at, home_score, away_score, status
FROM fixtures
WHERE id = ANY($1)
ORDER BY id`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list fixtures by ids: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:         row.ID,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeTeam:   row.HomeTeam,
			AwayTeam:   row.AwayTeam,
			KickoffAt:  row.KickoffAt,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
			Status:     fixture.NormalizeStatus(row.Status),
		})
	}
	return out, nil
}
