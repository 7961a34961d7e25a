package postgres

import "time"

type roundTableModel struct {
	ID               int64      `db:"id"`
	SeasonID         int64      `db:"season_id"`
	CompetitionID    int64      `db:"competition_id"`
	SeasonYear       int        `db:"season_year"`
	Name             string     `db:"name"`
	Status           string     `db:"status"`
	ScoringStartedAt *time.Time `db:"scoring_started_at"`
	ScoredAt         *time.Time `db:"scored_at"`
	DynamicScoredAt  *time.Time `db:"dynamic_scored_at"`
}
