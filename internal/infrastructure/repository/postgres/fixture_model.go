package postgres

import "time"

type fixtureTableModel struct {
	ID         int64     `db:"id"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	KickoffAt  time.Time `db:"kickoff_at"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
	Status     string    `db:"status"`
}
