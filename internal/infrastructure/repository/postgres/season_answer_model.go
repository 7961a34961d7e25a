package postgres

import "time"

type dynamicPointsTableModel struct {
	UserID             int64 `db:"user_id"`
	RoundID            int64 `db:"round_id"`
	TotalPoints        int   `db:"total_points"`
	LeagueWinner       bool  `db:"league_winner"`
	TopScorer          bool  `db:"top_scorer"`
	BestGoalDifference bool  `db:"best_goal_difference"`
	LastPlace          bool  `db:"last_place"`
}

type seasonAnswerTableModel struct {
	ID       int64      `db:"id"`
	UserID   int64      `db:"user_id"`
	SeasonID int64      `db:"season_id"`
	Question string     `db:"question"`
	TeamID   *int64     `db:"team_id"`
	PlayerID *int64     `db:"player_id"`
	LockedAt *time.Time `db:"locked_at"`
}
