package postgres

import "time"

type betTableModel struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	RoundID       int64     `db:"round_id"`
	FixtureID     int64     `db:"fixture_id"`
	Prediction    string    `db:"prediction"`
	PointsAwarded *int      `db:"points_awarded"`
	IsSynthetic   bool      `db:"is_synthetic"`
	CreatedAt     time.Time `db:"created_at"`
}
