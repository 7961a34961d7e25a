package seasonanswer

import (
	"context"
	"time"
)

type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Answer, error)

	// ApplyDynamicPoints persists the dynamic-points batch atomically
	// (all rows or none), in a transaction separate from match points.
	ApplyDynamicPoints(ctx context.Context, rows []DynamicPointsRow, calculatedAt time.Time) error

	GetDynamicPoints(ctx context.Context, userID, roundID int64) (DynamicPointsRow, bool, error)
}
