package fixture

import "context"

// Repository exposes fixture read operations.
type Repository interface {
	ListByIDs(ctx context.Context, ids []int64) ([]Fixture, error)
}
