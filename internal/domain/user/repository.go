package user

import "context"

type Repository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}
