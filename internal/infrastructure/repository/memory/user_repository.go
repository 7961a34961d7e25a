package memory

import (
	"context"
	"sync"

	"github.com/matchday/prediction-league/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items []user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	return &UserRepository{items: append([]user.User(nil), users...)}
}

func (r *UserRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u.ID)
	}
	return out, nil
}
