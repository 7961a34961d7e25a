package memory

import (
	"context"
	"sync"

	"github.com/matchday/prediction-league/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[int64]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	items := make(map[int64]fixture.Fixture, len(fixtures))
	for _, f := range fixtures {
		items[f.ID] = f
	}
	return &FixtureRepository{items: items}
}

func (r *FixtureRepository) Put(f fixture.Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[f.ID] = f
}

func (r *FixtureRepository) ListByIDs(_ context.Context, ids []int64) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fixture.Fixture
	for _, id := range ids {
		if f, ok := r.items[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
