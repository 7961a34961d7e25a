package memory

import (
	"context"
	"sync"

	"github.com/matchday/prediction-league/internal/domain/idmap"
)

type idmapKey struct {
	kind       idmap.Kind
	internalID int64
}

type IDMapRepository struct {
	mu    sync.RWMutex
	items map[idmapKey]int64
}

func NewIDMapRepository(mappings []idmap.Mapping) *IDMapRepository {
	items := make(map[idmapKey]int64, len(mappings))
	for _, m := range mappings {
		items[idmapKey{kind: m.Kind, internalID: m.InternalID}] = m.ProviderID
	}
	return &IDMapRepository{items: items}
}

func (r *IDMapRepository) Put(m idmap.Mapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[idmapKey{kind: m.Kind, internalID: m.InternalID}] = m.ProviderID
}

func (r *IDMapRepository) GetProviderID(_ context.Context, kind idmap.Kind, internalID int64) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerID, ok := r.items[idmapKey{kind: kind, internalID: internalID}]
	return providerID, ok, nil
}
