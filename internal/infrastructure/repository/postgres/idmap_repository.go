package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchday/prediction-league/internal/domain/idmap"
)

type IDMapRepository struct {
	db *sqlx.DB
}

func NewIDMapRepository(db *sqlx.DB) *IDMapRepository {
	return &IDMapRepository{db: db}
}

func (r *IDMapRepository) GetProviderID(ctx context.Context, kind idmap.Kind, internalID int64) (int64, bool, error) {
	const query = `SELECT provider_id FROM provider_id_map WHERE kind = $1 AND internal_id = $2`

	var providerID int64
	if err := r.db.GetContext(ctx, &providerID, query, string(kind), internalID); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get provider id: %w", err)
	}
	return providerID, true, nil
}
