package idmap

import "context"

// Kind selects which identifier space a mapping belongs to.
type Kind string

const (
	KindTeam   Kind = "team"
	KindPlayer Kind = "player"
)

// Mapping translates an internal team or player identifier into the external
// provider's identifier for the same entity.
type Mapping struct {
	Kind       Kind
	InternalID int64
	ProviderID int64
}

type Repository interface {
	// GetProviderID returns not-found (false, nil error) when no mapping
	// exists; a missing mapping is expected, not an error.
	GetProviderID(ctx context.Context, kind Kind, internalID int64) (int64, bool, error)
}
