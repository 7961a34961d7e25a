package round

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (Round, bool, error)

	// ListFixtureIDs resolves the fixtures linked to a round through the
	// round_fixtures link table.
	ListFixtureIDs(ctx context.Context, roundID int64) ([]int64, error)

	// ClaimScoring transitions a CLOSED round to SCORING as a compare-and-swap.
	// A round already in SCORING may be reclaimed when its claim is older than
	// the takeover interval (a previous invocation died mid-pass). Returns
	// false when another invocation holds the round.
	ClaimScoring(ctx context.Context, roundID int64, now time.Time, takeover time.Duration) (bool, error)

	// ReleaseScoring returns a SCORING round to CLOSED after a pass that made
	// no writes (deferral or clean failure), so the next attempt can claim it.
	ReleaseScoring(ctx context.Context, roundID int64) error

	// MarkDynamicScored records that the dynamic-points phase completed for a
	// SCORED round. Until the marker is set, a scoring pass on a SCORED round
	// resumes at the dynamic phase instead of skipping.
	MarkDynamicScored(ctx context.Context, roundID int64, at time.Time) error
}
