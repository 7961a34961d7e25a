package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchday/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	mu         sync.RWMutex
	items      map[int64]round.Round
	fixtureIDs map[int64][]int64
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[int64]round.Round, len(rounds))
	for _, r := range rounds {
		items[r.ID] = r
	}

	return &RoundRepository{
		items:      items,
		fixtureIDs: make(map[int64][]int64),
	}
}

func (r *RoundRepository) Put(rnd round.Round) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rnd.ID] = rnd
}

// LinkFixtures attaches fixtures to a round, replacing any previous link set.
func (r *RoundRepository) LinkFixtures(roundID int64, fixtureIDs ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtureIDs[roundID] = append([]int64(nil), fixtureIDs...)
}

func (r *RoundRepository) GetByID(_ context.Context, id int64) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rnd, ok := r.items[id]
	if !ok {
		return round.Round{}, false, nil
	}
	return rnd, true, nil
}

func (r *RoundRepository) ListFixtureIDs(_ context.Context, roundID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]int64(nil), r.fixtureIDs[roundID]...), nil
}

func (r *RoundRepository) ClaimScoring(_ context.Context, roundID int64, now time.Time, takeover time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rnd, ok := r.items[roundID]
	if !ok {
		return false, nil
	}

	switch rnd.Status {
	case round.StatusClosed:
	case round.StatusScoring:
		if rnd.ScoringStartedAt == nil || !rnd.ScoringStartedAt.Before(now.Add(-takeover)) {
			return false, nil
		}
	default:
		return false, nil
	}

	claimedAt := now
	rnd.Status = round.StatusScoring
	rnd.ScoringStartedAt = &claimedAt
	r.items[roundID] = rnd
	return true, nil
}

func (r *RoundRepository) ReleaseScoring(_ context.Context, roundID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rnd, ok := r.items[roundID]
	if !ok || rnd.Status != round.StatusScoring {
		return nil
	}

	rnd.Status = round.StatusClosed
	rnd.ScoringStartedAt = nil
	r.items[roundID] = rnd
	return nil
}

func (r *RoundRepository) MarkDynamicScored(_ context.Context, roundID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rnd, ok := r.items[roundID]
	if !ok {
		return fmt.Errorf("round %d not found", roundID)
	}
	if rnd.Status != round.StatusScored {
		return fmt.Errorf("round %d is not %s", roundID, round.StatusScored)
	}

	marked := at
	rnd.DynamicScoredAt = &marked
	r.items[roundID] = rnd
	return nil
}

// markScored is the round half of the bet repository's atomic batch.
func (r *RoundRepository) markScored(roundID int64, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rnd, ok := r.items[roundID]
	if !ok {
		return fmt.Errorf("round %d not found", roundID)
	}
	if rnd.Status != round.StatusScoring {
		return fmt.Errorf("round %d is no longer in %s", roundID, round.StatusScoring)
	}

	at := scoredAt
	rnd.Status = round.StatusScored
	rnd.ScoredAt = &at
	rnd.ScoringStartedAt = nil
	r.items[roundID] = rnd
	return nil
}
