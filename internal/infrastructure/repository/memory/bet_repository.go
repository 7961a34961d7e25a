package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchday/prediction-league/internal/domain/bet"
)

// BetRepository shares ownership of round status with RoundRepository so
// ApplyRoundScores can mirror the transactional points-plus-status write.
type BetRepository struct {
	mu     sync.RWMutex
	items  []bet.Bet
	nextID int64
	rounds *RoundRepository
}

func NewBetRepository(rounds *RoundRepository, bets []bet.Bet) *BetRepository {
	r := &BetRepository{
		items:  append([]bet.Bet(nil), bets...),
		nextID: 1,
		rounds: rounds,
	}
	for _, b := range bets {
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	return r
}

func (r *BetRepository) ListByRound(_ context.Context, roundID int64) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []bet.Bet
	for _, b := range r.items {
		if b.RoundID == roundID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BetRepository) ApplyRoundScores(_ context.Context, roundID int64, updates []bet.PointsUpdate, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[int64]int, len(r.items))
	for i, b := range r.items {
		index[b.ID] = i
	}
	for _, update := range updates {
		i, ok := index[update.BetID]
		if !ok {
			return fmt.Errorf("bet %d not found", update.BetID)
		}
		if r.items[i].PointsAwarded != nil {
			continue
		}
		points := update.Points
		r.items[i].PointsAwarded = &points
	}

	return r.rounds.markScored(roundID, scoredAt)
}

func (r *BetRepository) InsertSynthetic(_ context.Context, bets []bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[[2]int64]bool, len(r.items))
	for _, b := range r.items {
		existing[[2]int64{b.UserID, b.FixtureID}] = true
	}

	for _, b := range bets {
		key := [2]int64{b.UserID, b.FixtureID}
		if existing[key] {
			continue
		}
		b.ID = r.nextID
		b.IsSynthetic = true
		r.nextID++
		r.items = append(r.items, b)
		existing[key] = true
	}
	return nil
}
