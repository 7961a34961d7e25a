package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
)

type SeasonAnswerRepository struct {
	mu      sync.RWMutex
	answers []seasonanswer.Answer
	points  map[[2]int64]seasonanswer.DynamicPointsRow
}

func NewSeasonAnswerRepository(answers []seasonanswer.Answer) *SeasonAnswerRepository {
	return &SeasonAnswerRepository{
		answers: append([]seasonanswer.Answer(nil), answers...),
		points:  make(map[[2]int64]seasonanswer.DynamicPointsRow),
	}
}

func (r *SeasonAnswerRepository) ListBySeason(_ context.Context, seasonID int64) ([]seasonanswer.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []seasonanswer.Answer
	for _, a := range r.answers {
		if a.SeasonID == seasonID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *SeasonAnswerRepository) ApplyDynamicPoints(_ context.Context, rows []seasonanswer.DynamicPointsRow, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.points[[2]int64{row.UserID, row.RoundID}] = row
	}
	return nil
}

func (r *SeasonAnswerRepository) GetDynamicPoints(_ context.Context, userID, roundID int64) (seasonanswer.DynamicPointsRow, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.points[[2]int64{userID, roundID}]
	return row, ok, nil
}
