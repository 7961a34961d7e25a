package round

import (
	"strings"
	"time"
)

const (
	StatusOpen    = "OPEN"
	StatusClosed  = "CLOSED"
	StatusScoring = "SCORING"
	StatusScored  = "SCORED"
)

// Round is one betting round: a named set of fixtures users predict together.
type Round struct {
	ID               int64
	SeasonID         int64
	CompetitionID    int64
	SeasonYear       int
	Name             string
	Status           string
	ScoringStartedAt *time.Time
	ScoredAt         *time.Time
	DynamicScoredAt  *time.Time
}

// DynamicComplete reports whether the dynamic-points phase has finished for
// this round. A SCORED round without the marker had its match points persisted
// but still owes the dynamic batch.
func (r Round) DynamicComplete() bool {
	return r.DynamicScoredAt != nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusOpen
	}
	return status
}

var statusOrder = map[string]int{
	StatusOpen:    0,
	StatusClosed:  1,
	StatusScoring: 2,
	StatusScored:  3,
}

// CanTransition reports whether moving from one status to the next respects
// the monotonic open -> closed -> scoring -> scored lifecycle.
func CanTransition(from, to string) bool {
	fromRank, ok := statusOrder[NormalizeStatus(from)]
	if !ok {
		return false
	}
	toRank, ok := statusOrder[NormalizeStatus(to)]
	if !ok {
		return false
	}
	return toRank > fromRank
}
