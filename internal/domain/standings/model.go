package standings

import "time"

// Row is one league table entry, keyed by the provider's team identifier.
type Row struct {
	TeamID         int64
	TeamName       string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// Snapshot is the cached league table for one competition and season, as of
// the last provider fetch. It is eventually consistent external state.
type Snapshot struct {
	CompetitionID int64
	SeasonYear    int
	Rows          []Row
	FetchedAt     time.Time
}

// Leader returns the row ranked first, when the table is non-empty.
func (s *Snapshot) Leader() (Row, bool) {
	return s.rowAt(func(best, candidate Row) bool {
		return candidate.Position < best.Position
	})
}

// LastPlace returns the row ranked last, first-encountered on equal positions.
func (s *Snapshot) LastPlace() (Row, bool) {
	return s.rowAt(func(best, candidate Row) bool {
		return candidate.Position > best.Position
	})
}

func (s *Snapshot) rowAt(better func(best, candidate Row) bool) (Row, bool) {
	if s == nil || len(s.Rows) == 0 {
		return Row{}, false
	}
	best := s.Rows[0]
	for _, row := range s.Rows[1:] {
		if better(best, row) {
			best = row
		}
	}
	return best, true
}

// Scorer is one entry of the provider's top-scorer table.
type Scorer struct {
	PlayerID   int64
	PlayerName string
	TeamID     int64
	Goals      int
}
