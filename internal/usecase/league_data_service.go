package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matchday/prediction-league/internal/domain/standings"
	"github.com/matchday/prediction-league/internal/platform/cache"
	"github.com/matchday/prediction-league/internal/platform/logging"
)

// ExternalStanding is one raw league table row as the provider reports it.
// GoalDifference stays a float until validation because provider feeds have
// shipped NaN and absurd values before.
type ExternalStanding struct {
	TeamID         int64
	TeamName       string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference float64
	Points         int
}

// ExternalScorer is one raw top-scorer table entry.
type ExternalScorer struct {
	PlayerID   int64
	PlayerName string
	TeamID     int64
	Goals      float64
}

// LeagueDataProvider is the external sports-data API surface the aggregator
// consumes. Identifiers are provider-native, not internal.
type LeagueDataProvider interface {
	FetchStandings(ctx context.Context, competitionID int64, seasonYear int) ([]ExternalStanding, error)
	FetchTopScorers(ctx context.Context, competitionID int64, seasonYear int) ([]ExternalScorer, error)
}

const DefaultLeagueDataTTL = 15 * time.Minute

// LeagueDataService aggregates standings and scorer statistics from the
// external provider behind a TTL cache, and computes the tie-aware candidate
// answer sets for the dynamic questions. Accessors never propagate provider
// errors; a failed fetch yields nil or an empty set, which callers treat as
// "defer scoring".
type LeagueDataService struct {
	provider LeagueDataProvider
	store    *cache.Store
	logger   *logging.Logger
}

func NewLeagueDataService(provider LeagueDataProvider, store *cache.Store, logger *logging.Logger) *LeagueDataService {
	if store == nil {
		store = cache.NewStore(DefaultLeagueDataTTL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueDataService{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// GetStandings returns the cached league table, fetching on a cold or expired
// cache. Returns nil on any transport or provider error.
func (s *LeagueDataService) GetStandings(ctx context.Context, competitionID int64, seasonYear int) *standings.Snapshot {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueDataService.GetStandings")
	defer span.End()

	if competitionID <= 0 || seasonYear <= 0 {
		return nil
	}

	rows := s.getRawStandings(ctx, competitionID, seasonYear)
	if rows == nil {
		return nil
	}
	return s.buildSnapshot(ctx, competitionID, seasonYear, rows)
}

// GetTopScorerIDs returns every provider player id tied for the maximum goal
// count, deduplicated, or an empty set when nothing valid exists.
func (s *LeagueDataService) GetTopScorerIDs(ctx context.Context, competitionID int64, seasonYear int) []int64 {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueDataService.GetTopScorerIDs")
	defer span.End()

	scorers := s.getScorers(ctx, competitionID, seasonYear)
	if len(scorers) == 0 {
		return []int64{}
	}

	valid := make([]ExternalScorer, 0, len(scorers))
	for _, scorer := range scorers {
		if scorer.PlayerID <= 0 {
			s.logger.DebugContext(ctx, "skipped scorer with invalid player id", "player_id", scorer.PlayerID)
			continue
		}
		if math.IsNaN(scorer.Goals) || math.IsInf(scorer.Goals, 0) || scorer.Goals < 0 {
			s.logger.DebugContext(ctx, "skipped scorer with invalid goal count",
				"player_id", scorer.PlayerID,
				"goals", scorer.Goals,
			)
			continue
		}
		valid = append(valid, scorer)
	}
	if len(valid) == 0 {
		s.logger.WarnContext(ctx, "scorer feed had entries but none were valid",
			"competition_id", competitionID,
			"season_year", seasonYear,
			"raw_count", len(scorers),
		)
		return []int64{}
	}

	maxGoals := valid[0].Goals
	for _, scorer := range valid[1:] {
		if scorer.Goals > maxGoals {
			maxGoals = scorer.Goals
		}
	}

	out := make([]int64, 0, len(valid))
	seen := make(map[int64]struct{}, len(valid))
	for _, scorer := range valid {
		if scorer.Goals != maxGoals {
			continue
		}
		if _, dup := seen[scorer.PlayerID]; dup {
			s.logger.DebugContext(ctx, "deduplicated repeated player id in scorer feed", "player_id", scorer.PlayerID)
			continue
		}
		seen[scorer.PlayerID] = struct{}{}
		out = append(out, scorer.PlayerID)
	}
	return out
}

// GetBestGoalDifferenceTeamIDs returns every provider team id tied for the
// maximum goal difference, which may be negative early in a season.
func (s *LeagueDataService) GetBestGoalDifferenceTeamIDs(ctx context.Context, competitionID int64, seasonYear int) []int64 {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueDataService.GetBestGoalDifferenceTeamIDs")
	defer span.End()

	rows := s.getRawStandings(ctx, competitionID, seasonYear)
	if len(rows) == 0 {
		return []int64{}
	}

	valid := make([]ExternalStanding, 0, len(rows))
	for _, row := range rows {
		if row.TeamID <= 0 {
			s.logger.DebugContext(ctx, "skipped standing with invalid team id", "team_id", row.TeamID)
			continue
		}
		if math.IsNaN(row.GoalDifference) || math.IsInf(row.GoalDifference, 0) {
			s.logger.DebugContext(ctx, "skipped standing with invalid goal difference",
				"team_id", row.TeamID,
				"goal_difference", row.GoalDifference,
			)
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		s.logger.WarnContext(ctx, "standings feed had entries but none were valid",
			"competition_id", competitionID,
			"season_year", seasonYear,
			"raw_count", len(rows),
		)
		return []int64{}
	}

	maxDiff := valid[0].GoalDifference
	for _, row := range valid[1:] {
		if row.GoalDifference > maxDiff {
			maxDiff = row.GoalDifference
		}
	}

	out := make([]int64, 0, len(valid))
	seen := make(map[int64]struct{}, len(valid))
	for _, row := range valid {
		if row.GoalDifference != maxDiff {
			continue
		}
		if _, dup := seen[row.TeamID]; dup {
			s.logger.DebugContext(ctx, "deduplicated repeated team id in standings feed", "team_id", row.TeamID)
			continue
		}
		seen[row.TeamID] = struct{}{}
		out = append(out, row.TeamID)
	}
	return out
}

// GetLastPlaceTeam is the legacy single-answer accessor: first-encountered on
// ties, used for logging context only, never as the comparison set.
func (s *LeagueDataService) GetLastPlaceTeam(ctx context.Context, competitionID int64, seasonYear int) (standings.Row, bool) {
	snapshot := s.GetStandings(ctx, competitionID, seasonYear)
	if snapshot == nil {
		return standings.Row{}, false
	}
	return snapshot.LastPlace()
}

// GetTeamWithBestGoalDifference is the legacy single-answer counterpart of
// GetBestGoalDifferenceTeamIDs.
func (s *LeagueDataService) GetTeamWithBestGoalDifference(ctx context.Context, competitionID int64, seasonYear int) (standings.Row, bool) {
	snapshot := s.GetStandings(ctx, competitionID, seasonYear)
	if snapshot == nil || len(snapshot.Rows) == 0 {
		return standings.Row{}, false
	}

	best := snapshot.Rows[0]
	for _, row := range snapshot.Rows[1:] {
		if row.GoalDifference > best.GoalDifference {
			best = row
		}
	}
	return best, true
}

func (s *LeagueDataService) getRawStandings(ctx context.Context, competitionID int64, seasonYear int) []ExternalStanding {
	if competitionID <= 0 || seasonYear <= 0 {
		return nil
	}

	key := fmt.Sprintf("leaguedata:standings:%d:%d", competitionID, seasonYear)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, fetchErr := s.provider.FetchStandings(ctx, competitionID, seasonYear)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return rows, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "fetch raw standings failed",
			"competition_id", competitionID,
			"season_year", seasonYear,
			"error", err,
		)
		return nil
	}

	rows, ok := value.([]ExternalStanding)
	if !ok {
		return nil
	}
	if len(rows) == 0 {
		s.logger.DebugContext(ctx, "standings feed empty",
			"competition_id", competitionID,
			"season_year", seasonYear,
		)
	}
	return rows
}

func (s *LeagueDataService) getScorers(ctx context.Context, competitionID int64, seasonYear int) []ExternalScorer {
	if competitionID <= 0 || seasonYear <= 0 {
		return nil
	}

	key := fmt.Sprintf("leaguedata:scorers:%d:%d", competitionID, seasonYear)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		scorers, fetchErr := s.provider.FetchTopScorers(ctx, competitionID, seasonYear)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return scorers, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "fetch top scorers failed",
			"competition_id", competitionID,
			"season_year", seasonYear,
			"error", err,
		)
		return nil
	}

	scorers, ok := value.([]ExternalScorer)
	if !ok {
		return nil
	}
	if len(scorers) == 0 {
		s.logger.DebugContext(ctx, "scorer feed empty",
			"competition_id", competitionID,
			"season_year", seasonYear,
		)
	}
	return scorers
}

func (s *LeagueDataService) buildSnapshot(ctx context.Context, competitionID int64, seasonYear int, rows []ExternalStanding) *standings.Snapshot {
	snapshot := &standings.Snapshot{
		CompetitionID: competitionID,
		SeasonYear:    seasonYear,
		Rows:          make([]standings.Row, 0, len(rows)),
		FetchedAt:     time.Now().UTC(),
	}

	for _, row := range rows {
		if row.TeamID <= 0 {
			s.logger.DebugContext(ctx, "dropped snapshot row with invalid team id", "team_id", row.TeamID)
			continue
		}
		diff := 0
		if !math.IsNaN(row.GoalDifference) && !math.IsInf(row.GoalDifference, 0) {
			diff = int(row.GoalDifference)
		}
		snapshot.Rows = append(snapshot.Rows, standings.Row{
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: diff,
			Points:         row.Points,
		})
	}

	return snapshot
}
