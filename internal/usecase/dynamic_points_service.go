package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/matchday/prediction-league/internal/domain/idmap"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/domain/standings"
	"github.com/matchday/prediction-league/internal/platform/logging"
)

// PointsPerDynamicQuestion is awarded per correct season-long answer; the
// total is always a multiple of it, at most four times it.
const PointsPerDynamicQuestion = 3

// DynamicPointsResult summarizes one user's season-long scoring for a pass:
// the total plus the four per-question verdicts. Comparisons carries the
// per-question diagnostics; neither is persisted verbatim.
type DynamicPointsResult struct {
	UserID             int64
	TotalPoints        int
	LeagueWinner       bool
	TopScorer          bool
	BestGoalDifference bool
	LastPlace          bool
	Comparisons        map[seasonanswer.Question]ComparisonResult
}

// DynamicPointsService resolves a user's stored season answers against live
// standings data. It is stateless per call and performs no writes: calling it
// twice with identical answers and identical external state yields identical
// results.
type DynamicPointsService struct {
	leagueData *LeagueDataService
	idmapRepo  idmap.Repository
	logger     *logging.Logger

	winnerComparer    *Comparer
	topScorerComparer *Comparer
	goalDiffComparer  *Comparer
	lastPlaceComparer *Comparer
}

func NewDynamicPointsService(leagueData *LeagueDataService, idmapRepo idmap.Repository, logger *logging.Logger) *DynamicPointsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamicPointsService{
		leagueData:        leagueData,
		idmapRepo:         idmapRepo,
		logger:            logger,
		winnerComparer:    NewComparer(ExactMatchProfile(), logger),
		topScorerComparer: NewComparer(TopScorerProfile(), logger),
		goalDiffComparer:  NewComparer(GoalDifferenceProfile(), logger),
		lastPlaceComparer: NewComparer(ExactMatchProfile(), logger),
	}
}

// Calculate scores the four dynamic questions for one user.
//
// A (nil, nil) return means there was nothing to score: the user has no
// season answers. A non-nil error means required external data is missing or
// a lookup failed; the caller must defer the pass and retry later rather than
// award zero points.
func (s *DynamicPointsService) Calculate(
	ctx context.Context,
	userID int64,
	competitionID int64,
	seasonYear int,
	answers []seasonanswer.Answer,
) (*DynamicPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DynamicPointsService.Calculate")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidInput)
	}
	if len(answers) == 0 {
		return nil, nil
	}

	// The four fetches have no ordering dependency between them; the cache
	// makes repeats per pass cheap.
	var (
		snapshot      *standings.Snapshot
		topScorerIDs  []int64
		bestGoalDiffs []int64
		lastPlaceRow  standings.Row
		lastPlaceOK   bool
	)
	var wg conc.WaitGroup
	wg.Go(func() { snapshot = s.leagueData.GetStandings(ctx, competitionID, seasonYear) })
	wg.Go(func() { topScorerIDs = s.leagueData.GetTopScorerIDs(ctx, competitionID, seasonYear) })
	wg.Go(func() { bestGoalDiffs = s.leagueData.GetBestGoalDifferenceTeamIDs(ctx, competitionID, seasonYear) })
	wg.Go(func() { lastPlaceRow, lastPlaceOK = s.leagueData.GetLastPlaceTeam(ctx, competitionID, seasonYear) })
	wg.Wait()

	result := &DynamicPointsResult{
		UserID:      userID,
		Comparisons: make(map[seasonanswer.Question]ComparisonResult, len(answers)),
	}

	matched := 0
	for _, answer := range answers {
		candidates, comparer, err := s.candidatesFor(answer.Question, snapshot, topScorerIDs, bestGoalDiffs, lastPlaceRow, lastPlaceOK)
		if err != nil {
			return nil, err
		}

		internalID, ok := answer.AnsweredID()
		if !ok {
			s.logger.WarnContext(ctx, "season answer has no identifier, skipping question",
				"user_id", userID,
				"question", answer.Question,
			)
			continue
		}

		kind := idmap.KindTeam
		if !seasonanswer.IsTeamQuestion(answer.Question) {
			kind = idmap.KindPlayer
		}
		providerID, found, err := s.idmapRepo.GetProviderID(ctx, kind, internalID)
		if err != nil {
			return nil, fmt.Errorf("translate %s answer id=%d: %w", answer.Question, internalID, err)
		}
		if !found {
			// No mapping means the question can be neither awarded nor
			// penalized for this user.
			s.logger.WarnContext(ctx, "no provider mapping for season answer, skipping question",
				"user_id", userID,
				"question", answer.Question,
				"internal_id", internalID,
			)
			continue
		}

		comparison := comparer.Compare(providerID, candidates)
		result.Comparisons[answer.Question] = comparison
		if !comparison.Matched {
			continue
		}

		matched++
		switch answer.Question {
		case seasonanswer.QuestionLeagueWinner:
			result.LeagueWinner = true
		case seasonanswer.QuestionTopScorer:
			result.TopScorer = true
		case seasonanswer.QuestionBestGoalDifference:
			result.BestGoalDifference = true
		case seasonanswer.QuestionLastPlace:
			result.LastPlace = true
		}
	}

	result.TotalPoints = matched * PointsPerDynamicQuestion
	return result, nil
}

// candidatesFor maps a question to its current candidate answer set. Every
// question is a set comparison; league winner and last place are simply
// guaranteed-singleton sets under this league's rules.
func (s *DynamicPointsService) candidatesFor(
	question seasonanswer.Question,
	snapshot *standings.Snapshot,
	topScorerIDs []int64,
	bestGoalDiffs []int64,
	lastPlaceRow standings.Row,
	lastPlaceOK bool,
) ([]int64, *Comparer, error) {
	switch question {
	case seasonanswer.QuestionLeagueWinner:
		if snapshot == nil {
			return nil, nil, fmt.Errorf("%w: standings unavailable", ErrDependencyUnavailable)
		}
		leader, ok := snapshot.Leader()
		if !ok {
			return nil, nil, fmt.Errorf("%w: standings empty", ErrDependencyUnavailable)
		}
		return []int64{leader.TeamID}, s.winnerComparer, nil
	case seasonanswer.QuestionTopScorer:
		if len(topScorerIDs) == 0 {
			return nil, nil, fmt.Errorf("%w: top scorer set unavailable", ErrDependencyUnavailable)
		}
		return topScorerIDs, s.topScorerComparer, nil
	case seasonanswer.QuestionBestGoalDifference:
		if len(bestGoalDiffs) == 0 {
			return nil, nil, fmt.Errorf("%w: goal difference set unavailable", ErrDependencyUnavailable)
		}
		return bestGoalDiffs, s.goalDiffComparer, nil
	case seasonanswer.QuestionLastPlace:
		if !lastPlaceOK {
			return nil, nil, fmt.Errorf("%w: last place unavailable", ErrDependencyUnavailable)
		}
		return []int64{lastPlaceRow.TeamID}, s.lastPlaceComparer, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown question %q", ErrInvalidInput, question)
	}
}
