package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/matchday/prediction-league/internal/domain/idmap"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/infrastructure/repository/memory"
	"github.com/matchday/prediction-league/internal/platform/logging"
)

func int64Ptr(v int64) *int64 { return &v }

// dynamicFixture wires a DynamicPointsService over an in-memory provider whose
// table has Arsenal (internal 1, provider 57) leading, Chelsea (internal 2,
// provider 61) last, and a two-way scorer tie between internal players 10 and
// 11 (provider 100 and 200).
func newDynamicFixture(t *testing.T) (*DynamicPointsService, *stubProvider) {
	t.Helper()

	provider := &stubProvider{
		standings: []ExternalStanding{
			{TeamID: 57, TeamName: "Arsenal", Position: 1, Points: 30, GoalDifference: 15},
			{TeamID: 61, TeamName: "Chelsea", Position: 2, Points: 12, GoalDifference: -3},
		},
		scorers: []ExternalScorer{
			{PlayerID: 100, Goals: 14},
			{PlayerID: 200, Goals: 14},
			{PlayerID: 300, Goals: 9},
		},
	}
	idmapRepo := memory.NewIDMapRepository([]idmap.Mapping{
		{Kind: idmap.KindTeam, InternalID: 1, ProviderID: 57},
		{Kind: idmap.KindTeam, InternalID: 2, ProviderID: 61},
		{Kind: idmap.KindPlayer, InternalID: 10, ProviderID: 100},
		{Kind: idmap.KindPlayer, InternalID: 11, ProviderID: 200},
	})

	leagueData := NewLeagueDataService(provider, nil, logging.NewNop())
	return NewDynamicPointsService(leagueData, idmapRepo, logging.NewNop()), provider
}

func TestDynamicPointsService_AllFourCorrect(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	answers := []seasonanswer.Answer{
		{UserID: 1, Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(1)},
		{UserID: 1, Question: seasonanswer.QuestionTopScorer, PlayerID: int64Ptr(10)},
		{UserID: 1, Question: seasonanswer.QuestionBestGoalDifference, TeamID: int64Ptr(1)},
		{UserID: 1, Question: seasonanswer.QuestionLastPlace, TeamID: int64Ptr(2)},
	}

	result, err := svc.Calculate(context.Background(), 1, 2021, 2025, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalPoints != 4*PointsPerDynamicQuestion {
		t.Fatalf("total points: got=%d want=%d", result.TotalPoints, 4*PointsPerDynamicQuestion)
	}
	if !result.LeagueWinner || !result.TopScorer || !result.BestGoalDifference || !result.LastPlace {
		t.Fatalf("expected all four verdicts true, got=%+v", result)
	}
}

func TestDynamicPointsService_TieCreditsEveryTiedPick(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	ctx := context.Background()

	for _, playerInternalID := range []int64{10, 11} {
		answers := []seasonanswer.Answer{
			{UserID: 1, Question: seasonanswer.QuestionTopScorer, PlayerID: int64Ptr(playerInternalID)},
		}
		result, err := svc.Calculate(ctx, 1, 2021, 2025, answers)
		if err != nil {
			t.Fatalf("unexpected error for player %d: %v", playerInternalID, err)
		}
		if !result.TopScorer {
			t.Fatalf("player %d is tied for top scorer and must be credited", playerInternalID)
		}
		if result.TotalPoints != PointsPerDynamicQuestion {
			t.Fatalf("total points for player %d: got=%d want=%d", playerInternalID, result.TotalPoints, PointsPerDynamicQuestion)
		}
		comparison := result.Comparisons[seasonanswer.QuestionTopScorer]
		if comparison.TieSize != 2 {
			t.Fatalf("tie size: got=%d want=2", comparison.TieSize)
		}
	}
}

func TestDynamicPointsService_WrongAnswersScoreZero(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	answers := []seasonanswer.Answer{
		{UserID: 1, Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(2)},
		{UserID: 1, Question: seasonanswer.QuestionLastPlace, TeamID: int64Ptr(1)},
	}

	result, err := svc.Calculate(context.Background(), 1, 2021, 2025, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalPoints != 0 {
		t.Fatalf("total points: got=%d want=0", result.TotalPoints)
	}
	if result.LeagueWinner || result.LastPlace {
		t.Fatalf("wrong picks must not be credited, got=%+v", result)
	}
}

func TestDynamicPointsService_NoAnswersIsNotAnError(t *testing.T) {
	t.Parallel()

	svc, provider := newDynamicFixture(t)

	result, err := svc.Calculate(context.Background(), 1, 2021, 2025, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for zero answers, got=%+v", result)
	}
	if provider.standingsCalls != 0 || provider.scorersCalls != 0 {
		t.Fatalf("provider must not be hit when there is nothing to score")
	}
}

func TestDynamicPointsService_MissingMappingSkipsQuestion(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	answers := []seasonanswer.Answer{
		{UserID: 1, Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(999)},
		{UserID: 1, Question: seasonanswer.QuestionLastPlace, TeamID: int64Ptr(2)},
	}

	result, err := svc.Calculate(context.Background(), 1, 2021, 2025, answers)
	if err != nil {
		t.Fatalf("missing mapping must not fail the pass: %v", err)
	}
	if result.LeagueWinner {
		t.Fatalf("unmapped answer must not be credited")
	}
	if !result.LastPlace {
		t.Fatalf("remaining questions must still be scored")
	}
	if result.TotalPoints != PointsPerDynamicQuestion {
		t.Fatalf("total points: got=%d want=%d", result.TotalPoints, PointsPerDynamicQuestion)
	}
}

func TestDynamicPointsService_MissingDataDefers(t *testing.T) {
	t.Parallel()

	svc, provider := newDynamicFixture(t)
	provider.standingsErr = fmt.Errorf("upstream down")
	answers := []seasonanswer.Answer{
		{UserID: 1, Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(1)},
	}

	_, err := svc.Calculate(context.Background(), 1, 2021, 2025, answers)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}

func TestDynamicPointsService_InvalidUserID(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	answers := []seasonanswer.Answer{
		{Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(1)},
	}

	_, err := svc.Calculate(context.Background(), 0, 2021, 2025, answers)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestDynamicPointsService_Deterministic(t *testing.T) {
	t.Parallel()

	svc, _ := newDynamicFixture(t)
	answers := []seasonanswer.Answer{
		{UserID: 1, Question: seasonanswer.QuestionLeagueWinner, TeamID: int64Ptr(1)},
		{UserID: 1, Question: seasonanswer.QuestionTopScorer, PlayerID: int64Ptr(11)},
		{UserID: 1, Question: seasonanswer.QuestionLastPlace, TeamID: int64Ptr(1)},
	}

	ctx := context.Background()
	first, err := svc.Calculate(ctx, 1, 2021, 2025, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Calculate(ctx, 1, 2021, 2025, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Elapsed jitters between runs; the verdicts and totals must not.
	for _, r := range []*DynamicPointsResult{first, second} {
		for q, c := range r.Comparisons {
			c.Elapsed = 0
			r.Comparisons[q] = c
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calculation diverged:\nfirst=%+v\nsecond=%+v", first, second)
	}
}
