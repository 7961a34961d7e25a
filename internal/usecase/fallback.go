package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/matchday/prediction-league/internal/domain/bet"
	"github.com/matchday/prediction-league/internal/domain/fixture"
	"github.com/matchday/prediction-league/internal/domain/round"
)

// applyNonParticipantFallback grants every registered user who placed no bet
// in the round the minimum total scored by an actual participant, so
// non-participants can neither game last-place avoidance nor sink below the
// field. The score is materialized as synthetic bet rows against the round's
// fixtures, flagged IsSynthetic so a re-run skips users already filled.
//
// The bets argument must reflect the completed match-points pass: every real
// bet carries its awarded points.
func (s *RoundScoringService) applyNonParticipantFallback(
	ctx context.Context,
	rnd round.Round,
	fixtureIDs []int64,
	bets []bet.Bet,
) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundScoringService.applyNonParticipantFallback")
	defer span.End()

	participants := make(map[int64]struct{})
	totals := make(map[int64]int)
	scoredBets := 0
	syntheticUsers := make(map[int64]struct{})
	for _, item := range bets {
		if item.IsSynthetic {
			syntheticUsers[item.UserID] = struct{}{}
			continue
		}
		participants[item.UserID] = struct{}{}
		if item.PointsAwarded != nil {
			totals[item.UserID] += *item.PointsAwarded
			scoredBets++
		}
	}
	if len(participants) == 0 {
		return 0, nil
	}
	if scoredBets == 0 {
		// No awarded points yet; the rule only applies after a completed pass.
		return 0, nil
	}

	minScore := -1
	for userID := range participants {
		total := totals[userID]
		if minScore < 0 || total < minScore {
			minScore = total
		}
	}
	if minScore > len(fixtureIDs) {
		minScore = len(fixtureIDs)
	}

	registered, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list registered users: %w", err)
	}

	nonParticipants := make([]int64, 0, len(registered))
	for _, userID := range registered {
		if _, betting := participants[userID]; betting {
			continue
		}
		if _, filled := syntheticUsers[userID]; filled {
			continue
		}
		nonParticipants = append(nonParticipants, userID)
	}
	if len(nonParticipants) == 0 {
		return 0, nil
	}
	sort.Slice(nonParticipants, func(i, j int) bool { return nonParticipants[i] < nonParticipants[j] })

	now := s.now().UTC()
	synthetic := make([]bet.Bet, 0, len(nonParticipants)*len(fixtureIDs))
	for _, userID := range nonParticipants {
		for idx, fixtureID := range fixtureIDs {
			points := 0
			if idx < minScore {
				points = 1
			}
			awarded := points
			synthetic = append(synthetic, bet.Bet{
				UserID:        userID,
				RoundID:       rnd.ID,
				FixtureID:     fixtureID,
				Prediction:    fixture.OutcomeUnknown,
				PointsAwarded: &awarded,
				IsSynthetic:   true,
				CreatedAt:     now,
			})
		}
	}

	if err := s.betRepo.InsertSynthetic(ctx, synthetic); err != nil {
		return 0, fmt.Errorf("insert synthetic fallback bets: %w", err)
	}

	s.logger.InfoContext(ctx, "non-participant fallback applied",
		"round_id", rnd.ID,
		"minimum_score", minScore,
		"users_filled", len(nonParticipants),
	)
	return len(nonParticipants), nil
}
