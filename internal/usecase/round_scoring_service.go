package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchday/prediction-league/internal/domain/bet"
	"github.com/matchday/prediction-league/internal/domain/fixture"
	"github.com/matchday/prediction-league/internal/domain/round"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/domain/user"
	"github.com/matchday/prediction-league/internal/platform/logging"
	"github.com/matchday/prediction-league/internal/platform/resilience"
)

const (
	defaultScoringTakeover = 10 * time.Minute
	defaultScoringWorkers  = 8
)

// RoundScoringStatus classifies the outcome of a scoring pass.
type RoundScoringStatus string

const (
	// RoundScoringScored: both the match-points and dynamic-points phases
	// succeeded and the round is durably SCORED.
	RoundScoringScored RoundScoringStatus = "scored"
	// RoundScoringDeferred: the round is not ready (unfinished fixtures);
	// nothing was written, retry later.
	RoundScoringDeferred RoundScoringStatus = "deferred"
	// RoundScoringSkipped: another invocation holds the round, or it is
	// already scored; a re-entrant no-op, not an error.
	RoundScoringSkipped RoundScoringStatus = "skipped"
	// RoundScoringFailed: a clean failure before any write; safe to retry
	// from scratch.
	RoundScoringFailed RoundScoringStatus = "failed"
	// RoundScoringPartial: match points are durable but the dynamic phase
	// failed; a retry resumes at phase two without double-scoring.
	RoundScoringPartial RoundScoringStatus = "partial"
)

// RoundScoringResult is the structured outcome of one pass. No error ever
// escapes ScoreRound; failures are carried here.
type RoundScoringResult struct {
	RoundID       int64
	Status        RoundScoringStatus
	Reason        string
	BetsScored    int
	BetsSkipped   int
	DynamicUsers  int
	FallbackUsers int
	Err           error
}

func (r RoundScoringResult) Success() bool {
	switch r.Status {
	case RoundScoringScored, RoundScoringDeferred, RoundScoringSkipped:
		return true
	default:
		return false
	}
}

// RoundScoringService is the top-level scoring pipeline: match points, then
// dynamic points, then the non-participant fallback. Concurrent invocations
// for the same round are guarded twice: a singleflight dedups in-process
// callers, and a status compare-and-swap (CLOSED -> SCORING) arbitrates
// across processes. Idempotency inside a round rests on the
// points-awarded-non-nil skip check.
type RoundScoringService struct {
	roundRepo   round.Repository
	fixtureRepo fixture.Repository
	betRepo     bet.Repository
	answerRepo  seasonanswer.Repository
	userRepo    user.Repository
	dynamic     *DynamicPointsService
	logger      *logging.Logger
	now         func() time.Time
	flight      resilience.SingleFlight
	takeover    time.Duration
	workerCount int
}

func NewRoundScoringService(
	roundRepo round.Repository,
	fixtureRepo fixture.Repository,
	betRepo bet.Repository,
	answerRepo seasonanswer.Repository,
	userRepo user.Repository,
	dynamic *DynamicPointsService,
	logger *logging.Logger,
) *RoundScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundScoringService{
		roundRepo:   roundRepo,
		fixtureRepo: fixtureRepo,
		betRepo:     betRepo,
		answerRepo:  answerRepo,
		userRepo:    userRepo,
		dynamic:     dynamic,
		logger:      logger,
		now:         time.Now,
		takeover:    defaultScoringTakeover,
		workerCount: defaultScoringWorkers,
	}
}

// SetTakeoverInterval overrides how stale a SCORING claim must be before a
// fresh invocation may take the round over.
func (s *RoundScoringService) SetTakeoverInterval(d time.Duration) {
	if d > 0 {
		s.takeover = d
	}
}

func (s *RoundScoringService) SetWorkerCount(n int) {
	if n > 0 {
		s.workerCount = n
	}
}

// ScoreRound runs one full scoring pass for a round.
func (s *RoundScoringService) ScoreRound(ctx context.Context, roundID int64) RoundScoringResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundScoringService.ScoreRound")
	defer span.End()

	key := fmt.Sprintf("scoring:round:%d", roundID)
	value, _, shared := s.flight.Do(key, func() (any, error) {
		return s.scoreRoundOnce(ctx, roundID), nil
	})
	if shared {
		s.logger.InfoContext(ctx, "round scoring joined in-flight pass", "round_id", roundID)
	}

	result, ok := value.(RoundScoringResult)
	if !ok {
		return RoundScoringResult{
			RoundID: roundID,
			Status:  RoundScoringFailed,
			Reason:  "internal result type mismatch",
		}
	}
	return result
}

func (s *RoundScoringService) scoreRoundOnce(ctx context.Context, roundID int64) RoundScoringResult {
	result := RoundScoringResult{RoundID: roundID}

	rnd, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return s.failed(ctx, result, "get round", err)
	}
	if !exists {
		return s.failed(ctx, result, "get round", fmt.Errorf("%w: round=%d", ErrNotFound, roundID))
	}

	switch round.NormalizeStatus(rnd.Status) {
	case round.StatusScored:
		if !rnd.DynamicComplete() {
			// Match points were committed by an earlier pass whose dynamic
			// phase failed; resume at phase two. Re-entrancy is safe without
			// a claim: the dynamic batch is an upsert and the fallback skips
			// users already filled.
			return s.resumeDynamicPhase(ctx, rnd, result)
		}
		result.Status = RoundScoringSkipped
		result.Reason = "round already scored"
		return result
	case round.StatusOpen:
		return s.failed(ctx, result, "check round status",
			fmt.Errorf("%w: round=%d is still open", ErrInvalidInput, roundID))
	}

	claimed, err := s.roundRepo.ClaimScoring(ctx, roundID, s.now().UTC(), s.takeover)
	if err != nil {
		return s.failed(ctx, result, "claim round for scoring", err)
	}
	if !claimed {
		result.Status = RoundScoringSkipped
		result.Reason = "another invocation is scoring this round"
		return result
	}

	return s.scoreClaimedRound(ctx, rnd, result)
}

func (s *RoundScoringService) scoreClaimedRound(ctx context.Context, rnd round.Round, result RoundScoringResult) RoundScoringResult {
	fixtureIDs, err := s.roundRepo.ListFixtureIDs(ctx, rnd.ID)
	if err != nil {
		s.releaseClaim(ctx, rnd.ID)
		return s.failed(ctx, result, "list round fixtures", err)
	}
	if len(fixtureIDs) == 0 {
		// Vacuously complete: nothing to score, but the round must still
		// reach SCORED. The dynamic phase does not run for a fixture-less
		// round, so the marker is set here to keep later passes a no-op.
		if err := s.betRepo.ApplyRoundScores(ctx, rnd.ID, nil, s.now().UTC()); err != nil {
			s.releaseClaim(ctx, rnd.ID)
			return s.failed(ctx, result, "mark empty round scored", err)
		}
		s.markDynamicComplete(ctx, rnd.ID)
		result.Status = RoundScoringScored
		result.Reason = "no fixtures linked"
		return result
	}

	fixtures, err := s.fixtureRepo.ListByIDs(ctx, fixtureIDs)
	if err != nil {
		s.releaseClaim(ctx, rnd.ID)
		return s.failed(ctx, result, "list fixtures", err)
	}
	outcomeByFixture, ready := classifyFixtures(fixtureIDs, fixtures)
	if !ready {
		s.releaseClaim(ctx, rnd.ID)
		result.Status = RoundScoringDeferred
		result.Reason = "round has unfinished fixtures"
		s.logger.InfoContext(ctx, "round scoring deferred",
			"round_id", rnd.ID,
			"fixture_count", len(fixtureIDs),
		)
		return result
	}

	bets, err := s.betRepo.ListByRound(ctx, rnd.ID)
	if err != nil {
		s.releaseClaim(ctx, rnd.ID)
		return s.failed(ctx, result, "list round bets", err)
	}

	updates := make([]bet.PointsUpdate, 0, len(bets))
	for _, item := range bets {
		if item.IsSynthetic {
			continue
		}
		if item.Scored() {
			result.BetsSkipped++
			continue
		}
		points := 0
		if outcomeByFixture[item.FixtureID] == item.Prediction && fixture.ValidOutcome(item.Prediction) {
			points = 1
		}
		updates = append(updates, bet.PointsUpdate{BetID: item.ID, Points: points})
	}

	if err := s.betRepo.ApplyRoundScores(ctx, rnd.ID, updates, s.now().UTC()); err != nil {
		s.releaseClaim(ctx, rnd.ID)
		return s.failed(ctx, result, "persist match points", err)
	}
	result.BetsScored = len(updates)
	s.logger.InfoContext(ctx, "match points persisted",
		"round_id", rnd.ID,
		"bets_scored", result.BetsScored,
		"bets_skipped", result.BetsSkipped,
	)

	// Match points are durable from here on; anything that goes wrong in the
	// dynamic phase is reported as partial so a retry resumes at phase two.
	dynamicUsers, err := s.scoreDynamicPhase(ctx, rnd)
	if err != nil {
		result.Status = RoundScoringPartial
		result.Reason = "match points stored, dynamic phase failed"
		result.Err = err
		s.logger.ErrorContext(ctx, "dynamic points phase failed",
			"round_id", rnd.ID,
			"error", err,
		)
		return result
	}
	result.DynamicUsers = dynamicUsers

	// Fold the points just persisted back into the in-memory bets so the
	// fallback rule sees the completed pass.
	pointsByBet := make(map[int64]int, len(updates))
	for _, update := range updates {
		pointsByBet[update.BetID] = update.Points
	}
	for idx := range bets {
		if points, ok := pointsByBet[bets[idx].ID]; ok {
			awarded := points
			bets[idx].PointsAwarded = &awarded
		}
	}

	fallbackUsers, err := s.applyNonParticipantFallback(ctx, rnd, fixtureIDs, bets)
	if err != nil {
		// Best-effort: the primary value is already durable.
		s.logger.WarnContext(ctx, "non-participant fallback failed",
			"round_id", rnd.ID,
			"error", err,
		)
	}
	result.FallbackUsers = fallbackUsers

	s.markDynamicComplete(ctx, rnd.ID)
	result.Status = RoundScoringScored
	return result
}

// resumeDynamicPhase re-runs phase two for a SCORED round that is missing the
// dynamic-completion marker: the dynamic batch, then the fallback, then the
// marker. Match points are never touched here.
func (s *RoundScoringService) resumeDynamicPhase(ctx context.Context, rnd round.Round, result RoundScoringResult) RoundScoringResult {
	s.logger.InfoContext(ctx, "resuming dynamic points phase",
		"round_id", rnd.ID,
	)

	dynamicUsers, err := s.scoreDynamicPhase(ctx, rnd)
	if err != nil {
		result.Status = RoundScoringPartial
		result.Reason = "match points stored, dynamic phase failed"
		result.Err = err
		s.logger.ErrorContext(ctx, "dynamic points phase failed",
			"round_id", rnd.ID,
			"error", err,
		)
		return result
	}
	result.DynamicUsers = dynamicUsers

	fixtureIDs, err := s.roundRepo.ListFixtureIDs(ctx, rnd.ID)
	if err == nil {
		var bets []bet.Bet
		if bets, err = s.betRepo.ListByRound(ctx, rnd.ID); err == nil {
			result.FallbackUsers, err = s.applyNonParticipantFallback(ctx, rnd, fixtureIDs, bets)
		}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "non-participant fallback failed",
			"round_id", rnd.ID,
			"error", err,
		)
	}

	s.markDynamicComplete(ctx, rnd.ID)
	result.Status = RoundScoringScored
	result.Reason = "resumed dynamic phase"
	return result
}

// markDynamicComplete is best-effort: when the marker write fails, the next
// pass redoes phase two against idempotent writes.
func (s *RoundScoringService) markDynamicComplete(ctx context.Context, roundID int64) {
	if err := s.roundRepo.MarkDynamicScored(ctx, roundID, s.now().UTC()); err != nil {
		s.logger.WarnContext(ctx, "mark dynamic phase complete failed",
			"round_id", roundID,
			"error", err,
		)
	}
}

func (s *RoundScoringService) scoreDynamicPhase(ctx context.Context, rnd round.Round) (int, error) {
	answers, err := s.answerRepo.ListBySeason(ctx, rnd.SeasonID)
	if err != nil {
		return 0, fmt.Errorf("list season answers: %w", err)
	}
	if len(answers) == 0 {
		return 0, nil
	}

	byUser := make(map[int64][]seasonanswer.Answer)
	for _, answer := range answers {
		byUser[answer.UserID] = append(byUser[answer.UserID], answer)
	}
	userIDs := make([]int64, 0, len(byUser))
	for userID := range byUser {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	workerCount := s.workerCount
	if workerCount < 1 {
		workerCount = 1
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return 0, fmt.Errorf("create scoring worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		rows     []seasonanswer.DynamicPointsRow
		firstErr error
	)
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		userID := userID
		userAnswers := byUser[userID]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			calc, calcErr := s.dynamic.Calculate(ctx, userID, rnd.CompetitionID, rnd.SeasonYear, userAnswers)
			mu.Lock()
			defer mu.Unlock()
			if calcErr != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("calculate dynamic points user=%d: %w", userID, calcErr)
				}
				return
			}
			if calc == nil {
				return
			}
			rows = append(rows, seasonanswer.DynamicPointsRow{
				UserID:             userID,
				RoundID:            rnd.ID,
				TotalPoints:        calc.TotalPoints,
				LeagueWinner:       calc.LeagueWinner,
				TopScorer:          calc.TopScorer,
				BestGoalDifference: calc.BestGoalDifference,
				LastPlace:          calc.LastPlace,
			})
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit scoring task user=%d: %w", userID, submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return 0, firstErr
	}
	if len(rows) == 0 {
		return 0, nil
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	if err := s.answerRepo.ApplyDynamicPoints(ctx, rows, s.now().UTC()); err != nil {
		return 0, fmt.Errorf("persist dynamic points: %w", err)
	}
	return len(rows), nil
}

// classifyFixtures derives the outcome per fixture and reports readiness.
// The round is ready only when every linked fixture is present, finished,
// and has a derivable outcome.
func classifyFixtures(ids []int64, fixtures []fixture.Fixture) (map[int64]fixture.Outcome, bool) {
	byID := make(map[int64]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		byID[item.ID] = item
	}

	outcomes := make(map[int64]fixture.Outcome, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, false
		}
		outcome := item.Outcome()
		if outcome == fixture.OutcomeUnknown {
			return nil, false
		}
		outcomes[id] = outcome
	}
	return outcomes, true
}

func (s *RoundScoringService) releaseClaim(ctx context.Context, roundID int64) {
	if err := s.roundRepo.ReleaseScoring(ctx, roundID); err != nil {
		s.logger.WarnContext(ctx, "release scoring claim failed", "round_id", roundID, "error", err)
	}
}

func (s *RoundScoringService) failed(ctx context.Context, result RoundScoringResult, operation string, err error) RoundScoringResult {
	result.Status = RoundScoringFailed
	result.Reason = operation
	result.Err = fmt.Errorf("%s: %w", operation, err)
	s.logger.ErrorContext(ctx, "round scoring failed",
		"round_id", result.RoundID,
		"operation", operation,
		"error", err,
	)
	return result
}
