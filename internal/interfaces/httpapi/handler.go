package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchday/prediction-league/internal/domain/round"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/platform/logging"
	"github.com/matchday/prediction-league/internal/usecase"
)

type Handler struct {
	scoringService    *usecase.RoundScoringService
	leagueDataService *usecase.LeagueDataService
	roundRepo         round.Repository
	answerRepo        seasonanswer.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	scoringService *usecase.RoundScoringService,
	leagueDataService *usecase.LeagueDataService,
	roundRepo round.Repository,
	answerRepo seasonanswer.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoringService:    scoringService,
		leagueDataService: leagueDataService,
		roundRepo:         roundRepo,
		answerRepo:        answerRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type scoreRoundRequest struct {
	RoundID int64 `json:"round_id" validate:"required,gt=0"`
}

type scoreRoundResponse struct {
	RoundID       int64  `json:"round_id"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	BetsScored    int    `json:"bets_scored"`
	BetsSkipped   int    `json:"bets_skipped"`
	DynamicUsers  int    `json:"dynamic_users"`
	FallbackUsers int    `json:"fallback_users"`
	Error         string `json:"error,omitempty"`
}

// ScoreRound triggers one scoring pass for a round. The response status code
// follows the result taxonomy: re-runnable outcomes are 2xx so the scheduler
// treats them as settled, failures are 5xx so it retries.
func (h *Handler) ScoreRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreRound")
	defer span.End()

	var req scoreRoundRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.scoringService.ScoreRound(ctx, req.RoundID)

	resp := scoreRoundResponse{
		RoundID:       result.RoundID,
		Status:        string(result.Status),
		Reason:        result.Reason,
		BetsScored:    result.BetsScored,
		BetsSkipped:   result.BetsSkipped,
		DynamicUsers:  result.DynamicUsers,
		FallbackUsers: result.FallbackUsers,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}

	status := http.StatusOK
	if !result.Success() {
		h.logger.WarnContext(ctx, "score round pass did not complete",
			"round_id", result.RoundID,
			"status", result.Status,
			"reason", result.Reason,
			"error", result.Err,
		)
		status = http.StatusInternalServerError
	}
	writeSuccess(ctx, w, status, resp)
}

type roundResponse struct {
	ID               int64      `json:"id"`
	SeasonID         int64      `json:"season_id"`
	CompetitionID    int64      `json:"competition_id"`
	SeasonYear       int        `json:"season_year"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	ScoringStartedAt *time.Time `json:"scoring_started_at,omitempty"`
	ScoredAt         *time.Time `json:"scored_at,omitempty"`
	DynamicScoredAt  *time.Time `json:"dynamic_scored_at,omitempty"`
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	roundID, err := pathInt64(r, "roundID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rnd, found, err := h.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get round failed", "round_id", roundID, "error", err)
		writeInternalError(ctx, w)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: round %d", usecase.ErrNotFound, roundID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundResponse{
		ID:               rnd.ID,
		SeasonID:         rnd.SeasonID,
		CompetitionID:    rnd.CompetitionID,
		SeasonYear:       rnd.SeasonYear,
		Name:             rnd.Name,
		Status:           rnd.Status,
		ScoringStartedAt: rnd.ScoringStartedAt,
		ScoredAt:         rnd.ScoredAt,
		DynamicScoredAt:  rnd.DynamicScoredAt,
	})
}

type standingRowResponse struct {
	TeamID         int64  `json:"team_id"`
	TeamName       string `json:"team_name"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type standingsResponse struct {
	CompetitionID int64                 `json:"competition_id"`
	SeasonYear    int                   `json:"season_year"`
	FetchedAt     time.Time             `json:"fetched_at"`
	Rows          []standingRowResponse `json:"rows"`
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	competitionID, seasonYear, err := competitionSeasonParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot := h.leagueDataService.GetStandings(ctx, competitionID, seasonYear)
	if snapshot == nil {
		writeError(ctx, w, fmt.Errorf("%w: standings are unavailable", usecase.ErrDependencyUnavailable))
		return
	}

	resp := standingsResponse{
		CompetitionID: snapshot.CompetitionID,
		SeasonYear:    snapshot.SeasonYear,
		FetchedAt:     snapshot.FetchedAt,
		Rows:          make([]standingRowResponse, 0, len(snapshot.Rows)),
	}
	for _, row := range snapshot.Rows {
		resp.Rows = append(resp.Rows, standingRowResponse{
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

type seasonLeadersResponse struct {
	CompetitionID             int64   `json:"competition_id"`
	SeasonYear                int     `json:"season_year"`
	LeagueWinnerTeamID        *int64  `json:"league_winner_team_id"`
	LastPlaceTeamID           *int64  `json:"last_place_team_id"`
	TopScorerPlayerIDs        []int64 `json:"top_scorer_player_ids"`
	BestGoalDifferenceTeamIDs []int64 `json:"best_goal_difference_team_ids"`
}

// GetSeasonLeaders exposes the current answer sets for the four season-long
// questions. Ties surface as multi-element sets.
func (h *Handler) GetSeasonLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonLeaders")
	defer span.End()

	competitionID, seasonYear, err := competitionSeasonParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := seasonLeadersResponse{
		CompetitionID:             competitionID,
		SeasonYear:                seasonYear,
		TopScorerPlayerIDs:        h.leagueDataService.GetTopScorerIDs(ctx, competitionID, seasonYear),
		BestGoalDifferenceTeamIDs: h.leagueDataService.GetBestGoalDifferenceTeamIDs(ctx, competitionID, seasonYear),
	}

	if snapshot := h.leagueDataService.GetStandings(ctx, competitionID, seasonYear); snapshot != nil {
		if leader, ok := snapshot.Leader(); ok {
			resp.LeagueWinnerTeamID = &leader.TeamID
		}
		if last, ok := snapshot.LastPlace(); ok {
			resp.LastPlaceTeamID = &last.TeamID
		}
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

type userRoundPointsResponse struct {
	UserID             int64 `json:"user_id"`
	RoundID            int64 `json:"round_id"`
	TotalPoints        int   `json:"total_points"`
	LeagueWinner       bool  `json:"league_winner"`
	TopScorer          bool  `json:"top_scorer"`
	BestGoalDifference bool  `json:"best_goal_difference"`
	LastPlace          bool  `json:"last_place"`
}

// GetUserRoundPoints returns one user's dynamic-points verdicts for a round.
// A round that has not been scored yet, or a user with no locked answers,
// simply has no row.
func (h *Handler) GetUserRoundPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserRoundPoints")
	defer span.End()

	roundID, err := pathInt64(r, "roundID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	userID, err := pathInt64(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, found, err := h.answerRepo.GetDynamicPoints(ctx, userID, roundID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dynamic points failed", "user_id", userID, "round_id", roundID, "error", err)
		writeInternalError(ctx, w)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no dynamic points for user %d in round %d", usecase.ErrNotFound, userID, roundID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userRoundPointsResponse{
		UserID:             row.UserID,
		RoundID:            row.RoundID,
		TotalPoints:        row.TotalPoints,
		LeagueWinner:       row.LeagueWinner,
		TopScorer:          row.TopScorer,
		BestGoalDifference: row.BestGoalDifference,
		LastPlace:          row.LastPlace,
	})
}

func (h *Handler) validateRequest(payload any) error {
	if err := h.validator.Struct(payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func competitionSeasonParams(r *http.Request) (int64, int, error) {
	competitionID, err := pathInt64(r, "competitionID")
	if err != nil {
		return 0, 0, err
	}
	seasonYear, err := pathInt64(r, "season")
	if err != nil {
		return 0, 0, err
	}
	return competitionID, int(seasonYear), nil
}
