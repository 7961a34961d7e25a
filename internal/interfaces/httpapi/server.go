package httpapi

import (
	"net/http"

	"github.com/matchday/prediction-league/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/rounds/{roundID}", handler.GetRound)
	mux.HandleFunc("GET /v1/rounds/{roundID}/users/{userID}/points", handler.GetUserRoundPoints)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{season}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{season}/leaders", handler.GetSeasonLeaders)
	mux.Handle("POST /v1/internal/jobs/score-round", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScoreRound)))

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
