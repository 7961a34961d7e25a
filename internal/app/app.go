package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matchday/prediction-league/external/footballdata"
	"github.com/matchday/prediction-league/internal/config"
	"github.com/matchday/prediction-league/internal/domain/bet"
	"github.com/matchday/prediction-league/internal/domain/fixture"
	"github.com/matchday/prediction-league/internal/domain/idmap"
	"github.com/matchday/prediction-league/internal/domain/round"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/domain/user"
	"github.com/matchday/prediction-league/internal/infrastructure/repository/memory"
	"github.com/matchday/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/matchday/prediction-league/internal/interfaces/httpapi"
	"github.com/matchday/prediction-league/internal/platform/cache"
	"github.com/matchday/prediction-league/internal/platform/logging"
	"github.com/matchday/prediction-league/internal/platform/resilience"
	"github.com/matchday/prediction-league/internal/usecase"
)

type repositories struct {
	rounds   round.Repository
	fixtures fixture.Repository
	bets     bet.Repository
	answers  seasonanswer.Repository
	users    user.Repository
	idmap    idmap.Repository
}

// NewHTTPServer wires repositories, services, and the router. The returned
// cleanup releases infrastructure owned by the wiring (the DB pool).
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		APIKey:     cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// Disabled cache degrades to immediate expiry rather than a
		// separate no-cache code path.
		cacheTTL = time.Nanosecond
	}
	store := cache.NewStore(cacheTTL)

	leagueDataSvc := usecase.NewLeagueDataService(provider, store, logger)
	dynamicSvc := usecase.NewDynamicPointsService(leagueDataSvc, repos.idmap, logger)
	scoringSvc := usecase.NewRoundScoringService(
		repos.rounds,
		repos.fixtures,
		repos.bets,
		repos.answers,
		repos.users,
		dynamicSvc,
		logger,
	)
	scoringSvc.SetTakeoverInterval(cfg.ScoringTakeoverInterval)
	scoringSvc.SetWorkerCount(cfg.ScoringWorkers)

	handler := httpapi.NewHandler(scoringSvc, leagueDataSvc, repos.rounds, repos.answers, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// buildRepositories picks the storage backend: postgres everywhere except
// dev, which runs on seeded in-memory repositories.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	if cfg.AppEnv == config.EnvDev {
		logger.Info("using in-memory repositories", "env", cfg.AppEnv)
		return buildMemoryRepositories(), func(context.Context) error { return nil }, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := postgres.Connect(ctx, dbURL, dbNameFromURL(cfg.DBURL), formatDBQueryForTrace)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
	}

	repos := repositories{
		rounds:   postgres.NewRoundRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		bets:     postgres.NewBetRepository(db),
		answers:  postgres.NewSeasonAnswerRepository(db),
		users:    postgres.NewUserRepository(db),
		idmap:    postgres.NewIDMapRepository(db),
	}
	cleanup := func(context.Context) error { return db.Close() }
	return repos, cleanup, nil
}

func buildMemoryRepositories() repositories {
	roundRepo := memory.NewRoundRepository(memory.SeedRounds())

	fixtures := memory.SeedFixtures()
	fixtureIDs := make([]int64, 0, len(fixtures))
	for _, f := range fixtures {
		fixtureIDs = append(fixtureIDs, f.ID)
	}
	roundRepo.LinkFixtures(memory.SeedRoundID, fixtureIDs...)

	return repositories{
		rounds:   roundRepo,
		fixtures: memory.NewFixtureRepository(fixtures),
		bets:     memory.NewBetRepository(roundRepo, nil),
		answers:  memory.NewSeasonAnswerRepository(memory.SeedSeasonAnswers()),
		users:    memory.NewUserRepository(memory.SeedUsers()),
		idmap:    memory.NewIDMapRepository(memory.SeedIDMappings()),
	}
}
