package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/matchdayhq/matchday/internal/config"
	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/infrastructure/gamefeed"
	cacherepo "github.com/matchdayhq/matchday/internal/infrastructure/repository/cache"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/postgres"
	"github.com/matchdayhq/matchday/internal/interfaces/httpapi"
	basecache "github.com/matchdayhq/matchday/internal/platform/cache"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/resilience"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type repositories struct {
	teams   team.Repository
	games   game.Repository
	events  game.EventRepository
	rosters roster.Repository
	players roster.PlayerRepository
}

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup stops the feed broker and closes the database; call it
// after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
	}

	broker, err := gamefeed.NewBroker(cfg.FeedWorkers, cfg.FeedBuffer, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create feed broker: %w", err)
	}

	gen := idgen.NewRandomGenerator()
	clock := matchClock(cfg.HalfDuration, nil)
	rosterSvc := usecase.NewRosterService(repos.rosters, repos.players, repos.games, repos.events, gen, logger)
	engine := usecase.NewLineupService(rosterSvc, logger)
	goalSvc := usecase.NewGoalService(repos.games, repos.events, repos.rosters, usecase.NewOptimisticTimeline(), gen, logger)
	gameSvc := usecase.NewGameService(repos.games, repos.events, gen, clock, logger)
	formationSvc := usecase.NewFormationService(formation.DefaultCatalog(), repos.games, repos.events, gen, logger)
	sessions := usecase.NewSessionRegistry(
		repos.games,
		repos.rosters,
		repos.players,
		engine,
		formationSvc,
		gen,
		clock,
		logger,
	)

	rosterSvc.SetPublisher(broker)
	goalSvc.SetPublisher(broker)
	gameSvc.SetPublisher(broker)
	formationSvc.SetPublisher(broker)
	broker.RegisterHandler(sessions.HandleFeed)

	if cfg.WebhookURL != "" {
		forwarder := gamefeed.NewWebhookForwarder(gamefeed.WebhookConfig{
			URL:     cfg.WebhookURL,
			Secret:  cfg.WebhookSecret,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
			},
		}, logger)
		broker.RegisterHandler(forwarder.Handle)
		logger.Info("webhook forwarder enabled", "url", cfg.WebhookURL)
	}

	handler := httpapi.NewHandler(
		sessions,
		rosterSvc,
		goalSvc,
		gameSvc,
		formationSvc,
		repos.teams,
		repos.games,
		repos.events,
		repos.players,
		broker,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		broker.Close()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}

func newRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			teams:   memory.NewTeamRepository(memory.SeedTeams()),
			games:   memory.NewGameRepository(memory.SeedGames()),
			events:  memory.NewEventRepository(),
			rosters: memory.NewRosterRepository(memory.SeedRosterEntries()),
			players: memory.NewPlayerRepository(memory.SeedPlayers()),
		}, nil, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("using postgres repositories", "database", dbNameFromURL(dbURL))
	return repositories{
		teams:   postgres.NewTeamRepository(db),
		games:   postgres.NewGameRepository(db),
		events:  postgres.NewEventRepository(db),
		rosters: postgres.NewRosterRepository(db),
		players: postgres.NewPlayerRepository(db),
	}, db, nil
}
