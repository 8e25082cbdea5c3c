// Package app wires configuration, storage, services and transports into
// runnable units shared by the binaries.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/atgilet/ffcv-ingest/external/ffcv"
	"github.com/atgilet/ffcv-ingest/internal/config"
	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	"github.com/atgilet/ffcv-ingest/internal/infrastructure/repository/postgres"
	"github.com/atgilet/ffcv-ingest/internal/interfaces/httpapi"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
	"github.com/atgilet/ffcv-ingest/internal/scheduler"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

// App owns the long-lived dependencies of one process.
type App struct {
	DB            *sqlx.DB
	IngestService *usecase.IngestService
	StatusService *usecase.StatusService
	ConfigRepo    targetconfig.Repository
	Logger        *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(cfg.DBURL)
	if err != nil {
		return nil, err
	}

	configRepo := postgres.NewTargetConfigRepository(db)
	runRepo := postgres.NewRunRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	store := postgres.NewIngestStore(db)

	sourceFactory := newSourceFactory(cfg, logger)

	ingestService := usecase.NewIngestService(configRepo, runRepo, store, sourceFactory, logger)
	statusService := usecase.NewStatusService(runRepo, matchRepo, teamRepo, logger)

	return &App{
		DB:            db,
		IngestService: ingestService,
		StatusService: statusService,
		ConfigRepo:    configRepo,
		Logger:        logger,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *App) NewHTTPServer(cfg config.Config) (*http.Server, error) {
	handler := httpapi.NewHandler(a.IngestService, a.StatusService, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (a *App) NewPoller() *scheduler.Poller {
	return scheduler.NewPoller(a.IngestService, a.ConfigRepo, a.Logger)
}

func OpenDB(dbURL string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// newSourceFactory builds a results source from the stored configuration row.
// The base URL and URL template live in the database; process config only
// contributes transport settings.
func newSourceFactory(cfg config.Config, logger *logging.Logger) usecase.SourceFactory {
	client := ffcv.NewClient(ffcv.ClientConfig{
		UserAgent: cfg.FFCVUserAgent,
		Timeout:   cfg.FFCVTimeout,
		Logger:    logger,
	})

	return func(target targetconfig.Config) usecase.ResultsSource {
		return ffcv.NewSource(client, ffcv.SourceConfig{
			BaseURL:             target.BaseURL,
			TeamMatchesTemplate: target.TeamMatchesTemplate,
			Logger:              logger,
		})
	}
}
