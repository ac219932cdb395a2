// Package orgledger parses service configuration and launches the org
// registry runtime: the HTTP API plus the background projector.
package orgledger

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	apihttp "github.com/orgledger/orgledger/internal/org/api/http"
	"github.com/orgledger/orgledger/internal/org/domain/commission"
	"github.com/orgledger/orgledger/internal/org/domain/orgunit"
	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/projector"
	"github.com/orgledger/orgledger/internal/org/repository"
	"github.com/orgledger/orgledger/internal/org/service"
	"github.com/orgledger/orgledger/internal/org/storage/sqlite"
	"github.com/orgledger/orgledger/internal/platform/config"
	"github.com/orgledger/orgledger/internal/platform/timeouts"
)

// Config holds org registry command configuration.
type Config struct {
	Port          int           `env:"ORGLEDGER_PORT" envDefault:"8080"`
	JournalDBPath string        `env:"ORGLEDGER_JOURNAL_DB_PATH" envDefault:"data/journal.db"`
	ReadDBPath    string        `env:"ORGLEDGER_READ_DB_PATH" envDefault:"data/readmodel.db"`
	PollInterval  time.Duration `env:"ORGLEDGER_POLL_INTERVAL" envDefault:"1s"`
	BatchSize     int           `env:"ORGLEDGER_BATCH_SIZE" envDefault:"100"`
	MaxAttempts   int           `env:"ORGLEDGER_MAX_ATTEMPTS" envDefault:"5"`
	RetryBackoff  time.Duration `env:"ORGLEDGER_RETRY_BACKOFF" envDefault:"500ms"`
	DevLogging    bool          `env:"ORGLEDGER_DEV_LOGGING" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API port")
	fs.StringVar(&cfg.JournalDBPath, "journal-db-path", cfg.JournalDBPath, "The event journal SQLite database path")
	fs.StringVar(&cfg.ReadDBPath, "read-db-path", cfg.ReadDBPath, "The read-model SQLite database path")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Projector journal poll interval")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Projector batch size per transaction")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Maximum projection attempts before the projector halts")
	fs.DurationVar(&cfg.RetryBackoff, "retry-backoff", cfg.RetryBackoff, "Base projection retry backoff delay")
	fs.BoolVar(&cfg.DevLogging, "dev-logging", cfg.DevLogging, "Use human-readable development logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the org registry runtime and blocks until the context is
// canceled or a component fails.
func Run(ctx context.Context, cfg Config) error {
	logger, err := newLogger(cfg.DevLogging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	journal, err := sqlite.OpenJournal(cfg.JournalDBPath)
	if err != nil {
		return fmt.Errorf("open journal store: %w", err)
	}
	defer journal.Close()

	read, err := sqlite.OpenReadModel(cfg.ReadDBPath)
	if err != nil {
		return fmt.Errorf("open read-model store: %w", err)
	}
	defer read.Close()

	personRepo := repository.New(journal, journal, logger, person.New)
	unitRepo := repository.New(journal, journal, logger, orgunit.New)
	commissionRepo := repository.New(journal, journal, logger, commission.New)

	persons := service.NewPersonService(personRepo, journal, read, logger)
	units := service.NewOrganizationUnitService(unitRepo, journal, read, logger)
	commissions := service.NewAdminCommissionService(commissionRepo, journal, read, logger)
	events := service.NewEventQueryService(journal, logger)

	api := apihttp.New(persons, units, commissions, events, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	runner := projector.New(journal, read, logger, projector.Config{
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
		MaxAttempts:  cfg.MaxAttempts,
		RetryBackoff: cfg.RetryBackoff,
	})

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http api listening", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info("projector started",
			zap.Duration("poll_interval", cfg.PollInterval),
			zap.Int("batch_size", cfg.BatchSize),
		)
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("projector: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		logger.Error("runtime component failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return runErr
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
