// Package projector runs the background loop that feeds journal entries to
// the projection engine, advancing the read-model watermark as batches land.
package projector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/projection"
	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// Config tunes the projector loop.
type Config struct {
	// PollInterval is how often the journal is checked for new entries.
	PollInterval time.Duration
	// BatchSize caps how many entries one transaction applies.
	BatchSize int
	// MaxAttempts bounds retries for a failing batch before the projector
	// halts. Halting keeps the watermark behind the bad entry so the journal
	// can be inspected and the projector restarted after a fix.
	MaxAttempts int
	// RetryBackoff is the base delay between attempts, scaled linearly by the
	// attempt number.
	RetryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	return c
}

// Runner polls the journal for entries past the watermark and applies them
// through the projection engine.
type Runner struct {
	journal storage.EventStore
	read    storage.ReadStore
	engine  *projection.Engine
	cfg     Config
	logger  *zap.Logger
}

// New builds a projector runner over the journal and read stores.
func New(journal storage.EventStore, read storage.ReadStore, logger *zap.Logger, cfg Config) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		journal: journal,
		read:    read,
		engine:  projection.NewEngine(read, logger),
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// Run drives the poll loop until the context is canceled or a batch exhausts
// its retry budget. An exhausted batch halts the loop with an error so the
// operator can intervene; the watermark stays behind the failing entry.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.drain(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain applies journal batches until the projector catches up with the
// journal head.
func (r *Runner) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		watermark, err := r.read.GetProjectorWatermark(ctx)
		if err != nil {
			return fmt.Errorf("read projector watermark: %w", err)
		}
		entries, err := r.journal.ListEntriesAfter(ctx, watermark, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("list journal entries: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := r.applyWithRetry(ctx, entries); err != nil {
			return err
		}
		r.logger.Debug("projection batch applied",
			zap.Uint64("from_seq", watermark),
			zap.Uint64("to_seq", entries[len(entries)-1].GlobalSeq),
			zap.Int("entries", len(entries)),
		)
	}
}

func (r *Runner) applyWithRetry(ctx context.Context, entries []storage.JournalEntry) error {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		lastErr = r.engine.ApplyEntries(ctx, entries)
		if lastErr == nil {
			return nil
		}
		r.logger.Warn("projection batch failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.cfg.MaxAttempts),
			zap.Uint64("first_seq", entries[0].GlobalSeq),
			zap.Error(lastErr),
		)
		if attempt == r.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.RetryBackoff * time.Duration(attempt)):
		}
	}
	return apperrors.Wrap(apperrors.CodeProjectionFailure, "projection batch exhausted retries", lastErr)
}
