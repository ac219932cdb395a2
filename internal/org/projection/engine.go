package projection

import (
	"context"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// Engine applies batches of journal entries to the read model. Each batch
// runs in one read-store transaction together with the watermark update, so
// a failed batch leaves the read model and watermark untouched.
type Engine struct {
	router *Router
	read   storage.ReadStore
	logger *zap.Logger
}

// NewEngine builds an engine over the read store with the default handler
// registry.
func NewEngine(read storage.ReadStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		router: NewDefaultRouter(),
		read:   read,
		logger: logger,
	}
}

// ApplyEntries applies journal entries in order and advances the watermark to
// the last entry's global sequence. Entries outside the read-model vocabulary
// are skipped. Any handler error aborts and rolls back the whole batch.
func (e *Engine) ApplyEntries(ctx context.Context, entries []storage.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return e.read.WithinTx(ctx, func(tx storage.ReadStore) error {
		applier := Applier{
			Persons:     tx,
			Units:       tx,
			Commissions: tx,
			Employments: tx,
			Logger:      e.logger,
		}
		for _, entry := range entries {
			if !e.router.Handles(entry.Event.Type) {
				e.logger.Debug("journal entry outside read-model vocabulary",
					zap.String("event_type", string(entry.Event.Type)),
					zap.Uint64("global_seq", entry.GlobalSeq),
				)
				continue
			}
			if err := e.router.Route(applier, ctx, entry.Event); err != nil {
				return apperrors.Wrap(apperrors.CodeProjectionFailure, "apply journal entry", err)
			}
		}
		return tx.SaveProjectorWatermark(ctx, entries[len(entries)-1].GlobalSeq)
	})
}
