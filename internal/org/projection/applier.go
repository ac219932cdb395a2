// Package projection maintains the denormalized read model by applying event
// journal entries to the read stores. Handlers are idempotent under
// at-least-once delivery: creates of existing entities and mutations of
// missing entities are logged and skipped rather than failed.
package projection

import (
	"time"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/storage"
)

// Applier applies event journal entries to the read-model stores.
type Applier struct {
	// Persons writes person read models.
	Persons storage.PersonStore
	// Units writes organization unit read models.
	Units storage.OrganizationUnitStore
	// Commissions writes admin commission read models.
	Commissions storage.AdminCommissionStore
	// Employments writes employment read models.
	Employments storage.EmploymentStore
	// Logger records skipped events and handler anomalies.
	Logger *zap.Logger
}

// ensureTimestamp normalizes timestamps so projections always persist UTC,
// defaulting to now for event payloads that do not set time.
func ensureTimestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.UTC()
}

func (a Applier) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// skip records an event the read model cannot apply in its current state,
// such as a create for an existing entity or an update for a missing one.
// Skips preserve idempotency under redelivery.
func (a Applier) skip(evt event.Event, reason string) {
	a.logger().Warn("projection event skipped",
		zap.String("event_type", string(evt.Type)),
		zap.String("stream_id", evt.StreamID),
		zap.Uint64("version", evt.Version),
		zap.String("reason", reason),
	)
}
