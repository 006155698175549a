package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/ledger"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// NotificationWriter is the slice of the store the emitter needs.
type NotificationWriter interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// Emitter writes at most one notification per call. It consults the dedup
// ledger first, then reconciles against notifications already in the store
// so that a second device (or a wiped local ledger) does not duplicate what
// the server already has.
type Emitter struct {
	ledger   *ledger.Ledger
	store    NotificationWriter
	cooldown time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewEmitter creates an emitter for one owner's ledger.
func NewEmitter(led *ledger.Ledger, store NotificationWriter, cooldown time.Duration, logger *slog.Logger) *Emitter {
	if cooldown <= 0 {
		cooldown = ledger.DefaultCooldown
	}
	return &Emitter{
		ledger:   led,
		store:    store,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

// Emit attempts to write the alert as a notification. existing is the
// owner's current notification list, used for cross-device reconciliation.
// Returns true iff a notification was written.
func (e *Emitter) Emit(ctx context.Context, ownerID string, a Alert, existing []model.Notification) bool {
	if !e.ledger.ShouldEmit(a.Key, a.Severity) {
		return false
	}

	if e.alreadyInStore(a, existing) {
		// The server already has it; bring the local ledger in line
		// instead of writing a duplicate.
		e.ledger.Record(a.Key)
		return false
	}

	n := &model.Notification{
		OwnerID: ownerID,
		Title:   a.Title,
		Message: a.Message,
		Type:    a.Severity,
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		// Leave the ledger untouched so the next pass retries.
		e.logger.Error("create notification failed", "owner", ownerID, "key", a.Key, "error", err)
		return false
	}

	e.ledger.Record(a.Key)
	e.logger.Info("notification emitted", "owner", ownerID, "key", a.Key, "type", a.Severity)
	return true
}

// alreadyInStore reports whether an equivalent notification exists in the
// store within the applicable window: the cooldown window for warning and
// error alerts, the period interval for informational ones.
func (e *Emitter) alreadyInStore(a Alert, existing []model.Notification) bool {
	now := e.now()
	for _, n := range existing {
		if n.Type != a.Severity || n.Title != a.Title {
			continue
		}
		if a.Severity == model.NotifWarning || a.Severity == model.NotifError {
			if now.Sub(n.CreatedAt) < e.cooldown {
				return true
			}
			continue
		}
		if a.Period != nil && n.Message == a.Message && a.Period.Contains(n.CreatedAt) {
			return true
		}
	}
	return false
}
