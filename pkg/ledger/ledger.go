// Package ledger tracks which budget alerts have already fired so the
// engine never spams a user with duplicates. Entries map an alert key to
// the time it was last emitted; informational keys are one-shot, while
// warning and error keys may fire again once a cooldown window elapses.
package ledger

import (
	"log/slog"
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// DefaultCooldown is the minimum gap between repeated warning/error alerts
// for the same key.
const DefaultCooldown = 12 * time.Hour

// Store persists per-owner key maps. Implementations are best-effort: a
// failing Set degrades dedup to in-memory for the session, it never blocks
// alerting.
type Store interface {
	// Get returns the persisted entries for a namespace. A missing
	// namespace yields an empty map, not an error.
	Get(namespace string) (map[string]time.Time, error)

	// Set replaces the persisted entries for a namespace.
	Set(namespace string, entries map[string]time.Time) error
}

// Ledger is the dedup state for a single owner. Not safe for concurrent
// use; the evaluation loop is single-threaded.
type Ledger struct {
	store     Store
	namespace string
	cooldown  time.Duration
	entries   map[string]time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// New loads the ledger for an owner. A failing load starts from an empty
// map, which at worst re-notifies once.
func New(store Store, ownerID string, cooldown time.Duration, logger *slog.Logger) *Ledger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	entries, err := store.Get(ownerID)
	if err != nil {
		logger.Warn("ledger load failed, starting empty", "owner", ownerID, "error", err)
		entries = map[string]time.Time{}
	}
	if entries == nil {
		entries = map[string]time.Time{}
	}

	return &Ledger{
		store:     store,
		namespace: ownerID,
		cooldown:  cooldown,
		entries:   entries,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// ShouldEmit reports whether an alert with this key and severity may be
// written. Warning and error keys become eligible again once the cooldown
// has elapsed; info and success keys fire at most once while the key stays
// constant (the key changes with the period instance).
func (l *Ledger) ShouldEmit(key string, severity model.NotificationType) bool {
	last, seen := l.entries[key]
	if !seen {
		return true
	}
	if severity == model.NotifWarning || severity == model.NotifError {
		return l.now().Sub(last) >= l.cooldown
	}
	return false
}

// Record marks the key as emitted now and persists immediately.
// Persistence failures are logged and swallowed.
func (l *Ledger) Record(key string) {
	l.entries[key] = l.now()
	if err := l.store.Set(l.namespace, l.entries); err != nil {
		l.logger.Warn("ledger persist failed", "owner", l.namespace, "error", err)
	}
}

// Seen reports whether the key has ever been recorded.
func (l *Ledger) Seen(key string) bool {
	_, ok := l.entries[key]
	return ok
}
