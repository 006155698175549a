package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/ledger"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// Source is everything the evaluator reads and writes. The SQLite store
// satisfies it; tests may substitute any of the pieces.
type Source interface {
	ListTransactions(ctx context.Context, ownerID string) ([]model.Transaction, error)
	ListBudgets(ctx context.Context, ownerID string) ([]model.Budget, error)
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	ListNotifications(ctx context.Context, ownerID string) ([]model.Notification, error)
	GetSettings(ctx context.Context, ownerID string) (*model.Settings, error)
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// Evaluator re-evaluates every budget for an owner and emits threshold
// alerts. Safe to run after every data change: the ledger and the
// store reconciliation make repeated passes idempotent, so callers need no
// debouncing of their own.
type Evaluator struct {
	store       Source
	ledgerStore ledger.Store
	cooldown    time.Duration
	logger      *slog.Logger
	now         func() time.Time

	// One ledger per owner, kept for the session so that a failed persist
	// still dedups in memory until restart.
	ledgers map[string]*ledger.Ledger
}

// NewEvaluator wires the engine. cooldown <= 0 selects the default.
func NewEvaluator(store Source, ledgerStore ledger.Store, cooldown time.Duration, logger *slog.Logger) *Evaluator {
	if cooldown <= 0 {
		cooldown = ledger.DefaultCooldown
	}
	return &Evaluator{
		store:       store,
		ledgerStore: ledgerStore,
		cooldown:    cooldown,
		logger:      logger,
		now:         time.Now,
		ledgers:     make(map[string]*ledger.Ledger),
	}
}

// SetClock overrides the time source for the evaluator and every ledger it
// manages. Tests only.
func (ev *Evaluator) SetClock(now func() time.Time) {
	ev.now = now
	for _, led := range ev.ledgers {
		led.SetClock(now)
	}
}

func (ev *Evaluator) ledgerFor(ownerID string) *ledger.Ledger {
	led, ok := ev.ledgers[ownerID]
	if !ok {
		led = ledger.New(ev.ledgerStore, ownerID, ev.cooldown, ev.logger)
		led.SetClock(ev.now)
		ev.ledgers[ownerID] = led
	}
	return led
}

// Evaluate runs one full pass for an owner: global budget first, then each
// category budget. Returns the number of notifications written. Read
// failures abort the pass with an error; emission failures are logged
// per-alert and never abort it.
func (ev *Evaluator) Evaluate(ctx context.Context, ownerID string) (int, error) {
	settings, err := ev.store.GetSettings(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return 0, nil
	}

	budgets, err := ev.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return 0, nil
	}

	txs, err := ev.store.ListTransactions(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := ev.store.ListCategories(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	notifs, err := ev.store.ListNotifications(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}

	em := NewEmitter(ev.ledgerFor(ownerID), ev.store, ev.cooldown, ev.logger)
	em.now = ev.now
	now := ev.now()

	emitted := 0
	for _, b := range budgets {
		if b.Amount <= 0 {
			continue
		}
		if b.IsGlobal() {
			emitted += ev.evaluateGlobal(ctx, ownerID, b, txs, notifs, em, now)
		} else {
			emitted += ev.evaluateCategory(ctx, ownerID, b, txs, cats, notifs, em, now)
		}
	}

	ev.logger.Debug("evaluation pass complete", "owner", ownerID, "budgets", len(budgets), "emitted", emitted)
	return emitted, nil
}

func (ev *Evaluator) evaluateGlobal(ctx context.Context, ownerID string, b model.Budget,
	txs []model.Transaction, notifs []model.Notification, em *Emitter, now time.Time) int {

	emitted := 0
	interval := model.ResolvePeriod(b.Period, b.StartDate, b.EndDate, now)

	if Expired(b.Period, b.EndDate, now) {
		if em.Emit(ctx, ownerID, globalExpiredAlert(b.EndDate), notifs) {
			emitted++
		}
	}

	spent := SumExpenses(txs, "", interval)
	if stage := Classify(spent, b.Amount); stage != StageNone {
		if em.Emit(ctx, ownerID, globalStageAlert(stage, interval, spent, b.Amount), notifs) {
			emitted++
		}
	}
	return emitted
}

func (ev *Evaluator) evaluateCategory(ctx context.Context, ownerID string, b model.Budget,
	txs []model.Transaction, cats []model.Category, notifs []model.Notification, em *Emitter, now time.Time) int {

	cat := findCategory(cats, b.CategoryID)
	if cat == nil {
		// Budget outlived its category; nothing to alert on.
		return 0
	}

	emitted := 0
	interval := model.ResolvePeriod(b.Period, b.StartDate, b.EndDate, now)

	if Expired(b.Period, b.EndDate, now) {
		if em.Emit(ctx, ownerID, categoryExpiredAlert(b, cat.Name), notifs) {
			emitted++
		}
	}

	spent := SumExpenses(txs, cat.Name, interval)
	if stage := Classify(spent, b.Amount); stage != StageNone {
		if em.Emit(ctx, ownerID, categoryStageAlert(b, cat.Name, stage, interval, spent), notifs) {
			emitted++
		}
	}
	return emitted
}

func findCategory(cats []model.Category, id string) *model.Category {
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i]
		}
	}
	return nil
}
