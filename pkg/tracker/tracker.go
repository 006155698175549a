// Package tracker is the application service: it owns the write paths for
// transactions, categories, budgets, notifications and settings, and runs
// a budget evaluation pass after every mutation that can change spend or
// limits.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/storage"
)

// Tracker wires storage and the notification engine.
type Tracker struct {
	storage   storage.Storage
	evaluator *budget.Evaluator
	logger    *slog.Logger
}

// New creates a tracker. evaluator may be nil, in which case mutations do
// not trigger budget checks.
func New(store storage.Storage, evaluator *budget.Evaluator, logger *slog.Logger) *Tracker {
	return &Tracker{
		storage:   store,
		evaluator: evaluator,
		logger:    logger,
	}
}

// AddTransaction validates and stores a transaction, then re-evaluates
// budgets for the owner.
func (t *Tracker) AddTransaction(ctx context.Context, tx *model.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	if err := t.storage.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}

	t.logger.Info("transaction recorded",
		"owner", tx.OwnerID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount,
	)

	t.evaluate(ctx, tx.OwnerID)
	return nil
}

// UpdateTransaction replaces a transaction and re-evaluates budgets.
func (t *Tracker) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	if err := t.storage.UpdateTransaction(ctx, tx); err != nil {
		return err
	}
	t.evaluate(ctx, tx.OwnerID)
	return nil
}

// DeleteTransaction removes a transaction and re-evaluates budgets.
func (t *Tracker) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := t.storage.DeleteTransaction(ctx, ownerID, id); err != nil {
		return err
	}
	t.evaluate(ctx, ownerID)
	return nil
}

// Transactions returns the owner's transactions, newest first.
func (t *Tracker) Transactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	return t.storage.ListTransactions(ctx, ownerID)
}

// SetBudget validates and stores a category budget, then re-evaluates.
func (t *Tracker) SetBudget(ctx context.Context, b *model.Budget) error {
	if err := validateBudget(b); err != nil {
		return err
	}
	if b.CategoryID == "" {
		return fmt.Errorf("category budget requires a category id; use SetGlobalBudget for the global one")
	}
	if err := t.storage.SetBudget(ctx, b); err != nil {
		return err
	}
	t.evaluate(ctx, b.OwnerID)
	return nil
}

// SetGlobalBudget replaces the owner's global budget, then re-evaluates.
func (t *Tracker) SetGlobalBudget(ctx context.Context, b *model.Budget) error {
	if err := validateBudget(b); err != nil {
		return err
	}
	if err := t.storage.SetGlobalBudget(ctx, b); err != nil {
		return err
	}
	t.evaluate(ctx, b.OwnerID)
	return nil
}

// DeleteBudget removes a budget.
func (t *Tracker) DeleteBudget(ctx context.Context, ownerID, id string) error {
	return t.storage.DeleteBudget(ctx, ownerID, id)
}

// Budgets returns the owner's global budget (nil when unset) and category
// budgets.
func (t *Tracker) Budgets(ctx context.Context, ownerID string) (*model.Budget, []model.Budget, error) {
	all, err := t.storage.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	var global *model.Budget
	var cats []model.Budget
	for i := range all {
		if all[i].IsGlobal() {
			global = &all[i]
		} else {
			cats = append(cats, all[i])
		}
	}
	return global, cats, nil
}

// AddCategory stores a new category.
func (t *Tracker) AddCategory(ctx context.Context, cat *model.Category) error {
	if cat.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return t.storage.CreateCategory(ctx, cat)
}

// UpdateCategory replaces a category. Renaming orphans historical spend
// aggregation for the old name; callers surface that to the user.
func (t *Tracker) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if cat.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if err := t.storage.UpdateCategory(ctx, cat); err != nil {
		return err
	}
	t.evaluate(ctx, cat.OwnerID)
	return nil
}

// DeleteCategory removes a category. Budgets referencing it become inert
// and are silently skipped by the evaluator.
func (t *Tracker) DeleteCategory(ctx context.Context, ownerID, id string) error {
	return t.storage.DeleteCategory(ctx, ownerID, id)
}

// Categories returns the owner's categories, by name.
func (t *Tracker) Categories(ctx context.Context, ownerID string) ([]model.Category, error) {
	return t.storage.ListCategories(ctx, ownerID)
}

// Notifications returns the owner's notifications, newest first.
func (t *Tracker) Notifications(ctx context.Context, ownerID string) ([]model.Notification, error) {
	return t.storage.ListNotifications(ctx, ownerID)
}

// MarkNotificationRead toggles a notification's read flag.
func (t *Tracker) MarkNotificationRead(ctx context.Context, ownerID, id string, read bool) error {
	return t.storage.MarkNotificationRead(ctx, ownerID, id, read)
}

// DeleteNotification removes one notification.
func (t *Tracker) DeleteNotification(ctx context.Context, ownerID, id string) error {
	return t.storage.DeleteNotification(ctx, ownerID, id)
}

// ResetNotifications removes every notification for the owner.
func (t *Tracker) ResetNotifications(ctx context.Context, ownerID string) error {
	return t.storage.DeleteAllNotifications(ctx, ownerID)
}

// Settings returns the owner's settings.
func (t *Tracker) Settings(ctx context.Context, ownerID string) (*model.Settings, error) {
	return t.storage.GetSettings(ctx, ownerID)
}

// PutSettings saves settings and re-evaluates; turning notifications back
// on should surface current threshold state promptly.
func (t *Tracker) PutSettings(ctx context.Context, s *model.Settings) error {
	if err := t.storage.PutSettings(ctx, s); err != nil {
		return err
	}
	t.evaluate(ctx, s.OwnerID)
	return nil
}

// Evaluate runs one explicit budget evaluation pass.
func (t *Tracker) Evaluate(ctx context.Context, ownerID string) (int, error) {
	if t.evaluator == nil {
		return 0, nil
	}
	return t.evaluator.Evaluate(ctx, ownerID)
}

// evaluate is the best-effort pass after mutations. Alerting is never
// fatal to the write that triggered it.
func (t *Tracker) evaluate(ctx context.Context, ownerID string) {
	if t.evaluator == nil {
		return
	}
	if _, err := t.evaluator.Evaluate(ctx, ownerID); err != nil {
		t.logger.Error("budget evaluation failed", "owner", ownerID, "error", err)
	}
}

func validateTransaction(tx *model.Transaction) error {
	if tx.OwnerID == "" {
		return fmt.Errorf("transaction owner is required")
	}
	if tx.Amount < 0 {
		return fmt.Errorf("transaction amount must be non-negative, got %v", tx.Amount)
	}
	if tx.Type != model.TypeIncome && tx.Type != model.TypeExpense {
		return fmt.Errorf("invalid transaction type %q", tx.Type)
	}
	if _, err := model.ParseDate(tx.Date); err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", tx.Date, err)
	}
	return nil
}

func validateBudget(b *model.Budget) error {
	if b.OwnerID == "" {
		return fmt.Errorf("budget owner is required")
	}
	if b.Amount <= 0 {
		return fmt.Errorf("budget amount must be positive, got %v", b.Amount)
	}
	switch b.Period {
	case model.PeriodMonthly, model.PeriodWeekly:
	case model.PeriodCustom:
		if b.StartDate == "" || b.EndDate == "" {
			return fmt.Errorf("custom period budgets require start and end dates")
		}
	default:
		return fmt.Errorf("invalid budget period %q", b.Period)
	}
	return nil
}
