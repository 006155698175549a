package storage

import (
	"context"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// Storage defines the persistence layer. Every operation is scoped to one
// owner; rows never leak across accounts.
type Storage interface {
	// CreateTransaction persists a new transaction.
	CreateTransaction(ctx context.Context, tx *model.Transaction) error

	// UpdateTransaction replaces an existing transaction's mutable fields.
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error

	// DeleteTransaction removes a transaction by id.
	DeleteTransaction(ctx context.Context, ownerID, id string) error

	// ListTransactions returns all transactions for an owner, newest first.
	ListTransactions(ctx context.Context, ownerID string) ([]model.Transaction, error)

	// CreateCategory persists a new category. Names are unique per owner.
	CreateCategory(ctx context.Context, cat *model.Category) error

	// UpdateCategory replaces an existing category.
	UpdateCategory(ctx context.Context, cat *model.Category) error

	// DeleteCategory removes a category by id.
	DeleteCategory(ctx context.Context, ownerID, id string) error

	// ListCategories returns all categories for an owner, by name.
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)

	// SetBudget creates or updates a category budget.
	SetBudget(ctx context.Context, budget *model.Budget) error

	// SetGlobalBudget replaces the owner's global budget. At most one global
	// budget exists at a time; replacement is delete-then-insert.
	SetGlobalBudget(ctx context.Context, budget *model.Budget) error

	// DeleteBudget removes a budget by id.
	DeleteBudget(ctx context.Context, ownerID, id string) error

	// ListBudgets returns all budgets for an owner, global first.
	ListBudgets(ctx context.Context, ownerID string) ([]model.Budget, error)

	// CreateNotification persists a new notification.
	CreateNotification(ctx context.Context, n *model.Notification) error

	// ListNotifications returns all notifications for an owner, newest first.
	ListNotifications(ctx context.Context, ownerID string) ([]model.Notification, error)

	// MarkNotificationRead sets the read flag on a notification.
	MarkNotificationRead(ctx context.Context, ownerID, id string, read bool) error

	// DeleteNotification removes a notification by id.
	DeleteNotification(ctx context.Context, ownerID, id string) error

	// DeleteAllNotifications removes every notification for an owner.
	DeleteAllNotifications(ctx context.Context, ownerID string) error

	// GetSettings returns the owner's settings, or defaults if none saved.
	GetSettings(ctx context.Context, ownerID string) (*model.Settings, error)

	// PutSettings creates or updates the owner's settings.
	PutSettings(ctx context.Context, s *model.Settings) error

	// Close releases resources.
	Close() error
}
