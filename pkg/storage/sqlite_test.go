package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/storage"
)

func newStore(t *testing.T) *storage.SQLite {
	t.Helper()
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTransactionRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	tx := &model.Transaction{
		OwnerID:     "sam",
		Amount:      42.50,
		Type:        model.TypeExpense,
		Category:    "Food",
		Subcategory: "Groceries",
		Note:        "weekly shop",
		Date:        "2025-06-15T10:00:00Z",
	}
	require.NoError(t, store.CreateTransaction(ctx, tx))
	assert.NotEmpty(t, tx.ID, "id should be assigned on create")

	txs, err := store.ListTransactions(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 42.50, txs[0].Amount)
	assert.Equal(t, "Groceries", txs[0].Subcategory)

	tx.Amount = 55
	tx.Note = "forgot the wine"
	require.NoError(t, store.UpdateTransaction(ctx, tx))

	txs, err = store.ListTransactions(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 55.0, txs[0].Amount)
	assert.Equal(t, "forgot the wine", txs[0].Note)

	require.NoError(t, store.DeleteTransaction(ctx, "sam", tx.ID))
	txs, err = store.ListTransactions(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.DeleteTransaction(ctx, "sam", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = store.UpdateTransaction(ctx, &model.Transaction{OwnerID: "sam", ID: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCategorySubcategories(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	cat := &model.Category{
		OwnerID:       "sam",
		Name:          "Emergencies",
		Icon:          "AlertTriangle",
		Color:         "#FF7675",
		Subcategories: []string{"Illness", "Repairs"},
	}
	require.NoError(t, store.CreateCategory(ctx, cat))

	cats, err := store.ListCategories(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, []string{"Illness", "Repairs"}, cats[0].Subcategories)

	cat.Subcategories = append(cat.Subcategories, "Fines")
	require.NoError(t, store.UpdateCategory(ctx, cat))

	cats, err = store.ListCategories(ctx, "sam")
	require.NoError(t, err)
	assert.Len(t, cats[0].Subcategories, 3)
}

func TestCategoryNameUniquePerOwner(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{OwnerID: "sam", Name: "Food"}))
	err := store.CreateCategory(ctx, &model.Category{OwnerID: "sam", Name: "Food"})
	assert.Error(t, err, "duplicate name for the same owner must fail")

	// Same name for a different owner is fine.
	require.NoError(t, store.CreateCategory(ctx, &model.Category{OwnerID: "alex", Name: "Food"}))
}

func TestGlobalBudgetReplacement(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetGlobalBudget(ctx, &model.Budget{
		OwnerID: "sam", Amount: 1000, Period: model.PeriodMonthly,
	}))
	require.NoError(t, store.SetGlobalBudget(ctx, &model.Budget{
		OwnerID: "sam", Amount: 1500, Period: model.PeriodWeekly,
	}))

	budgets, err := store.ListBudgets(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, budgets, 1, "setting a global budget replaces any prior one")
	assert.Equal(t, 1500.0, budgets[0].Amount)
	assert.Equal(t, model.PeriodWeekly, budgets[0].Period)
	assert.True(t, budgets[0].IsGlobal())
}

func TestCategoryBudgetsCoexist(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetGlobalBudget(ctx, &model.Budget{
		OwnerID: "sam", Amount: 1000, Period: model.PeriodMonthly,
	}))
	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		OwnerID: "sam", CategoryID: "cat-1", Amount: 200, Period: model.PeriodMonthly,
	}))
	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		OwnerID: "sam", CategoryID: "cat-2", Amount: 300, Period: model.PeriodWeekly,
	}))

	budgets, err := store.ListBudgets(ctx, "sam")
	require.NoError(t, err)
	assert.Len(t, budgets, 3)
}

func TestSetBudgetUpsertsByID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	b := &model.Budget{OwnerID: "sam", CategoryID: "cat-1", Amount: 200, Period: model.PeriodMonthly}
	require.NoError(t, store.SetBudget(ctx, b))

	b.Amount = 250
	require.NoError(t, store.SetBudget(ctx, b))

	budgets, err := store.ListBudgets(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 250.0, budgets[0].Amount)
}

func TestNotificationLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	n := &model.Notification{
		OwnerID: "sam",
		Title:   "Global budget warning",
		Message: "You have used 82% of your global budget.",
		Type:    model.NotifWarning,
	}
	require.NoError(t, store.CreateNotification(ctx, n))
	assert.False(t, n.CreatedAt.IsZero(), "created_at should be stamped")

	notifs, err := store.ListNotifications(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.False(t, notifs[0].Read)
	assert.WithinDuration(t, time.Now().UTC(), notifs[0].CreatedAt, time.Minute)

	require.NoError(t, store.MarkNotificationRead(ctx, "sam", n.ID, true))
	notifs, err = store.ListNotifications(ctx, "sam")
	require.NoError(t, err)
	assert.True(t, notifs[0].Read)

	require.NoError(t, store.MarkNotificationRead(ctx, "sam", n.ID, false))
	notifs, err = store.ListNotifications(ctx, "sam")
	require.NoError(t, err)
	assert.False(t, notifs[0].Read)

	require.NoError(t, store.DeleteAllNotifications(ctx, "sam"))
	notifs, err = store.ListNotifications(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, notifs)
}

func TestSettingsDefaults(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// No row yet: defaults with everything enabled.
	st, err := store.GetSettings(ctx, "sam")
	require.NoError(t, err)
	assert.True(t, st.NotificationsEnabled)
	assert.True(t, st.FixedExpensesEnabled)

	st.NotificationsEnabled = false
	require.NoError(t, store.PutSettings(ctx, st))

	st, err = store.GetSettings(ctx, "sam")
	require.NoError(t, err)
	assert.False(t, st.NotificationsEnabled)
	assert.True(t, st.DetailedStatsEnabled)

	// Upsert on the same owner.
	st.SmartBarEnabled = false
	require.NoError(t, store.PutSettings(ctx, st))
	st, err = store.GetSettings(ctx, "sam")
	require.NoError(t, err)
	assert.False(t, st.SmartBarEnabled)
}

func TestOwnerIsolation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateTransaction(ctx, &model.Transaction{
		OwnerID: "sam", Amount: 10, Type: model.TypeExpense, Date: "2025-06-15",
	}))
	require.NoError(t, store.SetGlobalBudget(ctx, &model.Budget{
		OwnerID: "sam", Amount: 100, Period: model.PeriodMonthly,
	}))

	txs, err := store.ListTransactions(ctx, "alex")
	require.NoError(t, err)
	assert.Empty(t, txs)

	budgets, err := store.ListBudgets(ctx, "alex")
	require.NoError(t, err)
	assert.Empty(t, budgets)

	// Each owner keeps an independent global budget.
	require.NoError(t, store.SetGlobalBudget(ctx, &model.Budget{
		OwnerID: "alex", Amount: 999, Period: model.PeriodMonthly,
	}))
	budgets, err = store.ListBudgets(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 100.0, budgets[0].Amount)
}
