package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, amount, type, category, subcategory, note, date, is_fixed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, tx.Amount, tx.Type, tx.Category, tx.Subcategory, tx.Note, tx.Date, tx.IsFixed,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, type = ?, category = ?, subcategory = ?, note = ?, date = ?, is_fixed = ?
		 WHERE owner_id = ? AND id = ?`,
		tx.Amount, tx.Type, tx.Category, tx.Subcategory, tx.Note, tx.Date, tx.IsFixed,
		tx.OwnerID, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(result, "transaction", tx.ID)
}

func (s *SQLite) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(result, "transaction", id)
}

func (s *SQLite) ListTransactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, amount, type, category, subcategory, note, date, is_fixed
		 FROM transactions WHERE owner_id = ? ORDER BY date DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Amount, &t.Type, &t.Category,
			&t.Subcategory, &t.Note, &t.Date, &t.IsFixed); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *SQLite) CreateCategory(ctx context.Context, cat *model.Category) error {
	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	subs, err := json.Marshal(cat.Subcategories)
	if err != nil {
		return fmt.Errorf("encode subcategories: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner_id, name, icon, color, subcategories)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.OwnerID, cat.Name, cat.Icon, cat.Color, string(subs),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateCategory(ctx context.Context, cat *model.Category) error {
	subs, err := json.Marshal(cat.Subcategories)
	if err != nil {
		return fmt.Errorf("encode subcategories: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, color = ?, subcategories = ?
		 WHERE owner_id = ? AND id = ?`,
		cat.Name, cat.Icon, cat.Color, string(subs), cat.OwnerID, cat.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(result, "category", cat.ID)
}

func (s *SQLite) DeleteCategory(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(result, "category", id)
}

func (s *SQLite) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, icon, color, subcategories
		 FROM categories WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		var subs string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Icon, &c.Color, &subs); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		if err := json.Unmarshal([]byte(subs), &c.Subcategories); err != nil {
			return nil, fmt.Errorf("decode subcategories for %q: %w", c.Name, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *SQLite) SetBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, owner_id, category_id, amount, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   category_id = excluded.category_id,
		   amount = excluded.amount,
		   period = excluded.period,
		   start_date = excluded.start_date,
		   end_date = excluded.end_date`,
		budget.ID, budget.OwnerID, budget.CategoryID, budget.Amount,
		budget.Period, budget.StartDate, budget.EndDate,
	)
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// SetGlobalBudget replaces the owner's global budget. Delete-then-insert in
// one transaction keeps the at-most-one-global invariant.
func (s *SQLite) SetGlobalBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	budget.CategoryID = ""

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin global budget replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM budgets WHERE owner_id = ? AND category_id = ''`, budget.OwnerID); err != nil {
		return fmt.Errorf("delete old global budget: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO budgets (id, owner_id, category_id, amount, period, start_date, end_date)
		 VALUES (?, ?, '', ?, ?, ?, ?)`,
		budget.ID, budget.OwnerID, budget.Amount, budget.Period, budget.StartDate, budget.EndDate); err != nil {
		return fmt.Errorf("insert global budget: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) DeleteBudget(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(result, "budget", id)
}

func (s *SQLite) ListBudgets(ctx context.Context, ownerID string) ([]model.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, category_id, amount, period, start_date, end_date
		 FROM budgets WHERE owner_id = ? ORDER BY category_id, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.CategoryID, &b.Amount,
			&b.Period, &b.StartDate, &b.EndDate); err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *SQLite) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, owner_id, title, message, type, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *SQLite) ListNotifications(ctx context.Context, ownerID string) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, message, type, read, created_at
		 FROM notifications WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *SQLite) MarkNotificationRead(ctx context.Context, ownerID, id string, read bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = ? WHERE owner_id = ? AND id = ?`, read, ownerID, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireRow(result, "notification", id)
}

func (s *SQLite) DeleteNotification(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return requireRow(result, "notification", id)
}

func (s *SQLite) DeleteAllNotifications(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("delete all notifications: %w", err)
	}
	return nil
}

func (s *SQLite) GetSettings(ctx context.Context, ownerID string) (*model.Settings, error) {
	var st model.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, notifications_enabled, fixed_expenses_enabled, detailed_stats_enabled, smart_bar_enabled
		 FROM settings WHERE owner_id = ?`, ownerID,
	).Scan(&st.OwnerID, &st.NotificationsEnabled, &st.FixedExpensesEnabled,
		&st.DetailedStatsEnabled, &st.SmartBarEnabled)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &st, nil
}

func (s *SQLite) PutSettings(ctx context.Context, st *model.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (owner_id, notifications_enabled, fixed_expenses_enabled, detailed_stats_enabled, smart_bar_enabled)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
		   notifications_enabled = excluded.notifications_enabled,
		   fixed_expenses_enabled = excluded.fixed_expenses_enabled,
		   detailed_stats_enabled = excluded.detailed_stats_enabled,
		   smart_bar_enabled = excluded.smart_bar_enabled`,
		st.OwnerID, st.NotificationsEnabled, st.FixedExpensesEnabled,
		st.DetailedStatsEnabled, st.SmartBarEnabled,
	)
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// requireRow converts a zero-rows-affected result into a not-found error.
func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %q not found", kind, id)
	}
	return nil
}
