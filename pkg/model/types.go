package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense entry.
// Amount is always non-negative; the sign is conveyed by Type.
// Date is stored as the ISO-8601 string the client supplied; consumers
// parse it and skip records whose date does not parse.
type Transaction struct {
	ID          string          `json:"id" db:"id"`
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	Amount      float64         `json:"amount" db:"amount"`
	Type        TransactionType `json:"type" db:"type"`
	Category    string          `json:"category" db:"category"`
	Subcategory string          `json:"subcategory,omitempty" db:"subcategory"`
	Note        string          `json:"note,omitempty" db:"note"`
	Date        string          `json:"date" db:"date"`
	IsFixed     bool            `json:"is_fixed" db:"is_fixed"`
}

// Category groups transactions. Transactions reference categories by Name,
// not by ID; renaming a category orphans its historical spend.
type Category struct {
	ID            string   `json:"id" db:"id"`
	OwnerID       string   `json:"owner_id" db:"owner_id"`
	Name          string   `json:"name" db:"name"`
	Icon          string   `json:"icon" db:"icon"`
	Color         string   `json:"color,omitempty" db:"color"`
	Subcategories []string `json:"subcategories,omitempty" db:"subcategories"`
}

// BudgetPeriod defines the time window a budget limit applies to.
type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodCustom  BudgetPeriod = "custom"
)

// Budget is a spending limit, either global (CategoryID empty) or scoped
// to one category. StartDate/EndDate are only meaningful for custom periods.
type Budget struct {
	ID         string       `json:"id" db:"id"`
	OwnerID    string       `json:"owner_id" db:"owner_id"`
	CategoryID string       `json:"category_id,omitempty" db:"category_id"`
	Amount     float64      `json:"amount" db:"amount"`
	Period     BudgetPeriod `json:"period" db:"period"`
	StartDate  string       `json:"start_date,omitempty" db:"start_date"`
	EndDate    string       `json:"end_date,omitempty" db:"end_date"`
}

// IsGlobal reports whether the budget covers all expenses.
func (b *Budget) IsGlobal() bool { return b.CategoryID == "" }

// NotificationType indicates the severity of a notification.
type NotificationType string

const (
	NotifInfo    NotificationType = "info"
	NotifWarning NotificationType = "warning"
	NotifSuccess NotificationType = "success"
	NotifError   NotificationType = "error"
)

// Notification is a user-facing alert row. Created by the budget engine or
// by user flows; mutated only via the read flag.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	OwnerID   string           `json:"owner_id" db:"owner_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// Settings holds per-owner feature toggles. All toggles default to on
// when no row exists yet.
type Settings struct {
	OwnerID              string `json:"owner_id" db:"owner_id"`
	NotificationsEnabled bool   `json:"notifications_enabled" db:"notifications_enabled"`
	FixedExpensesEnabled bool   `json:"fixed_expenses_enabled" db:"fixed_expenses_enabled"`
	DetailedStatsEnabled bool   `json:"detailed_stats_enabled" db:"detailed_stats_enabled"`
	SmartBarEnabled      bool   `json:"smart_bar_enabled" db:"smart_bar_enabled"`
}

// DefaultSettings returns the settings used before an owner has saved any.
func DefaultSettings(ownerID string) *Settings {
	return &Settings{
		OwnerID:              ownerID,
		NotificationsEnabled: true,
		FixedExpensesEnabled: true,
		DetailedStatsEnabled: true,
		SmartBarEnabled:      true,
	}
}

// ParseDate parses a transaction or budget date. Accepts full RFC 3339
// timestamps and bare YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
