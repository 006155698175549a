package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// StatsPeriod selects the window a summary covers.
type StatsPeriod string

const (
	StatsDay   StatsPeriod = "day"
	StatsWeek  StatsPeriod = "week"
	StatsMonth StatsPeriod = "month"
)

// CategorySpend is one category's share of the period's expenses.
type CategorySpend struct {
	Name       string  `json:"name"`
	Color      string  `json:"color,omitempty"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Summary aggregates an owner's activity over one period.
type Summary struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Income     float64         `json:"income"`
	Expenses   float64         `json:"expenses"`
	Balance    float64         `json:"balance"`
	ByCategory []CategorySpend `json:"by_category"`
}

// Stats summarizes the owner's current day, week or month: income and
// expense totals plus the expense breakdown by category, largest first.
// Categories with no spend in the period are omitted.
func (t *Tracker) Stats(ctx context.Context, ownerID string, period StatsPeriod) (*Summary, error) {
	interval, err := statsInterval(period, time.Now())
	if err != nil {
		return nil, err
	}

	txs, err := t.storage.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := t.storage.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	summary := &Summary{Start: interval.Start, End: interval.End}
	for _, tx := range txs {
		date, err := model.ParseDate(tx.Date)
		if err != nil || !interval.Contains(date) {
			continue
		}
		switch tx.Type {
		case model.TypeIncome:
			summary.Income += tx.Amount
		case model.TypeExpense:
			summary.Expenses += tx.Amount
		}
	}
	summary.Balance = summary.Income - summary.Expenses

	for _, cat := range cats {
		amount := budget.SumExpenses(txs, cat.Name, interval)
		if amount <= 0 {
			continue
		}
		share := 0.0
		if summary.Expenses > 0 {
			share = amount / summary.Expenses * 100
		}
		summary.ByCategory = append(summary.ByCategory, CategorySpend{
			Name:       cat.Name,
			Color:      cat.Color,
			Amount:     amount,
			Percentage: share,
		})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Amount > summary.ByCategory[j].Amount
	})

	return summary, nil
}

func statsInterval(period StatsPeriod, now time.Time) (model.Interval, error) {
	switch period {
	case StatsDay:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return model.Interval{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
	case StatsWeek:
		return model.ResolvePeriod(model.PeriodWeekly, "", "", now), nil
	case StatsMonth, "":
		return model.ResolvePeriod(model.PeriodMonthly, "", "", now), nil
	default:
		return model.Interval{}, fmt.Errorf("invalid stats period %q", period)
	}
}
