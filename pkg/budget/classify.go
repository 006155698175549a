// Package budget implements the recurring budget-threshold notification
// engine: it evaluates spending against budget limits, classifies severity,
// and emits deduplicated user alerts.
package budget

import (
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// Stage is the discrete severity bucket for a spent/limit ratio.
type Stage string

const (
	StageNone     Stage = "none"
	StageMidpoint Stage = "midpoint"
	StageWarning  Stage = "warning"
	StageExceeded Stage = "exceeded"
)

// Severity maps a stage to the notification type it produces.
func (s Stage) Severity() model.NotificationType {
	switch s {
	case StageExceeded:
		return model.NotifError
	case StageWarning:
		return model.NotifWarning
	default:
		return model.NotifInfo
	}
}

// Classify buckets a spent/limit ratio. A non-positive limit is inert and
// classifies as none.
//
// Boundaries: exceeded at ratio >= 1.00, warning in [0.80, 1.00), midpoint
// in [0.50, 0.70). Ratios in [0.70, 0.80) classify as none — the midpoint
// band has always cut off at 70% in the shipped app, and existing users'
// dedup history depends on it, so the gap stays.
func Classify(spent, limit float64) Stage {
	if limit <= 0 {
		return StageNone
	}
	ratio := spent / limit
	switch {
	case ratio >= 1.0:
		return StageExceeded
	case ratio >= 0.8:
		return StageWarning
	case ratio >= 0.5 && ratio < 0.7:
		return StageMidpoint
	default:
		return StageNone
	}
}

// Expired reports whether a custom-period budget's end date is strictly in
// the past. Non-custom periods and unparseable dates never expire.
func Expired(period model.BudgetPeriod, endDate string, now time.Time) bool {
	if period != model.PeriodCustom || endDate == "" {
		return false
	}
	end, err := model.ParseDate(endDate)
	if err != nil {
		return false
	}
	return end.Before(now)
}
