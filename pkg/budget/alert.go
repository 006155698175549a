package budget

import (
	"fmt"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

// Alert is a candidate notification. Key uniquely identifies
// {budget, period instance, stage or expiry}, so the same condition inside
// the same period never produces two writes, while the next period or a
// new stage yields a fresh key.
type Alert struct {
	Key      string
	Severity model.NotificationType
	Title    string
	Message  string

	// Period is the interval the alert applies to. Nil for expiration
	// alerts, which key on the end date instead.
	Period *model.Interval
}

func globalStageAlert(stage Stage, interval model.Interval, spent, limit float64) Alert {
	pct := spent / limit * 100
	a := Alert{
		Key:      "global|" + interval.Key() + "|" + string(stage),
		Severity: stage.Severity(),
		Period:   &interval,
	}
	switch stage {
	case StageExceeded:
		a.Title = "Global budget exceeded!"
		a.Message = fmt.Sprintf("You have exceeded your global budget by %.2f.", spent-limit)
	case StageWarning:
		a.Title = "Global budget warning"
		a.Message = fmt.Sprintf("You have used %.0f%% of your global budget.", pct)
	default:
		a.Title = "Global budget halfway"
		a.Message = fmt.Sprintf("You have used %.0f%% of your global budget.", pct)
	}
	return a
}

func categoryStageAlert(b model.Budget, catName string, stage Stage, interval model.Interval, spent float64) Alert {
	pct := spent / b.Amount * 100
	a := Alert{
		Key:      "cat|" + b.ID + "|" + interval.Key() + "|" + string(stage),
		Severity: stage.Severity(),
		Period:   &interval,
	}
	switch stage {
	case StageExceeded:
		a.Title = fmt.Sprintf("Budget %s exceeded!", catName)
		a.Message = fmt.Sprintf("You have exceeded the %q budget by %.2f.", catName, spent-b.Amount)
	case StageWarning:
		a.Title = fmt.Sprintf("Budget %s warning", catName)
		a.Message = fmt.Sprintf("You have used %.0f%% of the %q budget.", pct, catName)
	default:
		a.Title = fmt.Sprintf("Budget %s halfway", catName)
		a.Message = fmt.Sprintf("%.0f%% of the %q budget used.", pct, catName)
	}
	return a
}

func globalExpiredAlert(endDate string) Alert {
	return Alert{
		Key:      "global-expired|" + endDate,
		Severity: model.NotifInfo,
		Title:    "Budget expired",
		Message:  "Your global budget has expired. Reset it and set a new one if needed.",
	}
}

func categoryExpiredAlert(b model.Budget, catName string) Alert {
	return Alert{
		Key:      "cat-expired|" + b.ID + "|" + b.EndDate,
		Severity: model.NotifInfo,
		Title:    fmt.Sprintf("Budget %s expired", catName),
		Message:  fmt.Sprintf("The %q budget has expired. Reset it to keep tracking.", catName),
	}
}
