package budget_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		spent float64
		limit float64
		want  budget.Stage
	}{
		{"zero spend", 0, 1000, budget.StageNone},
		{"just under half", 499.99, 1000, budget.StageNone},
		{"exactly half", 500, 1000, budget.StageMidpoint},
		{"upper midpoint band", 699.99, 1000, budget.StageMidpoint},
		{"seventy percent", 700, 1000, budget.StageNone},
		{"inside the gap", 750, 1000, budget.StageNone},
		{"just under eighty", 799.99, 1000, budget.StageNone},
		{"exactly eighty", 800, 1000, budget.StageWarning},
		{"just under limit", 999.99, 1000, budget.StageWarning},
		{"exactly at limit", 1000, 1000, budget.StageExceeded},
		{"over limit", 1500, 1000, budget.StageExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budget.Classify(tt.spent, tt.limit))
		})
	}
}

func TestClassify_InertLimit(t *testing.T) {
	assert.Equal(t, budget.StageNone, budget.Classify(500, 0))
	assert.Equal(t, budget.StageNone, budget.Classify(500, -10))
}

func TestStage_Severity(t *testing.T) {
	assert.Equal(t, model.NotifInfo, budget.StageMidpoint.Severity())
	assert.Equal(t, model.NotifWarning, budget.StageWarning.Severity())
	assert.Equal(t, model.NotifError, budget.StageExceeded.Severity())
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, budget.Expired(model.PeriodCustom, "2025-06-14", now))
	assert.False(t, budget.Expired(model.PeriodCustom, "2025-06-16", now))
	assert.False(t, budget.Expired(model.PeriodCustom, "", now))
	assert.False(t, budget.Expired(model.PeriodCustom, "not-a-date", now))
	assert.False(t, budget.Expired(model.PeriodMonthly, "2025-06-14", now))
	assert.False(t, budget.Expired(model.PeriodWeekly, "2025-06-14", now))
}
