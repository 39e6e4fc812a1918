package service

import (
	"testing"
	"time"

	"github.com/sportclub/crm_backend/models"

	"github.com/stretchr/testify/assert"
)

func TestPeriodWindowMonthly(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(models.GoalPeriodMonthly, now)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodWindowMonthlyYearRollover(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	start, end := PeriodWindow(models.GoalPeriodMonthly, now)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodWindowDaily(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(models.GoalPeriodDaily, now)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestValidGoalKey(t *testing.T) {
	assert.True(t, ValidGoalKey(models.GoalScopeSeller, "s1", models.GoalPeriodMonthly))
	assert.True(t, ValidGoalKey(models.GoalScopeBranch, "Paraguay", models.GoalPeriodDaily))
	assert.True(t, ValidGoalKey(models.GoalScopeGlobal, "", models.GoalPeriodMonthly))

	// seller/branch 必须带 scopeId，global 不能带
	assert.False(t, ValidGoalKey(models.GoalScopeSeller, "", models.GoalPeriodMonthly))
	assert.False(t, ValidGoalKey(models.GoalScopeGlobal, "x", models.GoalPeriodMonthly))
	assert.False(t, ValidGoalKey(models.GoalScope("otro"), "x", models.GoalPeriodMonthly))
	assert.False(t, ValidGoalKey(models.GoalScopeSeller, "s1", models.GoalPeriod("semanal")))
}

func TestBuildProgressWithGoal(t *testing.T) {
	goal := &models.Goal{Target: 10}

	met := BuildProgress(models.GoalScopeSeller, "s1", models.GoalPeriodMonthly, 12, goal)
	assert.True(t, met.HasGoal)
	assert.True(t, met.Met)
	assert.Equal(t, 10, met.Goal)
	assert.Equal(t, 12, met.Actual)

	exact := BuildProgress(models.GoalScopeSeller, "s1", models.GoalPeriodMonthly, 10, goal)
	assert.True(t, exact.Met)

	short := BuildProgress(models.GoalScopeSeller, "s1", models.GoalPeriodMonthly, 9, goal)
	assert.False(t, short.Met)
}

func TestBuildProgressWithoutGoal(t *testing.T) {
	progress := BuildProgress(models.GoalScopeGlobal, "", models.GoalPeriodDaily, 5, nil)
	assert.False(t, progress.HasGoal)
	assert.False(t, progress.Met)
	assert.Equal(t, 0, progress.Goal)
	assert.Equal(t, 5, progress.Actual)
}
