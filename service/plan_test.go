package service

import (
	"testing"

	"github.com/sportclub/crm_backend/models"

	"github.com/stretchr/testify/assert"
)

func TestPlanDetailsKnownInterests(t *testing.T) {
	assert.Equal(t, PlanDetails{Fee: 7000, DurationMonths: 1}, GetPlanDetails(models.InterestFlex))
	assert.Equal(t, PlanDetails{Fee: 98000, DurationMonths: 12}, GetPlanDetails(models.InterestTotalAnual1Pago))
	assert.Equal(t, PlanDetails{Fee: 0, DurationMonths: 0}, GetPlanDetails(models.InterestNotReported))
}

func TestPlanDetailsFallback(t *testing.T) {
	// 未收录的意向固定回退，这个值是约定不是bug
	fallback := GetPlanDetails(models.ProspectInterest("Plan inventado"))
	assert.Equal(t, PlanDetails{Fee: 7000, DurationMonths: 1}, fallback)
}

func TestEveryInterestHasPlan(t *testing.T) {
	interests := []models.ProspectInterest{
		models.InterestFlex, models.InterestFlexAnual1Pago, models.InterestFlexUsoPlus,
		models.InterestFlexUsoTotal, models.InterestPlus, models.InterestPlusAnual1Pago,
		models.InterestPlusAnual3Cuotas, models.InterestPlusAnual6Cuotas, models.InterestTotal,
		models.InterestTotalAnual1Pago, models.InterestTotalAnual3Cuotas, models.InterestTotalAnual6Cuotas,
		models.InterestTotalSemestral1Pago, models.InterestTotalSemestral6Cuotas, models.InterestLocal,
		models.InterestLocalTrimestral1Pago, models.InterestLocalSemestral1Pago,
		models.InterestLocalSemestral6Cuotas, models.InterestLocalAnual1Pago,
		models.InterestLocalAnual3Cuotas, models.InterestLocalAnual6Cuotas,
		models.InterestACAPlus, models.InterestACATotal,
	}
	for _, interest := range interests {
		_, ok := planConfig[interest]
		assert.True(t, ok, "interés sin plan: %s", interest)
	}
}
