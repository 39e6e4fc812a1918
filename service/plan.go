package service

import "github.com/sportclub/crm_backend/models"

// PlanDetails 套餐经济参数
type PlanDetails struct {
	Fee            float64
	DurationMonths int
}

// planConfig 意向套餐到费用/时长的静态映射
var planConfig = map[models.ProspectInterest]PlanDetails{
	models.InterestNotReported:           {Fee: 0, DurationMonths: 0},
	models.InterestFlex:                  {Fee: 7000, DurationMonths: 1},
	models.InterestFlexAnual1Pago:        {Fee: 70000, DurationMonths: 12},
	models.InterestFlexUsoPlus:           {Fee: 8500, DurationMonths: 1},
	models.InterestFlexUsoTotal:          {Fee: 10000, DurationMonths: 1},
	models.InterestPlus:                  {Fee: 8500, DurationMonths: 1},
	models.InterestPlusAnual1Pago:        {Fee: 84000, DurationMonths: 12},
	models.InterestPlusAnual3Cuotas:      {Fee: 92400, DurationMonths: 12},
	models.InterestPlusAnual6Cuotas:      {Fee: 92400, DurationMonths: 12},
	models.InterestTotal:                 {Fee: 10000, DurationMonths: 1},
	models.InterestTotalAnual1Pago:       {Fee: 98000, DurationMonths: 12},
	models.InterestTotalAnual3Cuotas:     {Fee: 107800, DurationMonths: 12},
	models.InterestTotalAnual6Cuotas:     {Fee: 107800, DurationMonths: 12},
	models.InterestTotalSemestral1Pago:   {Fee: 54000, DurationMonths: 6},
	models.InterestTotalSemestral6Cuotas: {Fee: 59400, DurationMonths: 6},
	models.InterestLocal:                 {Fee: 7000, DurationMonths: 1},
	models.InterestLocalTrimestral1Pago:  {Fee: 20000, DurationMonths: 3},
	models.InterestLocalSemestral1Pago:   {Fee: 39000, DurationMonths: 6},
	models.InterestLocalSemestral6Cuotas: {Fee: 42900, DurationMonths: 6},
	models.InterestLocalAnual1Pago:       {Fee: 70000, DurationMonths: 12},
	models.InterestLocalAnual3Cuotas:     {Fee: 77000, DurationMonths: 12},
	models.InterestLocalAnual6Cuotas:     {Fee: 77000, DurationMonths: 12},
	models.InterestACAPlus:               {Fee: 8500, DurationMonths: 1},
	models.InterestACATotal:              {Fee: 10000, DurationMonths: 1},
}

// GetPlanDetails 查询意向套餐参数。
// 未收录的意向固定回退到 {7000, 1}，这是既定的业务兜底值，不要"修复"。
func GetPlanDetails(interest models.ProspectInterest) PlanDetails {
	if details, ok := planConfig[interest]; ok {
		return details
	}
	return PlanDetails{Fee: 7000, DurationMonths: 1}
}
