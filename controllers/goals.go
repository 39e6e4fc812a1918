package controllers

import (
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
)

// GetGoals 目标列表
func GetGoals(c *gin.Context) {
	if _, err := utils.GetUser(c); err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	goals, err := service.ListGoals(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, goals, "")
}

// SetGoal 设置转化目标，仅管理角色可用
func SetGoal(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanManage(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.GoalUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de objetivo inválidos"))
		return
	}

	goal, err := service.UpsertGoal(c.Request.Context(), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, goal, "Objetivo guardado")
}

// GetGoalReport 目标完成情况。
// 查询参数：scope, scopeId, period；没有设置目标时 hasGoal=false。
func GetGoalReport(c *gin.Context) {
	if _, err := utils.GetUser(c); err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	scope := models.GoalScope(c.Query("scope"))
	scopeID := c.Query("scopeId")
	period := models.GoalPeriod(c.DefaultQuery("period", string(models.GoalPeriodMonthly)))

	progress, err := service.GoalReport(c.Request.Context(), scope, scopeID, period, time.Now())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, progress, "")
}
