package service

import (
	"context"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 目标与转化统计。
// 转化事实来源是 stage=Cerrado ganado 的潜在客户，以其 updatedAt 落在周期窗口内计数。

// PeriodWindow 计算周期对应的时间窗口 [start, end)
func PeriodWindow(period models.GoalPeriod, now time.Time) (time.Time, time.Time) {
	if period == models.GoalPeriodDaily {
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 1)
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// ValidGoalKey 校验目标键的一致性：seller/branch 必须带 scopeId，global 不带
func ValidGoalKey(scope models.GoalScope, scopeID string, period models.GoalPeriod) bool {
	if period != models.GoalPeriodMonthly && period != models.GoalPeriodDaily {
		return false
	}
	switch scope {
	case models.GoalScopeSeller, models.GoalScopeBranch:
		return scopeID != ""
	case models.GoalScopeGlobal:
		return scopeID == ""
	}
	return false
}

// UpsertGoal 设置目标，同一 {scope, scopeId, period} 只保留一条
func UpsertGoal(ctx context.Context, req models.GoalUpsertRequest, actor *utils.LoginUser) (*models.Goal, error) {
	if !ValidGoalKey(req.Scope, req.ScopeID, req.Period) {
		return nil, utils.CreateBadRequestError("combinación de alcance y período inválida")
	}
	if req.Target < 0 {
		return nil, utils.CreateBadRequestError("el objetivo no puede ser negativo")
	}

	collection := repository.Collection(repository.GoalsCollection)
	now := time.Now()

	filter := bson.M{"scope": req.Scope, "scopeId": req.ScopeID, "period": req.Period}
	update := bson.M{"$set": bson.M{
		"target":    req.Target,
		"updatedBy": actor.ID,
		"updatedAt": now,
	}}

	if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}

	var goal models.Goal
	if err := collection.FindOne(ctx, filter).Decode(&goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// FindGoal 查询目标，不存在时返回 (nil, nil)
func FindGoal(ctx context.Context, scope models.GoalScope, scopeID string, period models.GoalPeriod) (*models.Goal, error) {
	collection := repository.Collection(repository.GoalsCollection)

	var goal models.Goal
	err := collection.FindOne(ctx, bson.M{
		"scope":   scope,
		"scopeId": scopeID,
		"period":  period,
	}).Decode(&goal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

// ListGoals 列出全部目标
func ListGoals(ctx context.Context) ([]models.Goal, error) {
	collection := repository.Collection(repository.GoalsCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	goals := make([]models.Goal, 0)
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CountConversions 统计窗口内的转化数。
// scope 决定分组条件：seller 按 assignedTo，branch 按 branch，global 不过滤。
func CountConversions(ctx context.Context, scope models.GoalScope, scopeID string, start, end time.Time) (int, error) {
	filter := bson.M{
		"stage":     models.StageWon,
		"updatedAt": bson.M{"$gte": start, "$lt": end},
	}
	switch scope {
	case models.GoalScopeSeller:
		filter["assignedTo"] = scopeID
	case models.GoalScopeBranch:
		filter["branch"] = scopeID
	}

	collection := repository.Collection(repository.ProspectsCollection)
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// BuildProgress 组装目标进度，goal 为 nil 时 hasGoal=false 且永远不算达成
func BuildProgress(scope models.GoalScope, scopeID string, period models.GoalPeriod, actual int, goal *models.Goal) models.GoalProgress {
	progress := models.GoalProgress{
		Scope:   scope,
		ScopeID: scopeID,
		Period:  period,
		Actual:  actual,
	}
	if goal != nil {
		progress.Goal = goal.Target
		progress.HasGoal = true
		progress.Met = actual >= goal.Target
	}
	return progress
}

// GoalReport 查询某个键的目标完成情况
func GoalReport(ctx context.Context, scope models.GoalScope, scopeID string, period models.GoalPeriod, now time.Time) (*models.GoalProgress, error) {
	if !ValidGoalKey(scope, scopeID, period) {
		return nil, utils.CreateBadRequestError("combinación de alcance y período inválida")
	}

	start, end := PeriodWindow(period, now)
	actual, err := CountConversions(ctx, scope, scopeID, start, end)
	if err != nil {
		return nil, err
	}

	goal, err := FindGoal(ctx, scope, scopeID, period)
	if err != nil {
		return nil, err
	}

	progress := BuildProgress(scope, scopeID, period, actual, goal)
	return &progress, nil
}
