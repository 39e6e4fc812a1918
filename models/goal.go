package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalScope 目标作用域枚举
type GoalScope string

const (
	GoalScopeSeller GoalScope = "seller"
	GoalScopeBranch GoalScope = "branch"
	GoalScopeGlobal GoalScope = "global"
)

// GoalPeriod 目标周期枚举
type GoalPeriod string

const (
	GoalPeriodMonthly GoalPeriod = "monthly"
	GoalPeriodDaily   GoalPeriod = "daily"
)

// Goal 转化目标，{scope, scopeId, period} 唯一确定一条记录
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Scope     GoalScope          `bson:"scope" json:"scope"`
	ScopeID   string             `bson:"scopeId" json:"scopeId"` // 销售ID或分店名，global 为空
	Period    GoalPeriod         `bson:"period" json:"period"`
	Target    int                `bson:"target" json:"target"`
	UpdatedBy string             `bson:"updatedBy" json:"updatedBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GoalUpsertRequest 设置目标请求
type GoalUpsertRequest struct {
	Scope   GoalScope  `json:"scope" binding:"required"`
	ScopeID string     `json:"scopeId"`
	Period  GoalPeriod `json:"period" binding:"required"`
	Target  int        `json:"target" binding:"min=0"`
}

// GoalProgress 目标完成情况
type GoalProgress struct {
	Scope   GoalScope  `json:"scope"`
	ScopeID string     `json:"scopeId"`
	Period  GoalPeriod `json:"period"`
	Actual  int        `json:"actual"`
	Goal    int        `json:"goal"`
	HasGoal bool       `json:"hasGoal"`
	Met     bool       `json:"met"`
}
