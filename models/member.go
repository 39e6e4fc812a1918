package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member 正式会员模型，只能由潜在客户转化产生
// branch 与 Prospect 同样是创建时的快照字段。
type Member struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Phone          string             `bson:"phone" json:"phone"`
	Plan           string             `bson:"plan" json:"plan"`
	Fee            float64            `bson:"fee" json:"fee"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	LastActionDate *time.Time         `bson:"lastActionDate,omitempty" json:"lastActionDate,omitempty"`
	OriginalSeller string             `bson:"originalSeller" json:"originalSeller"` // 用户ID
	Branch         Branch             `bson:"branch" json:"branch"`
	DNI            string             `bson:"dni" json:"dni"`
	Address        string             `bson:"address" json:"address"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MemberUpdateRequest 更新会员请求
type MemberUpdateRequest struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone"`
	Plan    string  `json:"plan"`
	Fee     float64 `json:"fee"`
	DNI     string  `json:"dni"`
	Address string  `json:"address"`
	Notes   string  `json:"notes"`
}
