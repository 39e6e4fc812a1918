package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskType 任务类型枚举
type TaskType string

const (
	TaskTypeCall     TaskType = "llamada"
	TaskTypeWhatsApp TaskType = "WhatsApp"
	TaskTypeEmail    TaskType = "email"
	TaskTypeVisit    TaskType = "visita"
	TaskTypeNote     TaskType = "nota"
)

// IsValidTaskType 检查任务类型是否有效
func IsValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeCall, TaskTypeWhatsApp, TaskTypeEmail, TaskTypeVisit, TaskTypeNote:
		return true
	}
	return false
}

// TaskStatus 任务状态枚举
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pendiente"
	TaskStatusDone    TaskStatus = "hecha"
)

// Task 跟进任务模型
// relatedTo 指向 Prospect 或 Member；不支持删除，状态可在两个值之间往返。
type Task struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	Type       TaskType           `bson:"type" json:"type"`
	DateTime   time.Time          `bson:"dateTime" json:"dateTime"`
	Status     TaskStatus         `bson:"status" json:"status"`
	RelatedTo  string             `bson:"relatedTo" json:"relatedTo"`   // Prospect 或 Member ID
	AssignedTo string             `bson:"assignedTo" json:"assignedTo"` // 用户ID
	Result     string             `bson:"result,omitempty" json:"result,omitempty"`
}

// Interaction 互动记录，只追加不修改
type Interaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
	Type      TaskType           `bson:"type" json:"type"`
	Summary   string             `bson:"summary" json:"summary"`
	Result    string             `bson:"result" json:"result"`
	DoneBy    string             `bson:"doneBy" json:"doneBy"` // 用户ID
	RelatedTo string             `bson:"relatedTo" json:"relatedTo"`
}

// 任务相关请求结构
type (
	// TaskCreateRequest 创建单个任务请求
	TaskCreateRequest struct {
		Title      string    `json:"title" binding:"required"`
		Type       TaskType  `json:"type" binding:"required"`
		DateTime   time.Time `json:"dateTime" binding:"required"`
		RelatedTo  string    `json:"relatedTo" binding:"required"`
		AssignedTo string    `json:"assignedTo" binding:"required"`
	}

	// BulkTaskCreateRequest 批量创建任务请求，同一任务内容扇出到多个目标
	BulkTaskCreateRequest struct {
		Title      string    `json:"title" binding:"required"`
		Type       TaskType  `json:"type" binding:"required"`
		DateTime   time.Time `json:"dateTime" binding:"required"`
		AssignedTo string    `json:"assignedTo" binding:"required"`
		RelatedIDs []string  `json:"relatedIds" binding:"required"`
	}

	// TaskStatusRequest 任务状态流转请求
	TaskStatusRequest struct {
		Status TaskStatus `json:"status" binding:"required"`
		Result string     `json:"result"`
	}

	// LogInteractionRequest 登记互动请求
	LogInteractionRequest struct {
		Type      TaskType `json:"type" binding:"required"`
		Summary   string   `json:"summary" binding:"required"`
		RelatedTo string   `json:"relatedTo" binding:"required"`
	}
)
