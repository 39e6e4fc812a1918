package models

import "time"

// ImportResult 导入结果汇总，重复和不完整的行按行计数，不算错误
type ImportResult struct {
	BatchID    string     `json:"batchId"`
	Total      int        `json:"total"`
	Created    int        `json:"created"`
	Duplicates int        `json:"duplicates"`
	Incomplete int        `json:"incomplete"`
	Prospects  []Prospect `json:"prospects,omitempty"`
	Message    string     `json:"message"`
}

// ImportAssignmentType 导入分配方式
type ImportAssignmentType string

const (
	// ImportAssignRoundRobin 按行序轮询分配给所选销售
	ImportAssignRoundRobin ImportAssignmentType = "random"
	// ImportAssignManual 逐行手动指定销售
	ImportAssignManual ImportAssignmentType = "manual"
)

// ImportUploadRequest 文件上传导入请求，csv 为原始文本
type ImportUploadRequest struct {
	CSV            string               `json:"csv" binding:"required"`
	AssignmentType ImportAssignmentType `json:"assignmentType" binding:"required"`
	SellerIDs      []string             `json:"sellerIds"`             // random 模式
	Assignments    map[int]string       `json:"assignments,omitempty"` // manual 模式，行号 -> 销售ID
}

// SystemConfig 系统单例配置，目前只用于自动同步的运行锁
type SystemConfig struct {
	ConfigType string      `bson:"configType" json:"configType"`
	Value      interface{} `bson:"value" json:"value"`
	UpdatedAt  time.Time   `bson:"updatedAt" json:"updatedAt"`
}

const (
	// ConfigTypeLastAutoImport 上次自动同步时间戳的配置键
	ConfigTypeLastAutoImport = "last_auto_import"
)
