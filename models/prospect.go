package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProspectStage 销售阶段枚举
type ProspectStage string

const (
	StageNew       ProspectStage = "Nuevo"
	StageContacted ProspectStage = "Contactado"
	StageTrial     ProspectStage = "En prueba"
	StageWon       ProspectStage = "Cerrado ganado"
	StageLost      ProspectStage = "Cerrado perdido"
)

// AllStages 所有有效阶段。阶段顺序只是界面约定，后端不限制跳转
var AllStages = []ProspectStage{
	StageNew,
	StageContacted,
	StageTrial,
	StageWon,
	StageLost,
}

// IsValidStage 检查阶段是否有效
func IsValidStage(s ProspectStage) bool {
	for _, stage := range AllStages {
		if stage == s {
			return true
		}
	}
	return false
}

// IsTerminalStage 检查阶段是否已关闭（不可再转化）
func IsTerminalStage(s ProspectStage) bool {
	return s == StageWon || s == StageLost
}

// ProspectSource 潜在客户来源枚举
type ProspectSource string

const (
	SourceInstagram   ProspectSource = "Instagram"
	SourceWeb         ProspectSource = "Web"
	SourceReferral    ProspectSource = "Referido"
	SourceWalkIn      ProspectSource = "Walk-in"
	SourceWhatsapp    ProspectSource = "Whatsapp"
	SourceBajas       ProspectSource = "Bajas"
	SourceGoogleSheet ProspectSource = "Google Sheet"
)

// ProspectInterest 意向套餐枚举
type ProspectInterest string

const (
	InterestNotReported           ProspectInterest = "No informado"
	InterestFlex                  ProspectInterest = "Flex"
	InterestFlexAnual1Pago        ProspectInterest = "Flex Anual 1 pago"
	InterestFlexUsoPlus           ProspectInterest = "Flex Uso Plus"
	InterestFlexUsoTotal          ProspectInterest = "Flex Uso Total"
	InterestPlus                  ProspectInterest = "Plus"
	InterestPlusAnual1Pago        ProspectInterest = "Plus Anual 1 pago"
	InterestPlusAnual3Cuotas      ProspectInterest = "Plus Anual 3 cuotas"
	InterestPlusAnual6Cuotas      ProspectInterest = "Plus Anual 6 cuotas"
	InterestTotal                 ProspectInterest = "Total"
	InterestTotalAnual1Pago       ProspectInterest = "Total Anual 1 pago"
	InterestTotalAnual3Cuotas     ProspectInterest = "Total Anual 3 cuotas"
	InterestTotalAnual6Cuotas     ProspectInterest = "Total Annual 6 cuotas"
	InterestTotalSemestral1Pago   ProspectInterest = "Total Semestral 1 pago"
	InterestTotalSemestral6Cuotas ProspectInterest = "Total Semestral 6 cuotas"
	InterestLocal                 ProspectInterest = "Local"
	InterestLocalTrimestral1Pago  ProspectInterest = "Local trimestral 1 pago"
	InterestLocalSemestral1Pago   ProspectInterest = "Local Semestral 1 pago"
	InterestLocalSemestral6Cuotas ProspectInterest = "Local Semestral 6 cuotas"
	InterestLocalAnual1Pago       ProspectInterest = "Local Annual 1 pago"
	InterestLocalAnual3Cuotas     ProspectInterest = "Local Annual 3 cuotas"
	InterestLocalAnual6Cuotas     ProspectInterest = "Local Annual 6 cuotas"
	InterestACAPlus               ProspectInterest = "ACA Plus"
	InterestACATotal              ProspectInterest = "ACA TOTAL"
)

// Prospect 潜在客户模型
// branch 是冗余字段：创建时取自 assignedTo 销售的分店快照，之后不会自动重算。
// dni/address/notes 以可逆编码形式入库，读写边界必须经过 utils 的编解码。
type Prospect struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Phone          string             `bson:"phone" json:"phone"`
	Email          string             `bson:"email" json:"email"`
	Source         ProspectSource     `bson:"source" json:"source"`
	Interest       ProspectInterest   `bson:"interest" json:"interest"`
	Stage          ProspectStage      `bson:"stage" json:"stage"`
	AssignedTo     string             `bson:"assignedTo" json:"assignedTo"` // 用户ID
	Branch         Branch             `bson:"branch" json:"branch"`
	DNI            string             `bson:"dni" json:"dni"`
	Address        string             `bson:"address" json:"address"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
	NextActionDate *time.Time         `bson:"nextActionDate,omitempty" json:"nextActionDate,omitempty"`
	CreatedBy      string             `bson:"createdBy" json:"createdBy"`
	UpdatedBy      string             `bson:"updatedBy" json:"updatedBy"`
}

// ProspectCreateRequest 创建潜在客户请求
type ProspectCreateRequest struct {
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" binding:"required,email"`
	Source         ProspectSource   `json:"source"`
	Interest       ProspectInterest `json:"interest"`
	Stage          ProspectStage    `json:"stage"`
	AssignedTo     string           `json:"assignedTo" binding:"required"`
	DNI            string           `json:"dni"`
	Address        string           `json:"address"`
	Notes          string           `json:"notes"`
	NextActionDate *time.Time       `json:"nextActionDate"`
}

// ProspectUpdateRequest 更新潜在客户请求
type ProspectUpdateRequest struct {
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" binding:"required,email"`
	Source         ProspectSource   `json:"source"`
	Interest       ProspectInterest `json:"interest"`
	Stage          ProspectStage    `json:"stage" binding:"required"`
	AssignedTo     string           `json:"assignedTo" binding:"required"`
	DNI            string           `json:"dni"`
	Address        string           `json:"address"`
	Notes          string           `json:"notes"`
	NextActionDate *time.Time       `json:"nextActionDate"`
}

// ReassignRequest 批量改派请求
type ReassignRequest struct {
	ProspectIDs []string `json:"prospectIds" binding:"required"`
	AssignedTo  string   `json:"assignedTo" binding:"required"`
}
