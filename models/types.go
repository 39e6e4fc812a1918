package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN   UserRole = "admin"    // 全局管理员
	UserRoleMANAGER UserRole = "gerente"  // 分店经理
	UserRoleSELLER  UserRole = "vendedor" // 销售
	UserRoleVIEWER  UserRole = "visor"    // 只读用户
)

// Branch 分店枚举
type Branch string

const (
	BranchParaguay    Branch = "Paraguay"
	BranchBarracas    Branch = "Barracas"
	BranchDiagonal    Branch = "Diagonal"
	BranchMujerCentro Branch = "Mujer Centro"
	BranchTribunales  Branch = "Tribunales"
	BranchGeneral     Branch = "General" // 兜底分店
)

// AllBranches 所有有效分店
var AllBranches = []Branch{
	BranchParaguay,
	BranchBarracas,
	BranchDiagonal,
	BranchMujerCentro,
	BranchTribunales,
	BranchGeneral,
}

// IsValidBranch 检查分店是否有效
func IsValidBranch(b Branch) bool {
	for _, branch := range AllBranches {
		if branch == b {
			return true
		}
	}
	return false
}

// IsValidRole 检查角色是否有效
func IsValidRole(r UserRole) bool {
	switch r {
	case UserRoleADMIN, UserRoleMANAGER, UserRoleSELLER, UserRoleVIEWER:
		return true
	}
	return false
}

// User 用户类型，角色与分店共同决定数据可见范围
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // 不返回密码
	Role      UserRole           `bson:"role" json:"role"`
	Branch    Branch             `bson:"branch" json:"branch"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// RegisterRequest 注册请求
	RegisterRequest struct {
		Name     string   `json:"name" binding:"required,min=2"`
		Email    string   `json:"email" binding:"required,email"`
		Password string   `json:"password" binding:"required,min=4"`
		Branch   Branch   `json:"branch" binding:"required"`
		Role     UserRole `json:"role"`
	}

	// UpdateUserRequest 更新用户请求，仅管理员/经理可用
	UpdateUserRequest struct {
		Name   string   `json:"name" binding:"omitempty,min=2"`
		Role   UserRole `json:"role" binding:"omitempty"`
		Branch Branch   `json:"branch" binding:"omitempty"`
	}
)
