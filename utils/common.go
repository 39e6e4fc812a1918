package utils

import (
	"fmt"
	"regexp"

	"github.com/sportclub/crm_backend/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsValidEmail 验证邮箱格式是否有效
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// LoginUser 当前登录用户信息，由认证中间件写入上下文
type LoginUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Branch string `json:"branch"`
}

// AsUser 转换为领域用户，供纯函数过滤器使用
func (u *LoginUser) AsUser() models.User {
	user := models.User{
		Name:   u.Name,
		Role:   models.UserRole(u.Role),
		Branch: models.Branch(u.Branch),
	}
	// vendedor 的可见性按ID比较，解析失败保持零值（匹配不到任何记录）
	if objID, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		user.ID = objID
	}
	return user
}

// GetUser 从gin上下文中取出当前用户信息
func GetUser(c *gin.Context) (*LoginUser, error) {
	currentUser, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("no autorizado")
	}

	claims, ok := currentUser.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("información de usuario inválida")
	}

	id, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("ID de usuario inválido")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("rol de usuario inválido")
	}

	name, _ := claims["name"].(string)
	branch, _ := claims["branch"].(string)

	return &LoginUser{
		ID:     id,
		Name:   name,
		Role:   role,
		Branch: branch,
	}, nil
}

// PaginatedResponse 分页响应
func PaginatedResponse(c *gin.Context, data interface{}, total int64, page int64, limit int64) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + limit - 1) / limit,
		},
	})
}
