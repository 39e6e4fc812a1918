package controllers

import (
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Login 用户登录
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de login inválidos"))
		return
	}

	usersCollection := repository.Collection(repository.UsersCollection)

	var user models.User
	err := usersCollection.FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		// 查无此人和密码错误返回同一个错误，避免暴露账号是否存在
		utils.HandleError(c, utils.NewApiError("Credenciales inválidas", 401, "INVALID_CREDENTIALS"))
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.HandleError(c, utils.NewApiError("Credenciales inválidas", 401, "INVALID_CREDENTIALS"))
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"userId": user.ID.Hex(),
		"role":   user.Role,
	}, "登录成功")

	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: user}, "")
}

// Register 注册新用户。
// 调用者是管理角色时可以指定角色，否则固定创建销售账号。
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de registro inválidos"))
		return
	}

	if !models.IsValidBranch(req.Branch) {
		utils.HandleError(c, utils.CreateBadRequestError("sucursal inválida"))
		return
	}

	role := models.UserRoleSELLER
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			utils.HandleError(c, utils.CreateBadRequestError("rol inválido"))
			return
		}
		actor, err := utils.GetUser(c)
		if err != nil || !isManagerRole(actor.Role) {
			utils.HandleError(c, utils.CreateForbiddenError())
			return
		}
		role = req.Role
	}

	usersCollection := repository.Collection(repository.UsersCollection)

	count, err := usersCollection.CountDocuments(c.Request.Context(), bson.M{"email": req.Email})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if count > 0 {
		utils.HandleError(c, utils.CreateBadRequestError("el email ya está registrado"))
		return
	}

	now := time.Now()
	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  utils.HashPassword(req.Password),
		Role:      role,
		Branch:    req.Branch,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := usersCollection.InsertOne(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"email": req.Email,
		"role":  role,
	}, "用户注册成功")

	utils.SuccessResponse(c, gin.H{"id": result.InsertedID}, "Usuario creado", 201)
}

// GetCurrentUser 返回当前登录用户
func GetCurrentUser(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	user, err := repository.FindUserByID(c.Request.Context(), loginUser.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user, "")
}

// isManagerRole 管理角色判断（字符串形态，取自JWT声明）
func isManagerRole(role string) bool {
	return role == string(models.UserRoleADMIN) || role == string(models.UserRoleMANAGER)
}
