package controllers

import (
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetUsers 用户列表。
// 所有登录用户都可以读取（分配下拉框需要），可选按角色过滤。
func GetUsers(c *gin.Context) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}

	usersCollection := repository.Collection(repository.UsersCollection)
	cursor, err := usersCollection.Find(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(c.Request.Context())

	users := make([]models.User, 0)
	if err := cursor.All(c.Request.Context(), &users); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, users, "")
}

// UpdateUser 更新用户的姓名/角色/分店，仅管理角色可用
func UpdateUser(c *gin.Context) {
	actor, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !isManagerRole(actor.Role) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de usuario inválidos"))
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("ID de usuario inválido"))
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			utils.HandleError(c, utils.CreateBadRequestError("rol inválido"))
			return
		}
		update["role"] = req.Role
	}
	if req.Branch != "" {
		if !models.IsValidBranch(req.Branch) {
			utils.HandleError(c, utils.CreateBadRequestError("sucursal inválida"))
			return
		}
		update["branch"] = req.Branch
	}

	usersCollection := repository.Collection(repository.UsersCollection)
	result, err := usersCollection.UpdateOne(c.Request.Context(),
		bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("Usuario"))
		return
	}

	utils.SuccessResponse(c, nil, "Usuario actualizado")
}
