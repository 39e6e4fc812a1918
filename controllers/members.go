package controllers

import (
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetMembers 会员列表，经过可见性过滤并解码敏感字段
func GetMembers(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	collection := repository.Collection(repository.MembersCollection)
	cursor, err := collection.Find(c.Request.Context(), bson.M{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(c.Request.Context())

	members := make([]models.Member, 0)
	if err := cursor.All(c.Request.Context(), &members); err != nil {
		utils.HandleError(c, err)
		return
	}

	visible := service.VisibleMembers(loginUser.AsUser(), members)
	for i := range visible {
		visible[i] = service.DecodeMemberSensitive(visible[i])
	}

	utils.SuccessResponse(c, visible, "")
}

// UpdateMember 更新会员资料
func UpdateMember(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.MemberUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de socio inválidos"))
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("ID de socio inválido"))
		return
	}

	collection := repository.Collection(repository.MembersCollection)

	// 先加载目标记录：对操作者不可见的会员按不存在处理
	var member models.Member
	if err := collection.FindOne(c.Request.Context(), bson.M{"_id": objID}).Decode(&member); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("Socio"))
			return
		}
		utils.HandleError(c, err)
		return
	}
	if !service.MemberVisible(loginUser.AsUser(), member) {
		utils.HandleError(c, utils.CreateNotFoundError("Socio"))
		return
	}

	result, err := collection.UpdateOne(c.Request.Context(), bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"name":      req.Name,
		"phone":     req.Phone,
		"plan":      req.Plan,
		"fee":       req.Fee,
		"dni":       utils.EncodeSensitive(req.DNI),
		"address":   utils.EncodeSensitive(req.Address),
		"notes":     utils.EncodeSensitive(req.Notes),
		"updatedAt": time.Now(),
	}})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("Socio"))
		return
	}

	utils.SuccessResponse(c, nil, "Socio actualizado")
}
