package controllers

import (
	"strconv"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProspects 潜在客户列表。
// 先全量加载再经过可见性过滤器，敏感字段在返回前解码。
func GetProspects(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	filter := bson.M{}
	if stage := c.Query("stage"); stage != "" {
		filter["stage"] = stage
	}

	collection := repository.Collection(repository.ProspectsCollection)
	cursor, err := collection.Find(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(c.Request.Context())

	prospects := make([]models.Prospect, 0)
	if err := cursor.All(c.Request.Context(), &prospects); err != nil {
		utils.HandleError(c, err)
		return
	}

	visible := service.VisibleProspects(loginUser.AsUser(), prospects)
	for i := range visible {
		visible[i] = service.DecodeProspectSensitive(visible[i])
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	total := int64(len(visible))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	utils.PaginatedResponse(c, visible[start:end], total, page, limit)
}

// GetProspect 单个潜在客户，同样受可见性约束
func GetProspect(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("ID de prospecto inválido"))
		return
	}

	collection := repository.Collection(repository.ProspectsCollection)

	var prospect models.Prospect
	if err := collection.FindOne(c.Request.Context(), bson.M{"_id": objID}).Decode(&prospect); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("Prospecto"))
			return
		}
		utils.HandleError(c, err)
		return
	}

	if !service.ProspectVisible(loginUser.AsUser(), prospect) {
		utils.HandleError(c, utils.CreateNotFoundError("Prospecto"))
		return
	}

	utils.SuccessResponse(c, service.DecodeProspectSensitive(prospect), "")
}

// CreateProspect 创建潜在客户
func CreateProspect(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.ProspectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de prospecto inválidos"))
		return
	}

	// vendedor 只能创建分配给自己的记录
	if !service.CanAssignTo(loginUser.AsUser(), req.AssignedTo) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	prospect, err := service.CreateProspect(c.Request.Context(), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, prospect, "Prospecto creado", 201)
}

// UpdateProspect 更新潜在客户
func UpdateProspect(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.ProspectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de prospecto inválidos"))
		return
	}

	if !service.CanAssignTo(loginUser.AsUser(), req.AssignedTo) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	prospect, err := service.UpdateProspect(c.Request.Context(), c.Param("id"), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, prospect, "Prospecto actualizado")
}

// ReassignProspects 批量改派，仅管理角色可用
func ReassignProspects(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanManage(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de reasignación inválidos"))
		return
	}

	reassigned, err := service.ReassignProspects(c.Request.Context(), req.ProspectIDs, req.AssignedTo, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"reassigned": reassigned}, "Prospectos reasignados")
}

// ConvertProspect 转化为会员
func ConvertProspect(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	member, err := service.ConvertProspect(c.Request.Context(), c.Param("id"), loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, member, "Prospecto convertido en socio", 201)
}
