package controllers

import (
	"context"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// loadEntityBranches 构建关联实体ID到分店的映射，任务可见性过滤依赖它
func loadEntityBranches(ctx context.Context) (map[string]models.Branch, error) {
	branches := make(map[string]models.Branch)

	prospectsCollection := repository.Collection(repository.ProspectsCollection)
	cursor, err := prospectsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var prospects []models.Prospect
	if err := cursor.All(ctx, &prospects); err != nil {
		return nil, err
	}
	for _, p := range prospects {
		branches[p.ID.Hex()] = p.Branch
	}

	membersCollection := repository.Collection(repository.MembersCollection)
	cursor, err = membersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	for _, m := range members {
		branches[m.ID.Hex()] = m.Branch
	}

	return branches, nil
}

// GetTasks 任务列表。
// 非admin的可见性取决于关联实体的分店或任务的负责人。
func GetTasks(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if relatedTo := c.Query("relatedTo"); relatedTo != "" {
		filter["relatedTo"] = relatedTo
	}

	collection := repository.Collection(repository.TasksCollection)
	cursor, err := collection.Find(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(c.Request.Context())

	tasks := make([]models.Task, 0)
	if err := cursor.All(c.Request.Context(), &tasks); err != nil {
		utils.HandleError(c, err)
		return
	}

	branches, err := loadEntityBranches(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, service.VisibleTasks(loginUser.AsUser(), tasks, branches), "")
}

// CreateTask 创建单个任务
func CreateTask(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de tarea inválidos"))
		return
	}

	if !service.CanAssignTo(loginUser.AsUser(), req.AssignedTo) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	task, err := service.CreateTask(c.Request.Context(), req, models.TaskStatusPending, "", loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, task, "Tarea creada", 201)
}

// CreateBulkTasks 批量创建任务，同一内容扇出到多个目标
func CreateBulkTasks(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.BulkTaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de tareas inválidos"))
		return
	}

	if !service.CanAssignTo(loginUser.AsUser(), req.AssignedTo) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	created, err := service.BulkCreateTasks(c.Request.Context(), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"created": created}, "Tareas creadas", 201)
}

// UpdateTaskStatus 任务状态流转
func UpdateTaskStatus(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de estado inválidos"))
		return
	}

	task, err := service.UpdateTaskStatus(c.Request.Context(), c.Param("id"), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, task, "Tarea actualizada")
}

// LogInteraction 手动登记互动：生成已完成任务和平行的互动记录
func LogInteraction(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanMutateRecords(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.LogInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de interacción inválidos"))
		return
	}

	interaction, err := service.LogInteraction(c.Request.Context(), req, loginUser)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, interaction, "Interacción registrada", 201)
}
