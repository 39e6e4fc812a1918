package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// 生命周期引擎：潜在客户与任务的状态流转，以及随之发生的冗余字段更新。
// 所有写路径在落库前都要先加载目标记录并通过操作者的可见性判定，
// 对操作者不可见的记录一律按不存在处理。

const (
	// DefaultTaskResult 任务完成但未填写结果时的占位文本
	DefaultTaskResult = "Completada sin resultado."
	// LoggedInteractionResult 手动登记互动生成的任务结果
	LoggedInteractionResult = "Interacción registrada manualmente."
	// convertedNotesPrefix 转化会员时笔记的固定前缀
	convertedNotesPrefix = "Convertido desde prospecto. Notas originales: "
)

// EncodeProspectSensitive 写库前编码敏感字段
func EncodeProspectSensitive(p models.Prospect) models.Prospect {
	p.DNI = utils.EncodeSensitive(p.DNI)
	p.Address = utils.EncodeSensitive(p.Address)
	p.Notes = utils.EncodeSensitive(p.Notes)
	return p
}

// DecodeProspectSensitive 读库后解码敏感字段
func DecodeProspectSensitive(p models.Prospect) models.Prospect {
	p.DNI = utils.DecodeSensitive(p.DNI)
	p.Address = utils.DecodeSensitive(p.Address)
	p.Notes = utils.DecodeSensitive(p.Notes)
	return p
}

// EncodeMemberSensitive 写库前编码敏感字段
func EncodeMemberSensitive(m models.Member) models.Member {
	m.DNI = utils.EncodeSensitive(m.DNI)
	m.Address = utils.EncodeSensitive(m.Address)
	m.Notes = utils.EncodeSensitive(m.Notes)
	return m
}

// DecodeMemberSensitive 读库后解码敏感字段
func DecodeMemberSensitive(m models.Member) models.Member {
	m.DNI = utils.DecodeSensitive(m.DNI)
	m.Address = utils.DecodeSensitive(m.Address)
	m.Notes = utils.DecodeSensitive(m.Notes)
	return m
}

// CreateProspect 创建潜在客户。
// branch 来自被分配销售当时的分店快照，找不到销售时落到 General。
func CreateProspect(ctx context.Context, req models.ProspectCreateRequest, actor *utils.LoginUser) (*models.Prospect, error) {
	if req.Stage == "" {
		req.Stage = models.StageNew
	}
	if !models.IsValidStage(req.Stage) {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("etapa inválida: %s", req.Stage))
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return nil, utils.CreateBadRequestError("formato de email inválido")
	}
	if req.Interest == "" {
		req.Interest = models.InterestNotReported
	}

	branch := models.BranchGeneral
	seller, err := repository.FindUserByID(ctx, req.AssignedTo)
	if err == nil {
		branch = seller.Branch
	} else {
		utils.LogInfo(map[string]interface{}{
			"assignedTo": req.AssignedTo,
		}, "销售不存在，潜在客户落到General分店")
	}

	now := time.Now()
	prospect := models.Prospect{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Source:         req.Source,
		Interest:       req.Interest,
		Stage:          req.Stage,
		AssignedTo:     req.AssignedTo,
		Branch:         branch,
		DNI:            req.DNI,
		Address:        req.Address,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
		NextActionDate: req.NextActionDate,
		CreatedBy:      actor.ID,
		UpdatedBy:      actor.ID,
	}

	collection := repository.Collection(repository.ProspectsCollection)
	if _, err := collection.InsertOne(ctx, EncodeProspectSensitive(prospect)); err != nil {
		return nil, err
	}

	return &prospect, nil
}

// UpdateProspect 更新潜在客户。
// 阶段只校验枚举成员资格，不限制跳转方向；改派时 assignedTo 和 branch 在同一次 $set 中落库。
// 目标记录必须对操作者可见，且只有管理角色可以变更 assignedTo。
func UpdateProspect(ctx context.Context, id string, req models.ProspectUpdateRequest, actor *utils.LoginUser) (*models.Prospect, error) {
	if !models.IsValidStage(req.Stage) {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("etapa inválida: %s", req.Stage))
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return nil, utils.CreateBadRequestError("formato de email inválido")
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("ID de prospecto inválido")
	}

	collection := repository.Collection(repository.ProspectsCollection)

	var existing models.Prospect
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("Prospecto")
		}
		return nil, err
	}

	user := actor.AsUser()
	if !ProspectVisible(user, existing) {
		return nil, utils.CreateNotFoundError("Prospecto")
	}
	// 改派是管理动作，vendedor 不能通过更新接口转移归属
	if req.AssignedTo != existing.AssignedTo && !CanManage(user.Role) {
		return nil, utils.CreateForbiddenError()
	}

	branch := existing.Branch
	if req.AssignedTo != existing.AssignedTo {
		branch = models.BranchGeneral
		if seller, err := repository.FindUserByID(ctx, req.AssignedTo); err == nil {
			branch = seller.Branch
		}
	}

	now := time.Now()
	update := bson.M{
		"name":           req.Name,
		"phone":          req.Phone,
		"email":          req.Email,
		"source":         req.Source,
		"interest":       req.Interest,
		"stage":          req.Stage,
		"assignedTo":     req.AssignedTo,
		"branch":         branch,
		"dni":            utils.EncodeSensitive(req.DNI),
		"address":        utils.EncodeSensitive(req.Address),
		"notes":          utils.EncodeSensitive(req.Notes),
		"nextActionDate": req.NextActionDate,
		"updatedAt":      now,
		"updatedBy":      actor.ID,
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
		return nil, err
	}

	updated := existing
	updated.Name = req.Name
	updated.Phone = req.Phone
	updated.Email = req.Email
	updated.Source = req.Source
	updated.Interest = req.Interest
	updated.Stage = req.Stage
	updated.AssignedTo = req.AssignedTo
	updated.Branch = branch
	updated.DNI = req.DNI
	updated.Address = req.Address
	updated.Notes = req.Notes
	updated.NextActionDate = req.NextActionDate
	updated.UpdatedAt = now
	updated.UpdatedBy = actor.ID

	return &updated, nil
}

// ReassignProspects 批量改派。每条记录独立更新，单条失败不中断整批
func ReassignProspects(ctx context.Context, prospectIDs []string, sellerID string, actor *utils.LoginUser) (int, error) {
	seller, err := repository.FindUserByID(ctx, sellerID)
	if err != nil {
		return 0, utils.CreateBadRequestError("vendedor destino no encontrado")
	}

	collection := repository.Collection(repository.ProspectsCollection)
	now := time.Now()
	reassigned := 0

	for _, id := range prospectIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			utils.LogInfo(map[string]interface{}{"id": id}, "改派跳过无效ID")
			continue
		}

		// assignedTo 与 branch 必须同时落库
		result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
			"assignedTo": sellerID,
			"branch":     seller.Branch,
			"updatedAt":  now,
			"updatedBy":  actor.ID,
		}})
		if err != nil {
			utils.LogError(err, map[string]interface{}{"id": id}, "改派单条失败")
			continue
		}
		if result.MatchedCount > 0 {
			reassigned++
		}
	}

	return reassigned, nil
}

// MemberFromProspect 根据潜在客户构建会员记录（敏感字段为明文形态）
func MemberFromProspect(p models.Prospect, plan PlanDetails, now time.Time) models.Member {
	return models.Member{
		ID:             primitive.NewObjectID(),
		Name:           p.Name,
		Phone:          p.Phone,
		Plan:           string(p.Interest),
		Fee:            plan.Fee,
		StartDate:      now,
		LastActionDate: &now,
		OriginalSeller: p.AssignedTo,
		Branch:         p.Branch,
		DNI:            p.DNI,
		Address:        p.Address,
		Notes:          convertedNotesPrefix + p.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ConvertProspect 转化潜在客户为会员。
// 终态校验基于此刻重新加载的记录，防止界面数据过期导致的重复转化。
// 两次写入不在事务中：先写会员再更新潜在客户，崩溃时宁可多出孤儿会员也不丢转化。
func ConvertProspect(ctx context.Context, id string, actor *utils.LoginUser) (*models.Member, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("ID de prospecto inválido")
	}

	prospectsCollection := repository.Collection(repository.ProspectsCollection)

	var stored models.Prospect
	if err := prospectsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&stored); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("Prospecto")
		}
		return nil, err
	}

	if !ProspectVisible(actor.AsUser(), stored) {
		return nil, utils.CreateNotFoundError("Prospecto")
	}

	if models.IsTerminalStage(stored.Stage) {
		return nil, utils.CreateBadRequestError("el prospecto ya está cerrado y no puede convertirse")
	}

	prospect := DecodeProspectSensitive(stored)
	plan := GetPlanDetails(prospect.Interest)
	now := time.Now()
	member := MemberFromProspect(prospect, plan, now)

	membersCollection := repository.Collection(repository.MembersCollection)
	_, err = repository.ExecuteDbOperation(func() (interface{}, error) {
		return membersCollection.InsertOne(ctx, EncodeMemberSensitive(member))
	}, 3)
	if err != nil {
		return nil, err
	}

	_, err = repository.ExecuteDbOperation(func() (interface{}, error) {
		return prospectsCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
			"stage":     models.StageWon,
			"updatedAt": now,
			"updatedBy": actor.ID,
		}})
	}, 3)
	if err != nil {
		// 会员已写入；记录不一致并返回错误让调用方重试潜在客户更新
		utils.LogError(err, map[string]interface{}{
			"prospectId": id,
			"memberId":   member.ID.Hex(),
		}, "转化后更新潜在客户失败，出现孤儿会员")
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{
		"prospectId": id,
		"memberId":   member.ID.Hex(),
		"plan":       member.Plan,
		"fee":        member.Fee,
	}, "潜在客户转化成功")

	return &member, nil
}

// relatedEntity 任务/互动的关联目标，二选一
type relatedEntity struct {
	prospect *models.Prospect
	member   *models.Member
}

func (e *relatedEntity) isMember() bool {
	return e.member != nil
}

func (e *relatedEntity) branch() models.Branch {
	if e.member != nil {
		return e.member.Branch
	}
	return e.prospect.Branch
}

// visibleTo 关联目标对操作者是否可见
func (e *relatedEntity) visibleTo(user models.User) bool {
	if e.member != nil {
		return MemberVisible(user, *e.member)
	}
	return ProspectVisible(user, *e.prospect)
}

// findRelatedEntity 加载任务关联目标，先查潜在客户再查会员
func findRelatedEntity(ctx context.Context, relatedTo string) (*relatedEntity, bool) {
	objID, err := primitive.ObjectIDFromHex(relatedTo)
	if err != nil {
		return nil, false
	}

	prospectsCollection := repository.Collection(repository.ProspectsCollection)
	var prospect models.Prospect
	if err := prospectsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&prospect); err == nil {
		return &relatedEntity{prospect: &prospect}, true
	}

	membersCollection := repository.Collection(repository.MembersCollection)
	var member models.Member
	if err := membersCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&member); err == nil {
		return &relatedEntity{member: &member}, true
	}

	return nil, false
}

// touchMemberLastAction 任务完成/互动登记时冗余更新会员的最近动作时间
func touchMemberLastAction(ctx context.Context, memberID string, now time.Time) {
	objID, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return
	}

	membersCollection := repository.Collection(repository.MembersCollection)
	_, err = membersCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"lastActionDate": now,
		"updatedAt":      now,
	}})
	if err != nil {
		utils.LogError(err, map[string]interface{}{"memberId": memberID}, "更新会员最近动作时间失败")
	}
}

// CreateTask 创建单个任务，关联目标必须存在且对操作者可见
func CreateTask(ctx context.Context, req models.TaskCreateRequest, status models.TaskStatus, result string, actor *utils.LoginUser) (*models.Task, error) {
	if !models.IsValidTaskType(req.Type) {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("tipo de tarea inválido: %s", req.Type))
	}

	entity, ok := findRelatedEntity(ctx, req.RelatedTo)
	if !ok || !entity.visibleTo(actor.AsUser()) {
		return nil, utils.CreateNotFoundError("Entidad relacionada")
	}

	task := models.Task{
		ID:         primitive.NewObjectID(),
		Title:      req.Title,
		Type:       req.Type,
		DateTime:   req.DateTime,
		Status:     status,
		RelatedTo:  req.RelatedTo,
		AssignedTo: req.AssignedTo,
		Result:     result,
	}

	collection := repository.Collection(repository.TasksCollection)
	if _, err := collection.InsertOne(ctx, task); err != nil {
		return nil, err
	}

	return &task, nil
}

// BulkCreateTasks 批量任务扇出。每个目标独立尝试，不可见或不存在的目标跳过，返回实际创建数
func BulkCreateTasks(ctx context.Context, req models.BulkTaskCreateRequest, actor *utils.LoginUser) (int, error) {
	if !models.IsValidTaskType(req.Type) {
		return 0, utils.CreateBadRequestError(fmt.Sprintf("tipo de tarea inválido: %s", req.Type))
	}

	user := actor.AsUser()
	collection := repository.Collection(repository.TasksCollection)
	created := 0

	for _, relatedID := range req.RelatedIDs {
		entity, ok := findRelatedEntity(ctx, relatedID)
		if !ok || !entity.visibleTo(user) {
			utils.LogInfo(map[string]interface{}{"relatedTo": relatedID}, "批量任务跳过不可见或不存在的目标")
			continue
		}

		task := models.Task{
			ID:         primitive.NewObjectID(),
			Title:      req.Title,
			Type:       req.Type,
			DateTime:   req.DateTime,
			Status:     models.TaskStatusPending,
			RelatedTo:  relatedID,
			AssignedTo: req.AssignedTo,
		}

		if _, err := collection.InsertOne(ctx, task); err != nil {
			utils.LogError(err, map[string]interface{}{"relatedTo": relatedID}, "批量任务单条创建失败")
			continue
		}
		created++
	}

	return created, nil
}

// ResolveTaskResult 计算任务完成时落库的结果文本
func ResolveTaskResult(status models.TaskStatus, result string) string {
	if status == models.TaskStatusDone && result == "" {
		return DefaultTaskResult
	}
	return result
}

// UpdateTaskStatus 任务状态流转，pendiente 与 hecha 可双向切换。
// 任务必须对操作者可见。切到 hecha 时：空结果写入占位文本；
// 关联目标是会员时冗余更新其最近动作时间。
func UpdateTaskStatus(ctx context.Context, id string, req models.TaskStatusRequest, actor *utils.LoginUser) (*models.Task, error) {
	if req.Status != models.TaskStatusPending && req.Status != models.TaskStatusDone {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("estado de tarea inválido: %s", req.Status))
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("ID de tarea inválido")
	}

	collection := repository.Collection(repository.TasksCollection)

	var task models.Task
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("Tarea")
		}
		return nil, err
	}

	user := actor.AsUser()
	entity, entityFound := findRelatedEntity(ctx, task.RelatedTo)
	branchByEntity := make(map[string]models.Branch, 1)
	if entityFound {
		branchByEntity[task.RelatedTo] = entity.branch()
	}
	if !TaskVisible(user, task, branchByEntity) {
		return nil, utils.CreateNotFoundError("Tarea")
	}

	task.Status = req.Status
	task.Result = ResolveTaskResult(req.Status, req.Result)

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status": task.Status,
		"result": task.Result,
	}}); err != nil {
		return nil, err
	}

	if req.Status == models.TaskStatusDone && entityFound && entity.isMember() {
		touchMemberLastAction(ctx, task.RelatedTo, time.Now())
	}

	return &task, nil
}

// LogInteraction 登记一次互动：同一动作写两条记录。
// 任务以已完成状态落库，互动记录是与之平行的只追加日志，二者都必须写入。
// 关联目标必须对操作者可见。
func LogInteraction(ctx context.Context, req models.LogInteractionRequest, actor *utils.LoginUser) (*models.Interaction, error) {
	if !models.IsValidTaskType(req.Type) {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("tipo de interacción inválido: %s", req.Type))
	}

	entity, ok := findRelatedEntity(ctx, req.RelatedTo)
	if !ok || !entity.visibleTo(actor.AsUser()) {
		return nil, utils.CreateNotFoundError("Entidad relacionada")
	}

	now := time.Now()

	task := models.Task{
		ID:         primitive.NewObjectID(),
		Title:      req.Summary,
		Type:       req.Type,
		DateTime:   now,
		Status:     models.TaskStatusDone,
		RelatedTo:  req.RelatedTo,
		AssignedTo: actor.ID,
		Result:     LoggedInteractionResult,
	}

	tasksCollection := repository.Collection(repository.TasksCollection)
	if _, err := tasksCollection.InsertOne(ctx, task); err != nil {
		return nil, err
	}

	interaction := models.Interaction{
		ID:        primitive.NewObjectID(),
		Date:      now,
		Type:      req.Type,
		Summary:   req.Summary,
		Result:    LoggedInteractionResult,
		DoneBy:    actor.ID,
		RelatedTo: req.RelatedTo,
	}

	interactionsCollection := repository.Collection(repository.InteractionsCollection)
	if _, err := interactionsCollection.InsertOne(ctx, interaction); err != nil {
		return nil, err
	}

	if entity.isMember() {
		touchMemberLastAction(ctx, req.RelatedTo, now)
	}

	return &interaction, nil
}
