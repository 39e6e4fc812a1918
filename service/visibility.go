package service

import (
	"github.com/sportclub/crm_backend/models"
)

// 可见性过滤器：所有读路径和写路径都必须先经过这里。
// 规则与角色表一一对应：admin 全量；gerente/visor 看本分店；vendedor 只看自己的。
// 过滤器本身从不报错，没有匹配记录就返回空集。
// 单条判定函数导出给写路径用：改目标记录之前先确认记录对操作者可见。

// VisibleProspects 过滤当前用户可见的潜在客户
func VisibleProspects(user models.User, prospects []models.Prospect) []models.Prospect {
	result := make([]models.Prospect, 0, len(prospects))
	for _, p := range prospects {
		if ProspectVisible(user, p) {
			result = append(result, p)
		}
	}
	return result
}

// ProspectVisible 单条潜在客户的可见性判定
func ProspectVisible(user models.User, p models.Prospect) bool {
	switch user.Role {
	case models.UserRoleADMIN:
		return true
	case models.UserRoleMANAGER, models.UserRoleVIEWER:
		return p.Branch == user.Branch
	case models.UserRoleSELLER:
		return p.AssignedTo == user.ID.Hex()
	}
	return false
}

// VisibleMembers 过滤当前用户可见的会员
func VisibleMembers(user models.User, members []models.Member) []models.Member {
	result := make([]models.Member, 0, len(members))
	for _, m := range members {
		if MemberVisible(user, m) {
			result = append(result, m)
		}
	}
	return result
}

// MemberVisible 单条会员的可见性判定
func MemberVisible(user models.User, m models.Member) bool {
	switch user.Role {
	case models.UserRoleADMIN:
		return true
	case models.UserRoleMANAGER, models.UserRoleVIEWER:
		return m.Branch == user.Branch
	case models.UserRoleSELLER:
		return m.OriginalSeller == user.ID.Hex()
	}
	return false
}

// VisibleTasks 过滤当前用户可见的任务。
// branchByEntity 是关联实体ID到分店的快照映射；找不到关联实体的任务对非admin不可见。
func VisibleTasks(user models.User, tasks []models.Task, branchByEntity map[string]models.Branch) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if TaskVisible(user, t, branchByEntity) {
			result = append(result, t)
		}
	}
	return result
}

// TaskVisible 单条任务的可见性判定
func TaskVisible(user models.User, t models.Task, branchByEntity map[string]models.Branch) bool {
	switch user.Role {
	case models.UserRoleADMIN:
		return true
	case models.UserRoleMANAGER, models.UserRoleVIEWER:
		branch, ok := branchByEntity[t.RelatedTo]
		return ok && branch == user.Branch
	case models.UserRoleSELLER:
		return t.AssignedTo == user.ID.Hex()
	}
	return false
}

// VisibleInteractions 过滤当前用户可见的互动记录。
// 与任务同一套规则：gerente/visor 按关联实体的分店，vendedor 看自己登记的。
func VisibleInteractions(user models.User, interactions []models.Interaction, branchByEntity map[string]models.Branch) []models.Interaction {
	result := make([]models.Interaction, 0, len(interactions))
	for _, i := range interactions {
		if InteractionVisible(user, i, branchByEntity) {
			result = append(result, i)
		}
	}
	return result
}

// InteractionVisible 单条互动记录的可见性判定
func InteractionVisible(user models.User, i models.Interaction, branchByEntity map[string]models.Branch) bool {
	switch user.Role {
	case models.UserRoleADMIN:
		return true
	case models.UserRoleMANAGER, models.UserRoleVIEWER:
		branch, ok := branchByEntity[i.RelatedTo]
		return ok && branch == user.Branch
	case models.UserRoleSELLER:
		return i.DoneBy == user.ID.Hex()
	}
	return false
}

// 写权限比读可见性更严格：visor 永远只读。

// CanMutateRecords 是否可以写入潜在客户/会员/任务
func CanMutateRecords(role models.UserRole) bool {
	switch role {
	case models.UserRoleADMIN, models.UserRoleMANAGER, models.UserRoleSELLER:
		return true
	}
	return false
}

// CanManage 是否是管理角色（改派、用户管理、目标设置、导入）
func CanManage(role models.UserRole) bool {
	return role == models.UserRoleADMIN || role == models.UserRoleMANAGER
}

// CanAssignTo 检查用户是否可以把记录分配给目标销售。
// vendedor 只能分配给自己，管理角色不受限。
func CanAssignTo(user models.User, sellerID string) bool {
	if CanManage(user.Role) {
		return true
	}
	if user.Role == models.UserRoleSELLER {
		return sellerID == user.ID.Hex()
	}
	return false
}
