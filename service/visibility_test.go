package service

import (
	"testing"

	"github.com/sportclub/crm_backend/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(role models.UserRole, branch models.Branch) models.User {
	return models.User{
		ID:     primitive.NewObjectID(),
		Role:   role,
		Branch: branch,
	}
}

func sampleProspects(sellerID string) []models.Prospect {
	return []models.Prospect{
		{Name: "A", Branch: models.BranchParaguay, AssignedTo: sellerID},
		{Name: "B", Branch: models.BranchBarracas, AssignedTo: "otro"},
		{Name: "C", Branch: models.BranchParaguay, AssignedTo: "otro"},
	}
}

func TestAdminSeesAllProspects(t *testing.T) {
	admin := newUser(models.UserRoleADMIN, models.BranchGeneral)
	visible := VisibleProspects(admin, sampleProspects("x"))
	assert.Len(t, visible, 3)
}

func TestManagerSeesOwnBranchOnly(t *testing.T) {
	manager := newUser(models.UserRoleMANAGER, models.BranchParaguay)
	visible := VisibleProspects(manager, sampleProspects("x"))
	assert.Len(t, visible, 2)
	for _, p := range visible {
		assert.Equal(t, models.BranchParaguay, p.Branch)
	}
}

func TestViewerSameScopeAsManager(t *testing.T) {
	branch := models.BranchBarracas
	manager := newUser(models.UserRoleMANAGER, branch)
	viewer := newUser(models.UserRoleVIEWER, branch)
	prospects := sampleProspects("x")
	assert.Equal(t,
		len(VisibleProspects(manager, prospects)),
		len(VisibleProspects(viewer, prospects)))
}

func TestSellerSeesOwnAssignmentsOnly(t *testing.T) {
	seller := newUser(models.UserRoleSELLER, models.BranchParaguay)
	visible := VisibleProspects(seller, sampleProspects(seller.ID.Hex()))
	assert.Len(t, visible, 1)
	assert.Equal(t, "A", visible[0].Name)
}

func TestSellerSeesMembersByOriginalSeller(t *testing.T) {
	seller := newUser(models.UserRoleSELLER, models.BranchDiagonal)
	members := []models.Member{
		{Name: "M1", Branch: models.BranchDiagonal, OriginalSeller: seller.ID.Hex()},
		{Name: "M2", Branch: models.BranchDiagonal, OriginalSeller: "otro"},
	}
	visible := VisibleMembers(seller, members)
	assert.Len(t, visible, 1)
	assert.Equal(t, "M1", visible[0].Name)
}

func TestTaskVisibilityFollowsRelatedEntity(t *testing.T) {
	manager := newUser(models.UserRoleMANAGER, models.BranchTribunales)
	tasks := []models.Task{
		{Title: "T1", RelatedTo: "p1"},
		{Title: "T2", RelatedTo: "p2"},
		{Title: "T3", RelatedTo: "huérfana"},
	}
	branches := map[string]models.Branch{
		"p1": models.BranchTribunales,
		"p2": models.BranchParaguay,
	}

	visible := VisibleTasks(manager, tasks, branches)
	assert.Len(t, visible, 1)
	assert.Equal(t, "T1", visible[0].Title)

	// 找不到关联实体的任务只有admin能看到
	admin := newUser(models.UserRoleADMIN, models.BranchGeneral)
	assert.Len(t, VisibleTasks(admin, tasks, branches), 3)
}

func TestSellerTaskVisibilityByAssignee(t *testing.T) {
	seller := newUser(models.UserRoleSELLER, models.BranchParaguay)
	tasks := []models.Task{
		{Title: "mía", AssignedTo: seller.ID.Hex()},
		{Title: "ajena", AssignedTo: "otro"},
	}
	visible := VisibleTasks(seller, tasks, nil)
	assert.Len(t, visible, 1)
	assert.Equal(t, "mía", visible[0].Title)
}

func TestInteractionVisibilityFollowsRelatedEntity(t *testing.T) {
	interactions := []models.Interaction{
		{Summary: "I1", RelatedTo: "p1", DoneBy: "otro"},
		{Summary: "I2", RelatedTo: "p2", DoneBy: "otro"},
	}
	branches := map[string]models.Branch{
		"p1": models.BranchTribunales,
		"p2": models.BranchParaguay,
	}

	manager := newUser(models.UserRoleMANAGER, models.BranchTribunales)
	visible := VisibleInteractions(manager, interactions, branches)
	assert.Len(t, visible, 1)
	assert.Equal(t, "I1", visible[0].Summary)

	admin := newUser(models.UserRoleADMIN, models.BranchGeneral)
	assert.Len(t, VisibleInteractions(admin, interactions, branches), 2)
}

func TestSellerInteractionVisibilityByAuthor(t *testing.T) {
	seller := newUser(models.UserRoleSELLER, models.BranchParaguay)
	interactions := []models.Interaction{
		{Summary: "mía", DoneBy: seller.ID.Hex()},
		{Summary: "ajena", DoneBy: "otro"},
	}
	visible := VisibleInteractions(seller, interactions, nil)
	assert.Len(t, visible, 1)
	assert.Equal(t, "mía", visible[0].Summary)
}

func TestViewerCannotMutate(t *testing.T) {
	assert.False(t, CanMutateRecords(models.UserRoleVIEWER))
	assert.True(t, CanMutateRecords(models.UserRoleADMIN))
	assert.True(t, CanMutateRecords(models.UserRoleMANAGER))
	assert.True(t, CanMutateRecords(models.UserRoleSELLER))
}

func TestCanManage(t *testing.T) {
	assert.True(t, CanManage(models.UserRoleADMIN))
	assert.True(t, CanManage(models.UserRoleMANAGER))
	assert.False(t, CanManage(models.UserRoleSELLER))
	assert.False(t, CanManage(models.UserRoleVIEWER))
}

func TestSellerCanOnlyAssignToSelf(t *testing.T) {
	seller := newUser(models.UserRoleSELLER, models.BranchParaguay)
	assert.True(t, CanAssignTo(seller, seller.ID.Hex()))
	assert.False(t, CanAssignTo(seller, "otro"))

	manager := newUser(models.UserRoleMANAGER, models.BranchParaguay)
	assert.True(t, CanAssignTo(manager, "cualquiera"))

	viewer := newUser(models.UserRoleVIEWER, models.BranchParaguay)
	assert.False(t, CanAssignTo(viewer, viewer.ID.Hex()))
}
