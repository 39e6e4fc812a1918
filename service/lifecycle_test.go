package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemberFromProspect(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	prospect := models.Prospect{
		ID:         primitive.NewObjectID(),
		Name:       "Ana Gomez",
		Phone:      "1122334455",
		Interest:   models.InterestPlus,
		AssignedTo: "seller-1",
		Branch:     models.BranchBarracas,
		DNI:        "30123456",
		Address:    "Calle Falsa 123",
		Notes:      "quiere arrancar en junio",
	}

	member := MemberFromProspect(prospect, GetPlanDetails(prospect.Interest), now)

	assert.Equal(t, "Ana Gomez", member.Name)
	assert.Equal(t, string(models.InterestPlus), member.Plan)
	assert.Equal(t, 8500.0, member.Fee)
	assert.Equal(t, now, member.StartDate)
	require.NotNil(t, member.LastActionDate)
	assert.Equal(t, now, *member.LastActionDate)
	assert.Equal(t, "seller-1", member.OriginalSeller)
	assert.Equal(t, models.BranchBarracas, member.Branch)
	assert.Equal(t, "30123456", member.DNI)
	assert.True(t, strings.HasPrefix(member.Notes, "Convertido desde prospecto. Notas originales: "))
	assert.True(t, strings.HasSuffix(member.Notes, "quiere arrancar en junio"))
}

func TestMemberFromProspectUnknownPlanFallback(t *testing.T) {
	prospect := models.Prospect{Interest: models.ProspectInterest("inexistente")}
	member := MemberFromProspect(prospect, GetPlanDetails(prospect.Interest), time.Now())
	assert.Equal(t, 7000.0, member.Fee)
}

func TestResolveTaskResult(t *testing.T) {
	assert.Equal(t, DefaultTaskResult, ResolveTaskResult(models.TaskStatusDone, ""))
	assert.Equal(t, "habló y va a pasar", ResolveTaskResult(models.TaskStatusDone, "habló y va a pasar"))
	// 重新打开不注入占位文本
	assert.Equal(t, "", ResolveTaskResult(models.TaskStatusPending, ""))
}

func TestProspectSensitiveRoundTrip(t *testing.T) {
	original := models.Prospect{
		DNI:     "30123456",
		Address: "Av. Siempre Viva 742",
		Notes:   "nota privada",
	}
	encoded := EncodeProspectSensitive(original)
	assert.NotEqual(t, original.DNI, encoded.DNI)
	assert.NotEqual(t, original.Notes, encoded.Notes)

	decoded := DecodeProspectSensitive(encoded)
	assert.Equal(t, original.DNI, decoded.DNI)
	assert.Equal(t, original.Address, decoded.Address)
	assert.Equal(t, original.Notes, decoded.Notes)
}

func TestMemberSensitiveLegacyPlaintext(t *testing.T) {
	// 历史明文数据解码后原样保留
	member := models.Member{DNI: "28999888", Notes: "sin codificar"}
	decoded := DecodeMemberSensitive(member)
	assert.Equal(t, "28999888", decoded.DNI)
	assert.Equal(t, "sin codificar", decoded.Notes)
}

func TestCreateProspectRejectsBadEmail(t *testing.T) {
	// 邮箱校验在任何数据库访问之前
	req := models.ProspectCreateRequest{
		Name:       "Ana Gomez",
		Email:      "no-es-un-email",
		AssignedTo: "seller-1",
	}
	actor := &utils.LoginUser{ID: primitive.NewObjectID().Hex(), Role: string(models.UserRoleADMIN)}

	prospect, err := CreateProspect(context.Background(), req, actor)

	require.Error(t, err)
	assert.Nil(t, prospect)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", apiErr.ErrorCode)
	assert.Contains(t, apiErr.Message, "email")
}

func TestUpdateProspectRejectsBadEmail(t *testing.T) {
	req := models.ProspectUpdateRequest{
		Name:       "Ana Gomez",
		Email:      "ana@@sportclub",
		Stage:      models.StageContacted,
		AssignedTo: "seller-1",
	}
	actor := &utils.LoginUser{ID: primitive.NewObjectID().Hex(), Role: string(models.UserRoleADMIN)}

	prospect, err := UpdateProspect(context.Background(), primitive.NewObjectID().Hex(), req, actor)

	require.Error(t, err)
	assert.Nil(t, prospect)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", apiErr.ErrorCode)
}

func TestTerminalStageGuard(t *testing.T) {
	assert.True(t, models.IsTerminalStage(models.StageWon))
	assert.True(t, models.IsTerminalStage(models.StageLost))
	assert.False(t, models.IsTerminalStage(models.StageNew))
	assert.False(t, models.IsTerminalStage(models.StageTrial))
}

func TestLifecycleConstants(t *testing.T) {
	// 这些文本会落库，改动等于数据迁移
	assert.Equal(t, "Completada sin resultado.", DefaultTaskResult)
	assert.Equal(t, "Interacción registrada manualmente.", LoggedInteractionResult)
	assert.Equal(t, "Error de descifrado", utils.DecodeFailedPlaceholder)
}
