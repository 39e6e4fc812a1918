package utils

import (
	"testing"

	"github.com/sportclub/crm_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("admin123")
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, VerifyPassword("admin123", hash))
	assert.False(t, VerifyPassword("otra", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("clave-de-prueba")

	user := models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Laura",
		Email:  "laura@sportclub.local",
		Role:   models.UserRoleMANAGER,
		Branch: models.BranchParaguay,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims["id"])
	assert.Equal(t, "Laura", claims["name"])
	assert.Equal(t, "gerente", claims["role"])
	assert.Equal(t, "Paraguay", claims["branch"])
}

func TestParseTokenInvalid(t *testing.T) {
	InitJWT("clave-de-prueba")
	_, err := ParseToken("no-es-un-token")
	assert.Error(t, err)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@mail.com"))
	assert.False(t, IsValidEmail("sin-arroba"))
	assert.False(t, IsValidEmail("a@b"))
}
