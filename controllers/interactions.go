package controllers

import (
	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetInteractions 互动历史，按关联实体过滤，新的在前。
// 可见性与任务同一套规则：非admin只看到本分店实体或自己登记的互动。
func GetInteractions(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	filter := bson.M{}
	if relatedTo := c.Query("relatedTo"); relatedTo != "" {
		filter["relatedTo"] = relatedTo
	}

	collection := repository.Collection(repository.InteractionsCollection)
	cursor, err := collection.Find(c.Request.Context(), filter,
		options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(c.Request.Context())

	interactions := make([]models.Interaction, 0)
	if err := cursor.All(c.Request.Context(), &interactions); err != nil {
		utils.HandleError(c, err)
		return
	}

	branches, err := loadEntityBranches(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, service.VisibleInteractions(loginUser.AsUser(), interactions, branches), "")
}
