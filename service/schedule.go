package service

import (
	"context"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 自动同步调度器：每30分钟检查一次，距上次同步超过12小时才真正执行。
// 时间戳在拉取之前写入，充当运行锁：多实例或拉取崩溃都不会导致反复重拉。

const (
	autoSyncCheckInterval = 30 * time.Minute
	autoSyncThreshold     = 12 * time.Hour
	// systemActorID 自动同步写入记录时的操作者标识
	systemActorID = "system"
)

// GetLastAutoImport 读取上次自动同步时间，没有记录时返回nil
func GetLastAutoImport(ctx context.Context) (*time.Time, error) {
	collection := repository.Collection(repository.SystemConfigsCollection)

	var config models.SystemConfig
	err := collection.FindOne(ctx, bson.M{"configType": models.ConfigTypeLastAutoImport}).Decode(&config)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	switch v := config.Value.(type) {
	case time.Time:
		return &v, nil
	case primitive.DateTime:
		t := v.Time()
		return &t, nil
	}
	return nil, nil
}

// SetLastAutoImport 持久化同步时间戳
func SetLastAutoImport(ctx context.Context, t time.Time) error {
	collection := repository.Collection(repository.SystemConfigsCollection)

	_, err := collection.UpdateOne(ctx,
		bson.M{"configType": models.ConfigTypeLastAutoImport},
		bson.M{"$set": bson.M{"value": t, "updatedAt": t}},
		options.Update().SetUpsert(true))
	return err
}

// listSellerIDs 全部销售的ID，用于自动同步的轮询分配
func listSellerIDs(ctx context.Context) ([]string, error) {
	collection := repository.Collection(repository.UsersCollection)

	cursor, err := collection.Find(ctx, bson.M{"role": models.UserRoleSELLER})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		ids = append(ids, user.ID.Hex())
	}
	return ids, cursor.Err()
}

// SyncNow 立即执行一次同步。
// 锁时间戳先写再拉取，拉取失败时不回滚锁，下一个窗口再试。
func SyncNow(ctx context.Context, sheetURL string) (*models.ImportResult, error) {
	if err := SetLastAutoImport(ctx, time.Now()); err != nil {
		return nil, err
	}

	csvText, err := FetchSheetCSV(ctx, sheetURL)
	if err != nil {
		return nil, err
	}

	sellerIDs, err := listSellerIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(sellerIDs) == 0 {
		return nil, utils.CreateBadRequestError("no hay vendedores para asignar los leads")
	}

	return RunImport(ctx, csvText, models.ImportAssignRoundRobin, sellerIDs, nil, systemActorID)
}

// ShouldAutoSync 判断是否到达同步窗口
func ShouldAutoSync(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) >= autoSyncThreshold
}

// StartAutoSyncScheduler 启动后台同步循环，ctx取消时退出
func StartAutoSyncScheduler(ctx context.Context, sheetURL string) {
	if sheetURL == "" {
		utils.Logger.Info().Msg("未配置表格URL，自动同步未启动")
		return
	}

	go func() {
		ticker := time.NewTicker(autoSyncCheckInterval)
		defer ticker.Stop()

		utils.Logger.Info().Msg("自动同步调度器已启动")

		runIfDue := func() {
			last, err := GetLastAutoImport(ctx)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("读取同步时间戳失败")
				return
			}
			if !ShouldAutoSync(last, time.Now()) {
				return
			}

			result, err := SyncNow(ctx, sheetURL)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("自动同步失败")
				return
			}
			utils.Logger.Info().
				Int("created", result.Created).
				Int("duplicates", result.Duplicates).
				Int("incomplete", result.Incomplete).
				Msg("自动同步完成")
		}

		runIfDue()
		for {
			select {
			case <-ctx.Done():
				utils.Logger.Info().Msg("自动同步调度器已停止")
				return
			case <-ticker.C:
				runIfDue()
			}
		}
	}()
}
