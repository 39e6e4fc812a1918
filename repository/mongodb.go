package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	UsersCollection            = "users"
	ProspectsCollection        = "prospects"
	MembersCollection          = "members"
	TasksCollection            = "tasks"
	InteractionsCollection     = "interactions"
	GoalsCollection            = "goals"
	SystemConfigsCollection    = "systemConfigs"
	ApiOperationLogsCollection = "apiOperationLogs"
)

var (
	client *mongo.Client
	db     *mongo.Database
	ctx    = context.Background()
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(uri, dbName string) error {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	clientOptions := options.Client().ApplyURI(uri)
	client, err = mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("conectar a MongoDB falló: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping a MongoDB falló: %w", err)
	}

	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	return nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB() {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
			return
		}
		utils.Logger.Info().Msg("已断开MongoDB连接")
	}
}

// InitializeCollections 初始化数据库集合
func InitializeCollections() error {
	collections := []string{
		UsersCollection,
		ProspectsCollection,
		MembersCollection,
		TasksCollection,
		InteractionsCollection,
		GoalsCollection,
		SystemConfigsCollection,
		ApiOperationLogsCollection,
	}

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("listar colecciones falló: %w", err)
	}

	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}

	for _, collName := range collections {
		if existingSet[collName] {
			continue
		}
		if err := db.CreateCollection(ctx, collName); err != nil {
			return fmt.Errorf("crear colección %s falló: %w", collName, err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}

	return nil
}

// InitializeAdminAccount 初始化管理员账户
func InitializeAdminAccount() error {
	usersCollection := db.Collection(UsersCollection)

	count, err := usersCollection.CountDocuments(ctx, bson.M{"role": models.UserRoleADMIN})
	if err != nil {
		return fmt.Errorf("buscar cuenta admin falló: %w", err)
	}

	// 已存在则跳过
	if count > 0 {
		utils.Logger.Info().Msg("管理员账户已存在，跳过创建")
		return nil
	}

	now := time.Now()
	adminUser := models.User{
		Name:      "Admin",
		Email:     "admin@sportclub.local",
		Password:  utils.HashPassword("admin123"),
		Role:      models.UserRoleADMIN,
		Branch:    models.BranchGeneral,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = usersCollection.InsertOne(ctx, adminUser)
	if err != nil {
		return fmt.Errorf("crear cuenta admin falló: %w", err)
	}

	utils.Logger.Info().Msg("已创建默认管理员账户")
	return nil
}

// ExecuteDbOperation 执行数据库操作，提供错误处理和重试机制
func ExecuteDbOperation(operation func() (interface{}, error), retries int) (interface{}, error) {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		if !isRetryableError(err) {
			break
		}

		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	return nil, lastErr
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	// MongoDB可重试错误代码
	retryableCodes := map[int]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
	}

	if cmdErr, ok := err.(mongo.CommandError); ok {
		return retryableCodes[int(cmdErr.Code)]
	}

	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// FindUserByID 根据ID查找用户
func FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("formato de ID inválido: %w", err)
	}

	var user models.User
	err = db.Collection(UsersCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("Usuario")
		}
		return nil, err
	}

	return &user, nil
}

// GetContext 返回MongoDB操作的上下文
func GetContext() context.Context {
	return ctx
}

// SetDatabase 注入数据库句柄，供使用mock部署的测试替换连接
func SetDatabase(d *mongo.Database) {
	db = d
}

// Collection 返回指定名称的集合
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus() (map[string]interface{}, error) {
	collections := []string{
		UsersCollection,
		ProspectsCollection,
		MembersCollection,
		TasksCollection,
		InteractionsCollection,
		GoalsCollection,
	}

	result := make(map[string]interface{})
	for _, collName := range collections {
		count, err := db.Collection(collName).CountDocuments(ctx, bson.M{})
		if err != nil {
			result[collName] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[collName] = map[string]interface{}{"count": count}
	}

	return result, nil
}
