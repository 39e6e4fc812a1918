package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port        int
	MongoURI    string
	MongoDB     string
	JWTKey      string
	SheetCSVURL string
	Debug       bool
}

// AppConfig 全局配置，LoadConfig 之后可用
var AppConfig *Config

// LoadConfig 从环境变量加载配置，优先读取 .env 文件
func LoadConfig() *Config {
	// .env 不存在时静默忽略
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	AppConfig = &Config{
		Port:        port,
		MongoURI:    getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:     getEnv("MONGO_DB", "sportclub_crm"),
		JWTKey:      getEnv("JWT_KEY", "your-secret-key"), // 实际环境应替换为安全密钥
		SheetCSVURL: getEnv("SHEET_CSV_URL", ""),
		Debug:       getEnv("GIN_MODE", "debug") == "debug",
	}
	return AppConfig
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
