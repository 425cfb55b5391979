package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv 按环境加载 .env 文件（.env.development / .env.production）
func LoadEnv(env string) error {
	candidates := []string{
		fmt.Sprintf(".env.%s", env),
		".env",
	}
	var lastErr error
	for _, name := range candidates {
		if _, err := os.Stat(name); err != nil {
			lastErr = err
			continue
		}
		return godotenv.Load(name)
	}
	return lastErr
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault 读取环境变量，为空时返回默认值
func GetEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

func GetBoolEnv(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || cast.ToBool(v)
}
