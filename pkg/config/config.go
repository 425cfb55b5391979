package config

import (
	"log"
	"os"
	"time"

	"EchoBoard/pkg/logger"
	"EchoBoard/pkg/util"
)

type Config struct {
	DBDriver    string `env:"DB_DRIVER"`
	DSN         string `env:"DSN"`
	Addr        string `env:"ADDR"`
	Mode        string `env:"MODE"`
	APIPrefix   string `env:"API_PREFIX"`
	AdminPrefix string `env:"ADMIN_PREFIX"`

	Log logger.LogConfig

	// 对象存储
	StorageBackend string `env:"STORAGE_BACKEND"` // minio | cos
	StorageBucket  string `env:"STORAGE_BUCKET"`

	// 语音合成
	TTSProvider string `env:"TTS_PROVIDER"` // google | openai | edge
	TTSLanguage string `env:"TTS_LANGUAGE"`
	TTSVoice    string `env:"TTS_VOICE"`

	// 外部调用超时
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT"`

	CacheType string `env:"CACHE_TYPE"`
	RedisAddr string `env:"REDIS_ADDR"`

	RateLimit       string `env:"RATE_LIMIT"` // e.g. "100-M"
	LanguageEnabled bool   `env:"LANGUAGE_ENABLED"`
	GeoIPPath       string `env:"GEOIP_DB_PATH"`

	SearchEnabled bool   `env:"SEARCH_ENABLED"`
	SearchPath    string `env:"SEARCH_PATH"`

	BackupEnabled  bool   `env:"BACKUP_ENABLED"`
	BackupPath     string `env:"BACKUP_PATH"`
	BackupSchedule string `env:"BACKUP_SCHEDULE"`
	SweepSchedule  string `env:"SWEEP_SCHEDULE"`
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development" // 默认使用开发环境
	}
	err := util.LoadEnv(env)
	if err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		DBDriver:    util.GetEnv("DB_DRIVER"),
		DSN:         util.GetEnv("DSN"),
		Addr:        util.GetEnvDefault("ADDR", ":8080"),
		Mode:        util.GetEnv("MODE"),
		APIPrefix:   util.GetEnvDefault("API_PREFIX", "/"),
		AdminPrefix: util.GetEnv("ADMIN_PREFIX"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		StorageBackend:  util.GetEnvDefault("STORAGE_BACKEND", "minio"),
		StorageBucket:   util.GetEnv("STORAGE_BUCKET"),
		TTSProvider:     util.GetEnvDefault("TTS_PROVIDER", "google"),
		TTSLanguage:     util.GetEnvDefault("TTS_LANGUAGE", "id-ID"),
		TTSVoice:        util.GetEnv("TTS_VOICE"),
		ExternalTimeout: externalTimeout(),
		CacheType:       util.GetEnvDefault("CACHE_TYPE", "local"),
		RedisAddr:       util.GetEnv("REDIS_ADDR"),
		RateLimit:       util.GetEnv("RATE_LIMIT"),
		LanguageEnabled: util.GetBoolEnv("LANGUAGE_ENABLED"),
		GeoIPPath:       util.GetEnv("GEOIP_DB_PATH"),
		SearchEnabled:   util.GetBoolEnv("SEARCH_ENABLED"),
		SearchPath:      util.GetEnv("SEARCH_PATH"),
		BackupEnabled:   util.GetBoolEnv("BACKUP_ENABLED"),
		BackupPath:      util.GetEnv("BACKUP_PATH"),
		BackupSchedule:  util.GetEnv("BACKUP_SCHEDULE"),
		SweepSchedule:   util.GetEnv("SWEEP_SCHEDULE"),
	}
	return nil
}

func externalTimeout() time.Duration {
	if secs := util.GetIntEnv("EXTERNAL_TIMEOUT"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 15 * time.Second
}
