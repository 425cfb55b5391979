package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "EchoBoard/internal/handler"
	"EchoBoard/internal/models"
	"EchoBoard/internal/service"
	"EchoBoard/pkg/backup"
	"EchoBoard/pkg/cache"
	"EchoBoard/pkg/config"
	"EchoBoard/pkg/i18n"
	"EchoBoard/pkg/logger"
	"EchoBoard/pkg/metrics"
	"EchoBoard/pkg/middleware"
	"EchoBoard/pkg/scheduler"
	"EchoBoard/pkg/search"
	stores "EchoBoard/pkg/storage"
	"EchoBoard/pkg/tts"
	"EchoBoard/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		os.Exit(1)
	}
	if err := migrate(db); err != nil {
		logger.Error("database migration failed", zap.Error(err))
		os.Exit(1)
	}

	store, err := stores.New(cfg.StorageBackend)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		os.Exit(1)
	}

	synth, err := tts.New(tts.Config{
		Provider: cfg.TTSProvider,
		Language: cfg.TTSLanguage,
		Voice:    cfg.TTSVoice,
		Timeout:  cfg.ExternalTimeout,
	}, logrus.New())
	if err != nil {
		logger.Error("tts init failed", zap.Error(err))
		os.Exit(1)
	}

	store = stores.WithMetrics(store)

	cacheStore, err := cache.NewCache(cache.Config{
		Type:  cfg.CacheType,
		Redis: cache.RedisConfig{Addr: cfg.RedisAddr},
	})
	if err != nil {
		logger.Error("cache init failed", zap.Error(err))
		os.Exit(1)
	}
	defer cacheStore.Close()

	soundboards := service.NewSoundboard(db, store, synth).
		WithCache(cacheStore).
		WithTimeout(cfg.ExternalTimeout)

	var index search.Engine
	if cfg.SearchEnabled {
		index, err = search.New(search.Config{IndexPath: cfg.SearchPath})
		if err != nil {
			logger.Error("search init failed", zap.Error(err))
			os.Exit(1)
		}
		defer index.Close()
		soundboards.WithSearch(index)
	}

	metrics.SetGlobal(metrics.NewMetrics("echoboard"))

	h := handlers.NewHandlers(db, soundboards, store)

	if cfg.LanguageEnabled {
		translator, err := i18n.NewI18nSupport("en")
		if err != nil {
			logger.Warn("i18n init failed", zap.Error(err))
		} else {
			h.WithTranslator(translator)
		}
	}

	engine := buildEngine(db)
	h.Register(engine)

	cr := scheduler.NewCron(nil)
	if err := backup.RegisterJobs(cr, db, store); err != nil {
		logger.Error("failed to register scheduled jobs", zap.Error(err))
		os.Exit(1)
	}
	cr.Start()
	defer cr.Stop()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: engine,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server startup failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func buildEngine(db *gorm.DB) *gin.Engine {
	cfg := config.GlobalConfig
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.Middleware(metrics.Global()))

	if cfg.RateLimit != "" {
		middleware.SetRateLimiterConfig(middleware.RateLimiterConfig{Rate: cfg.RateLimit})
		engine.Use(middleware.RateLimiter())
	}
	if cfg.LanguageEnabled {
		engine.Use(middleware.LanguageMiddleware())
	}
	engine.Use(middleware.Idempotency(5 * time.Minute))

	middleware.InitGeoIP(cfg.GeoIPPath)
	engine.Use(middleware.OperationLogMiddleware(db))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Soundboard{},
		&models.Profile{},
		&models.History{},
		&models.Feedback{},
		&models.Report{},
		&models.OperationLog{},
	)
}
