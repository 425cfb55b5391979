package handlers

import (
	"time"

	"EchoBoard/internal/models"
	"EchoBoard/internal/service"
	"EchoBoard/pkg/config"
	"EchoBoard/pkg/i18n"
	stores "EchoBoard/pkg/storage"
	"EchoBoard/pkg/webobject"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db          *gorm.DB
	soundboards *service.Soundboard
	store       stores.Store
	translator  *i18n.I18nSupport
	startedAt   time.Time
}

func NewHandlers(db *gorm.DB, soundboards *service.Soundboard, store stores.Store) *Handlers {
	return &Handlers{
		db:          db,
		soundboards: soundboards,
		store:       store,
		startedAt:   time.Now(),
	}
}

// WithTranslator 设置国际化支持
func (h *Handlers) WithTranslator(t *i18n.I18nSupport) *Handlers {
	h.translator = t
	return h
}

func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/", h.handleBanner)
	engine.GET("/health", h.HealthCheck)

	r := engine.Group(config.GlobalConfig.APIPrefix)

	// Register System Module Routes
	h.registerSystemRoutes(r)

	// Register Business Module Routes
	h.registerSoundboardRoutes(r)
	h.registerHistoryRoutes(r)
	h.registerProfileRoutes(r)
	h.registerFeedbackRoutes(r)
	h.registerReportRoutes(r)

	if config.GlobalConfig.AdminPrefix != "" {
		admin := r.Group(config.GlobalConfig.AdminPrefix)
		h.RegisterAdmin(admin)
	}
}

// Soundboard Module
func (h *Handlers) registerSoundboardRoutes(r *gin.RouterGroup) {
	boards := r.Group("soundboards")
	{
		boards.POST("", h.handleCreateSoundboard)

		if config.GlobalConfig.SearchEnabled {
			boards.GET("/search", h.handleSearchSoundboards)
		}

		boards.GET("/:email", h.handleListSoundboards)

		boards.DELETE("/:id", h.handleDeleteSoundboard)
	}
}

func (h *Handlers) registerHistoryRoutes(r *gin.RouterGroup) {
	history := r.Group("history")
	{
		history.POST("", h.handleCreateHistory)

		history.GET("", h.handleListHistory)

		history.GET("/:id", h.handleGetHistory)

		history.DELETE("/:id", h.handleDeleteHistory)
	}
}

func (h *Handlers) registerProfileRoutes(r *gin.RouterGroup) {
	profile := r.Group("profile")
	{
		profile.POST("", h.handleCreateProfile)

		profile.GET("/:email", h.handleGetProfile)

		profile.PUT("/:email", h.handleUpdateProfile)
	}
}

func (h *Handlers) registerFeedbackRoutes(r *gin.RouterGroup) {
	r.POST("feedback", h.handleCreateFeedback)
}

func (h *Handlers) registerReportRoutes(r *gin.RouterGroup) {
	report := r.Group("report")
	{
		report.POST("", h.handleCreateReport)

		report.GET("", h.handleListReports)
	}
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("system")
	{
		system.POST("/rate-limiter/config", h.UpdateRateLimiterConfig)

		system.GET("/health", h.HealthCheck)

		system.GET("/stats", h.SystemStats)
	}
}

// RegisterAdmin 注册通用后台 CRUD 路由
func (h *Handlers) RegisterAdmin(router *gin.RouterGroup) {
	objs := []webobject.WebObject{
		{
			Model:      models.Soundboard{},
			Name:       "soundboard",
			Desc:       "合成音频卡片",
			Orderables: []string{"CreatedAt"},
		},
		{
			Model:      models.Report{},
			Name:       "report",
			Desc:       "举报",
			Orderables: []string{"CreatedAt"},
		},
		{
			Model:      models.Feedback{},
			Name:       "feedback",
			Desc:       "评价",
			Orderables: []string{"CreatedAt"},
		},
	}
	webobject.RegisterObjects(router, h.db, objs)
}
