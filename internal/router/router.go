package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/handler"
	"github.com/fahimunoffice-stack/her-well-being/internal/middleware"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	"github.com/fahimunoffice-stack/her-well-being/internal/service"
	"github.com/fahimunoffice-stack/her-well-being/pkg/config"
	"github.com/fahimunoffice-stack/her-well-being/pkg/logger"
	corsmiddleware "github.com/fahimunoffice-stack/her-well-being/pkg/middleware/cors"
	reqidmiddleware "github.com/fahimunoffice-stack/her-well-being/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Session   *handler.SessionHandler
	Setup     *handler.SetupHandler
	Orders    *handler.OrderHandler
	Presets   *handler.PresetHandler
	Analytics *handler.AnalyticsHandler
	Ebooks    *handler.EbookHandler
	Media     *handler.MediaHandler
	Content   *handler.ContentHandler
	Landing   *handler.LandingHandler
	Metrics   *handler.MetricsHandler
	// Storage is nil unless the local storage driver is active.
	Storage *handler.StorageHandler
}

// Dependencies are the middleware collaborators.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Tokens  middleware.TokenValidator
	Gate    middleware.GateChecker
	Audit   middleware.AuditRecorder
	Metrics *service.MetricsService
}

// New builds the gin engine with every route mounted.
func New(deps Dependencies, h Handlers) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if h.Storage != nil {
		objects := r.Group("/storage/v1/object")
		objects.GET("/public/:bucket/*path", h.Storage.Public)
		objects.GET("/sign/:bucket/*path", h.Storage.Signed)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.GET("/landing", h.Landing.Page)
	api.POST("/orders", h.Orders.Submit)
	api.POST("/setup-admin", h.Setup.ProvisionAdmin)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	secured := auth.Group("")
	secured.Use(middleware.JWT(deps.Tokens))
	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/me", h.Auth.Me)
	secured.POST("/change-password", h.Auth.ChangePassword)

	// The gate state itself is readable by anyone; it reports where to go.
	api.GET("/admin/session", h.Session.Status)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminGate(deps.Gate))
	admin.GET("/session/events", h.Session.Events)

	orders := admin.Group("/orders")
	orders.GET("", h.Orders.List)
	orders.GET("/pending", h.Orders.Pending)
	orders.GET("/export", middleware.Audit(deps.Audit, deps.Logger, models.AuditActionOrdersExport, "orders"), h.Orders.Export)
	orders.POST("/bulk-status", h.Orders.BulkUpdateStatus)
	orders.DELETE("", h.Orders.DeleteAll)
	orders.PATCH("/:id/status", h.Orders.UpdateStatus)
	orders.PATCH("/:id/ebook", h.Orders.AssignEbook)
	orders.PATCH("/:id/notes", h.Orders.UpdateNotes)
	orders.POST("/:id/download", h.Orders.DownloadLink)

	presets := admin.Group("/order-presets")
	presets.GET("", h.Presets.List)
	presets.POST("", middleware.Audit(deps.Audit, deps.Logger, models.AuditActionPresetSave, "order_presets"), h.Presets.Create)
	presets.DELETE("/:id", middleware.Audit(deps.Audit, deps.Logger, models.AuditActionPresetDelete, "order_presets"), h.Presets.Delete)

	admin.GET("/analytics", h.Analytics.Orders)
	admin.GET("/logs", h.Analytics.Activity)

	ebooks := admin.Group("/ebooks")
	ebooks.GET("", h.Ebooks.List)
	ebooks.POST("", h.Ebooks.Upload)
	ebooks.POST("/download-link", h.Ebooks.DownloadLink)

	media := admin.Group("/media")
	media.GET("", h.Media.List)
	media.POST("", h.Media.Upload)
	media.DELETE("", h.Media.Remove)

	content := admin.Group("/content")
	content.GET("", h.Content.All)
	content.GET("/:key", h.Content.Get)
	content.PUT("/:key", h.Content.Save)
	admin.PUT("/settings", h.Content.SaveSettings)

	return r
}
