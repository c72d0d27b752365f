package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/strategiq/website-backend/config"
	"github.com/strategiq/website-backend/controllers"
	"github.com/strategiq/website-backend/middleware"
	"github.com/strategiq/website-backend/repository"
	"github.com/strategiq/website-backend/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with a file-based zap access log
	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.AdminTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record marketing page views after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	store := repository.NewGormStore(db)
	contactController := controllers.NewContactController(store)
	newsletterController := controllers.NewNewsletterController(store)
	fileController := controllers.NewFileController(store, cfg)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api")

	// Public lead-capture endpoints, throttled per IP
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/contact", contactController.SubmitContact)
	public.POST("/newsletter", newsletterController.Subscribe)

	// Everything below requires the shared admin secret
	admin := api.Group("")
	admin.Use(middleware.AdminRequired(cfg.AdminToken))
	admin.GET("/contacts", contactController.ListContacts)
	admin.DELETE("/contacts/:id", contactController.DeleteContact)
	admin.GET("/newsletter/subscribers", newsletterController.ListSubscribers)
	admin.POST("/files", fileController.Upload)
	admin.GET("/files", fileController.ListFiles)
	admin.GET("/files/:id/download", fileController.Download)
	admin.DELETE("/files/:id", fileController.Delete)
	admin.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Fail(ctx, http.StatusNotFound, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Other paths (e.g. /pricing, /blog/why-ai) fall back to the SPA entry
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
