package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homophone_dict/internal/api/handlers"
	"homophone_dict/internal/middleware"
	"homophone_dict/internal/ratelimit"
	"homophone_dict/internal/service"
)

// Deps 路由需要的基礎設施
type Deps struct {
	Limiter         ratelimit.Limiter // nil 表示不限流
	Presets         ratelimit.Presets
	Logger          *logrus.Logger
	AllowedOrigins  []string
	RetentionMonths int
}

func SetupRoutes(r *gin.Engine, services *service.Services, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	handlers.RegisterValidators()

	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	translationHandler := handlers.NewTranslationHandler(services.Lookup, services.Stats)
	categoryHandler := handlers.NewCategoryHandler(services.Category)
	entryHandler := handlers.NewEntryHandler(services.Entry)
	homophoneHandler := handlers.NewHomophoneHandler(services.Homophone)
	historyHandler := handlers.NewHistoryHandler(services.History, deps.RetentionMonths)
	userHandler := handlers.NewUserHandler(services.User, services.Permission)
	adminHandler := handlers.NewAdminHandler(services.Stats, services.Config)
	wsHandler := handlers.NewWebSocketHandler(services.AuditHub, deps.AllowedOrigins)

	limit := func(rule ratelimit.Rule) gin.HandlerFunc {
		if deps.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(deps.Limiter, rule, deps.Logger)
	}

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
			"code":  service.CodeNotFound,
		})
	})

	api := r.Group("/api")

	// 公開路由
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		auth := api.Group("/auth", limit(deps.Presets.Auth))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 查詢可匿名使用，有 token 時記錄查詢歷史
		translation := api.Group("/translation")
		{
			translation.GET("/search", middleware.OptionalAuth(services.User), limit(deps.Presets.Search), translationHandler.Search)
			translation.GET("/categories/:id/top", translationHandler.TopByCategory)
		}
		api.GET("/stats/top-words", translationHandler.TopWords)

		api.GET("/categories", categoryHandler.GetAll)
		api.GET("/categories/:id/children", categoryHandler.GetChildren)
		api.GET("/categories/:id/path", categoryHandler.GetPath)

		api.GET("/entries/:id", entryHandler.Get)
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(services.User))
	{
		authorized.GET("/me", authHandler.Me)

		history := authorized.Group("/history")
		{
			history.GET("", historyHandler.List)
			history.DELETE("", historyHandler.Clear)
			history.DELETE("/:id", historyHandler.Delete)
			history.GET("/insights", historyHandler.Insights)
		}

		authorized.POST("/homophones", limit(deps.Presets.Submit), homophoneHandler.Submit)

		// 審核
		audits := authorized.Group("/audits")
		{
			audits.GET("/pending", homophoneHandler.Pending)
			audits.POST("/:id", homophoneHandler.Audit)
		}
	}

	// 管理員路由
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(services.User), limit(deps.Presets.Admin))
	{
		admin.GET("/entries", entryHandler.List)
		admin.POST("/entries", entryHandler.Create)
		admin.PUT("/entries/:id", entryHandler.Update)
		admin.DELETE("/entries/:id", entryHandler.Delete)
		admin.GET("/entries/:id/homophones", homophoneHandler.ListByEntry)
		admin.DELETE("/homophones/:id", homophoneHandler.Delete)

		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.GET("/users/:id", userHandler.Get)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)
		admin.POST("/users/:id/toggle", userHandler.ToggleDisabled)
		admin.GET("/users/:id/permissions", userHandler.ListPermissions)
		admin.POST("/users/:id/permissions", userHandler.GrantPermission)
		admin.DELETE("/users/:id/permissions/:categoryId", userHandler.RevokePermission)

		admin.GET("/unrecorded", adminHandler.UnrecordedWords)
		admin.DELETE("/unrecorded/:id", adminHandler.DeleteUnrecordedWord)
		admin.GET("/config/:key", adminHandler.GetConfig)
		admin.PUT("/config/:key", adminHandler.SetConfig)
		admin.DELETE("/history", historyHandler.Purge)
	}

	// 瀏覽器的 WebSocket 無法帶 Authorization 標頭，改由 ?token= 傳入
	api.GET("/ws/audits", middleware.TokenFromQuery(), middleware.AuthMiddleware(services.User), wsHandler.HandleAudits)
}
