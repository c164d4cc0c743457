package router

import (
	"context"
	"fmt"
	"time"

	"dualshot/config"
	"dualshot/internal/handler"
	"dualshot/internal/repository"
	"dualshot/internal/service"
	dbPkg "dualshot/pkg/db"
	"dualshot/pkg/jwt"
	"dualshot/pkg/logger"
	"dualshot/pkg/metrics"
	"dualshot/pkg/ratelimit"
	"dualshot/pkg/redis"
	"dualshot/pkg/response"
	"dualshot/pkg/stitch"
	"dualshot/pkg/storage"
	"dualshot/pkg/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version 服务版本
const Version = "1.0.0"

// Deps 组装路由所需的外部资源
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client // 未启用时为 nil
	Hub     *websocket.Hub
	Metrics *metrics.Metrics
}

// App 组装好的服务
type App struct {
	Engine  *gin.Engine
	JWT     *jwt.JWTService
	Posts   *service.PostService
	Prompts *service.PromptService
	Limiter *ratelimit.RateLimiter
}

// New 创建仓储、服务、处理器并注册路由
func New(d Deps) (*App, error) {
	cfg := d.Config

	store, err := storage.NewLocalStore(cfg.Upload.Root, cfg.Upload.URLPrefix)
	if err != nil {
		return nil, err
	}

	// 未启用Redis时保持接口为nil
	var promptCache service.PromptCache
	if d.Redis != nil {
		promptCache = d.Redis
	}
	var notifier service.Notifier
	if d.Hub != nil {
		notifier = d.Hub
	}
	var observer service.Observer
	if d.Metrics != nil {
		observer = d.Metrics
	}

	// 仓储
	userRepo := repository.NewUserRepository(d.DB)
	friendRepo := repository.NewFriendshipRepository(d.DB)
	postRepo := repository.NewPostRepository(d.DB)
	reactionRepo := repository.NewReactionRepository(d.DB)
	reportRepo := repository.NewReportRepository(d.DB)
	metaRepo := repository.NewMetaRepository(d.DB)

	// 服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	userSvc := service.NewUserService(userRepo, jwtSvc)
	friendSvc := service.NewFriendService(friendRepo, userRepo, notifier, observer)
	postSvc := service.NewPostService(postRepo, friendRepo, store, stitch.New(cfg.Compositor.Workers), notifier, d.Metrics)
	reactionSvc := service.NewReactionService(reactionRepo, reportRepo, postRepo, friendRepo, notifier, observer)
	promptSvc := service.NewPromptService(metaRepo, promptCache, cfg.Prompt.Default)

	// 处理器
	userHandler := handler.NewUserHandler(userSvc)
	friendHandler := handler.NewFriendHandler(friendSvc)
	postHandler := handler.NewPostHandler(postSvc, cfg.Upload.MaxFileSize)
	reactionHandler := handler.NewReactionHandler(reactionSvc)
	promptHandler := handler.NewPromptHandler(promptSvc)

	engine := gin.New()
	engine.MaxMultipartMemory = 2 * cfg.Upload.MaxFileSize
	engine.Use(logger.ErrorLoggerMiddleware())
	engine.Use(logger.LoggerMiddleware())
	if d.Metrics != nil {
		engine.Use(d.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	var limiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		limit = limiter.Middleware()
	}

	setupBasicRoutes(engine, d)
	engine.Static(store.URLPrefix(), store.Root())

	auth := engine.Group("/auth", limit)
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	meta := engine.Group("/meta")
	{
		meta.GET("/daily-prompt", promptHandler.Get)
		meta.PUT("/daily-prompt", jwtSvc.AuthMiddleware(), limit, promptHandler.Set)
	}

	// 需要认证的接口
	authed := engine.Group("", jwtSvc.AuthMiddleware(), limit)
	{
		authed.GET("/users/profile", userHandler.GetProfile)
		authed.PUT("/users/profile", userHandler.UpdateProfile)

		friends := authed.Group("/friends")
		friends.GET("", friendHandler.List)
		friends.GET("/requests", friendHandler.Requests)
		friends.POST("/search", friendHandler.Search)
		friends.POST("/request", friendHandler.Request)
		friends.PUT("/respond", friendHandler.Respond)
		friends.DELETE("/:friend_id", friendHandler.Remove)

		posts := authed.Group("/posts")
		posts.POST("", postHandler.Create)
		posts.GET("/my", postHandler.Mine)
		posts.GET("/:post_id/reactions", reactionHandler.List)

		authed.GET("/feed", postHandler.Feed)

		authed.POST("/reactions", reactionHandler.React)
		authed.DELETE("/reactions/:post_id", reactionHandler.Unreact)

		authed.POST("/reports", reactionHandler.Report)
	}

	if d.Hub != nil {
		engine.GET("/ws", d.Hub.Handler(jwtSvc, cfg.WebSocket))
	}

	engine.NoRoute(func(c *gin.Context) {
		response.NotFound(c, fmt.Sprintf("接口不存在: %s %s", c.Request.Method, c.Request.URL.Path))
	})

	return &App{
		Engine:  engine,
		JWT:     jwtSvc,
		Posts:   postSvc,
		Prompts: promptSvc,
		Limiter: limiter,
	}, nil
}

// setupBasicRoutes 设置基础路由
func setupBasicRoutes(engine *gin.Engine, d Deps) {
	// 根路径
	engine.GET("/", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "dualshot API 运行中",
			"version": Version,
		})
	})

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		if err := dbPkg.HealthCheck(d.DB); err != nil {
			status = "db-down"
		}
		redisStatus := "disabled"
		if d.Redis != nil {
			redisStatus = "ok"
			if err := d.Redis.HealthCheck(ctx); err != nil {
				redisStatus = "down"
			}
		}
		online := 0
		if d.Hub != nil {
			online = d.Hub.OnlineCount()
		}
		response.Success(c, gin.H{
			"status":    status,
			"redis":     redisStatus,
			"online":    online,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
}
