package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dualshot/config"
	"dualshot/internal/model"
	"dualshot/internal/router"
	"dualshot/internal/scheduler"
	dbPkg "dualshot/pkg/db"
	"dualshot/pkg/logger"
	"dualshot/pkg/metrics"
	"dualshot/pkg/redis"
	"dualshot/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("配置校验失败", zap.Error(err))
	}

	log.Info("=== dualshot 启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Database),
		zap.String("upload_root", cfg.Upload.Root),
		zap.Int("compositor_workers", cfg.Compositor.Workers),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.Close(db); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(db, model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 4. Redis（可选）
	var redisClient *redis.Client
	var offline websocket.OfflineStore
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = redis.New(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Fatal("Redis连接失败", zap.Error(err))
		}
		defer redisClient.Close()
		offline = redisClient
		log.Info("Redis连接成功")
	}

	// 5. 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	hub := websocket.NewHub(offline)
	app, err := router.New(router.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Hub:     hub,
		Metrics: metrics.New(),
	})
	if err != nil {
		log.Fatal("初始化路由失败", zap.Error(err))
	}

	stop := make(chan struct{})
	defer close(stop)
	if app.Limiter != nil {
		app.Limiter.StartCleanup(time.Minute, 10*time.Minute, stop)
	}

	// 6. 每日提示定时推送
	if cfg.Prompt.Enabled {
		promptScheduler := scheduler.NewPromptScheduler(cfg.Prompt, app.Prompts, hub)
		if err := promptScheduler.Start(); err != nil {
			log.Fatal("启动每日提示调度失败", zap.Error(err))
		}
		defer promptScheduler.Stop()
	}

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
