package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"employee-tracker/internal/api/handler"
	"employee-tracker/internal/api/middleware"
	"employee-tracker/internal/api/router"
	"employee-tracker/internal/repository"
	"employee-tracker/internal/service"
	"employee-tracker/pkg/database"
	"employee-tracker/pkg/metrics"
	"employee-tracker/pkg/redis"
	"employee-tracker/pkg/token"
	"employee-tracker/pkg/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	// 1. 加载配置 + 初始化日志
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 注册自定义校验规则
	if err := validation.Register(); err != nil {
		return err
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	// 3.1 执行数据库迁移（sqlite 已在 NewDB 中自动建表）
	if cfg.Database.Driver == "postgres" {
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return err
		}
	}

	// 4. 指标
	metrics.Init()
	if err := metrics.RegisterDBStats(sqlDB, cfg.Database.Name); err != nil {
		logger.Warn("注册数据库连接池指标失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：未启用或连接失败时降级运行）
	var (
		revoker service.TokenRevoker
		limiter middleware.WindowLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，吊销缓存与分布式限流不可用", zap.Error(err))
		} else {
			defer rdb.Close()
			revoker, limiter = rdb, rdb
		}
	}

	// 6. 依赖注入: Repository → Service → Handler
	tokens := token.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, tokens, revoker, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(cfg, h, svc.Auth, limiter, repo, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("HTTP 服务器异常: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
