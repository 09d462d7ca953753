package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/defilending/internal/lending/application"
	"github.com/wyfcoding/defilending/internal/lending/infrastructure/publisher"
	httpserver "github.com/wyfcoding/defilending/internal/lending/interfaces/http"
	"github.com/wyfcoding/defilending/pkg/middleware"
)

var configPath = flag.String("config", "configs/lending/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. Kafka 事件发布
	kafkaProducer := kafka.NewProducer(cfg.MessageQueue.Kafka, logger, metricsImpl)
	eventPublisher := publisher.NewKafkaEventPublisher(kafkaProducer)

	// 5. 模拟引擎
	engine := application.NewSimulationEngine(application.DefaultConfig(), eventPublisher, logger.Logger)
	if cfg.Server.Environment == "dev" {
		engine.SeedDemoAccounts(context.Background())
	}

	// 6. 接口层
	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinRecovery(logger.Logger),
		middleware.GinLogging(logger.Logger),
		middleware.GinCORS(),
		middleware.GinRateLimit(rate.NewLimiter(rate.Limit(100), 200)),
	)

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "UP",
				"service":   cfg.Server.Name,
				"timestamp": time.Now().Unix(),
			})
		})
		sys.GET("/ready", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metricsImpl.Handler()))
	}

	httpHandler := httpserver.NewLendingHandler(engine)
	httpHandler.RegisterRoutes(r)

	// 7. 启动
	g, ctx := errgroup.WithContext(context.Background())

	addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
	server := &http.Server{Addr: addr, Handler: r}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down server...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
