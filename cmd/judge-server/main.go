package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	judgeconfig "judge/internal/judge/config"
	"judge/internal/judge/httpapi"
	"judge/internal/judge/model"
	"judge/internal/judge/submit"
	commonmw "judge/internal/common/http/middleware"
	"judge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	judgeCfg, err := judgeconfig.Load(appCfg.Data.ConfigPath)
	if err != nil {
		logger.Error(ctx, "load judge config failed", zap.Error(err))
		return
	}

	contests, err := judgeconfig.LoadContests(appCfg.Data.ContestsDir)
	if err != nil {
		logger.Error(ctx, "load contests failed", zap.Error(err))
		return
	}

	if err := os.MkdirAll(appCfg.Sandbox.ScratchDir, 0o755); err != nil {
		logger.Error(ctx, "create scratch dir failed", zap.Error(err))
		return
	}

	driver := submit.NewDriver(appCfg.Sandbox.HelperPath, appCfg.Sandbox.ScratchDir)
	handler := httpapi.NewHandler(contestStore(contests), httpapi.Config{
		ResourceLimits: judgeCfg.ResourceLimits,
		SkipCount:      judgeCfg.SkipCount,
		Languages:      judgeCfg.Languages,
	}, driver)

	httpServer := buildHTTPServer(appCfg.Server, handler)
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(ctx, "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "judge http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(ctx, "shutdown signal received")
	}

	shutdownTimeoutCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownTimeoutCtx); err != nil {
		logger.Error(ctx, "http server shutdown failed", zap.Error(err))
	}
}

type contestStore map[string]*model.Contest

func (s contestStore) Contest(id string) (*model.Contest, bool) {
	c, ok := s[id]
	return c, ok
}

func buildHTTPServer(cfg ServerConfig, handler *httpapi.Handler) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContext())
	router.Use(requestLogger())

	handler.Register(router)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
