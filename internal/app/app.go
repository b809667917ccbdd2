package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/config"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/redis"
	"github.com/MrSnakeDoc/bugtrack/internal/sources/seed"
	memorystore "github.com/MrSnakeDoc/bugtrack/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/bugtrack/internal/store/redis"
	"github.com/MrSnakeDoc/bugtrack/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the store backend. Redis is initialized early - fail fast if
	// unavailable.
	var (
		store       bugs.Store
		redisClient *goredis.Client
	)
	switch cfg.Store {
	case config.StoreRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		store = redisstore.NewStore(client)
	case config.StoreMemory:
		loggerClient.Warn("using in-memory store, bugs will not survive a restart")
		store = memorystore.New()
	}

	service := bugs.New(store, loggerClient)

	// Optional one-shot seed import, before the server accepts traffic.
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, importing",
			logger.String("file", cfg.SeedFile))
		importer := seed.NewImporter(cfg.SeedFile, service, store, loggerClient)
		if err := importer.Import(context.Background()); err != nil {
			loggerClient.Warn("seed import failed", logger.Error(err))
		}
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		Bugs:      service,
		Store:     store,
		StoreName: cfg.Store,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bugtrack v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bugtrack %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ bugtrack stopped cleanly")
	return nil
}
