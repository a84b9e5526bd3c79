// Command blogcore запускает HTTP API пользователей и публикаций.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	authpostgres "blogcore/internal/auth/adapters/postgres"
	authredis "blogcore/internal/auth/adapters/redis"
	authservices "blogcore/internal/auth/adapters/services"
	authapp "blogcore/internal/auth/app"
	"blogcore/internal/auth/cleanup"
	"blogcore/internal/auth/db"
	"blogcore/internal/config"
	httpapi "blogcore/internal/gateway/adapters/http"
	postpostgres "blogcore/internal/posts/adapters/postgres"
	postapp "blogcore/internal/posts/app"
	"blogcore/pkg/cache"
	"blogcore/pkg/clock"
	"blogcore/pkg/db/redis"
	"blogcore/pkg/lock"
	"blogcore/pkg/logger"
	"blogcore/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "LOG_MODE"
	EnvLoggerLevel = "LOG_LEVEL"
	EnvFile        = ".env"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInvalidJWTConfig     = "invalid JWT configuration"
	ErrInitDatabase         = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrStartMetricsServer   = "failed to start metrics server"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "blogcore service started"
	LogServiceShutdownDone = "blogcore service shutdown complete"
	LogInitServices        = "initializing services"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingMetrics     = "starting metrics server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingMetrics     = "stopping metrics server"
	LogStoppingSweeper     = "stopping expired token sweeper"
	LogClosingRedis        = "closing Redis connection"
	LogClosingDatabase     = "closing database connection"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.ContextWithRequestID(context.Background(), logger.NewRequestID())

	exitCode := 0
	if err := run(ctx, log); err != nil {
		logger.Log(ctx).Error(ctx, "blogcore terminated", zap.Error(err))
		exitCode = 1
	}

	if err := logger.Log(ctx).Sync(); err != nil {
		errMsg := err.Error()
		if !strings.Contains(errMsg, ErrSyncStderr) && !strings.Contains(errMsg, ErrSyncStdout) {
			if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
				panic(writeErr)
			}
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func run(ctx context.Context, bootstrap *logger.Logger) error {
	cfg, err := config.Load(ctx, EnvFile)
	if err != nil {
		bootstrap.Error(ctx, ErrLoadConfig, zap.Error(err))
		return err
	}

	log, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level, cfg.Logging.Options()...)
	if err != nil {
		bootstrap.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobalLogger(log)

	log.Info(ctx, LogServiceStarted,
		zap.String("environment", string(cfg.Logging.GetEnvironment())),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	jwtConfig, err := cfg.JWT.DomainConfig()
	if err != nil {
		log.Error(ctx, ErrInvalidJWTConfig, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrInvalidJWTConfig, err)
	}

	database, err := db.New(ctx, &cfg.Postgres)
	if err != nil {
		log.Error(ctx, ErrInitDatabase, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrInitDatabase, err)
	}

	store, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
	if err != nil {
		database.Close(ctx)
		log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateRedisClient, err)
	}

	log.Info(ctx, LogInitServices)
	clk := clock.NewReal()
	responseCache := cache.New(store, cfg.Cache.DefaultTTL)
	locker := lock.New(store)

	repos := authpostgres.NewRepositoryFactory(database.Pool())
	svcs := authservices.NewServiceFactory(jwtConfig, cfg.JWT.BCryptCost, clk)

	authUseCase := authapp.NewAuthUseCase(
		repos.UserRepository(),
		repos.TokenRepository(),
		svcs.PasswordService(),
		svcs.TokenService(),
		authredis.NewRevocationRegistry(store),
		clk,
	)
	userUseCase := authapp.NewUserUseCase(
		repos.UserRepository(),
		svcs.PasswordService(),
		authUseCase,
		responseCache,
		locker,
		cfg.Cache.UserTTL,
		cfg.Cache.LockTTL,
	)
	postUseCase := postapp.NewPostUseCase(postpostgres.NewPostRepository(database.Pool()), responseCache, cfg.Cache.PostTTL)

	sweeper := cleanup.NewSweeper(repos.TokenRepository(), locker, clk, cfg.Cleanup.Interval, cfg.Cleanup.LockTTL)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		sweeper.Run(sweepCtx)
	}()

	app := httpapi.NewApp(&cfg.HTTP)
	httpapi.SetupRouter(app, httpapi.Services{
		Tokens: svcs.TokenService(),
		Auth:   authUseCase,
		Users:  userUseCase,
		Posts:  postUseCase,
	})

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			stopServing()
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.GetAddress(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		log.Info(ctx, LogStartingMetrics, zap.String("address", cfg.Metrics.GetAddress()))
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, ErrStartMetricsServer, zap.Error(err))
			}
		}()
	}

	err = shutdown.Wait(serveCtx, cfg.Shutdown.Timeout,
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return app.ShutdownWithContext(ctx)
		},
		func(ctx context.Context) error {
			if metricsServer == nil {
				return nil
			}
			log.Info(ctx, LogStoppingMetrics)
			return metricsServer.Shutdown(ctx)
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingSweeper)
			stopSweeper()
			select {
			case <-sweeperDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingRedis)
			return store.Close(ctx)
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingDatabase)
			database.Close(ctx)
			return nil
		},
	)
	if err != nil {
		log.Error(ctx, ErrShutdown, zap.Error(err))
		return err
	}

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}
