package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/kaustubhduse/medical-chatbot/config"
	database "github.com/kaustubhduse/medical-chatbot/internal/core"
	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
	"github.com/kaustubhduse/medical-chatbot/internal/core/repository"
	"github.com/kaustubhduse/medical-chatbot/internal/core/token"
	"github.com/kaustubhduse/medical-chatbot/internal/logger"
	logicv1 "github.com/kaustubhduse/medical-chatbot/internal/logic/v1"
	v1 "github.com/kaustubhduse/medical-chatbot/internal/web/v1"
	"github.com/kaustubhduse/medical-chatbot/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Str("store", cfg.Store.Backend).
		Msg("Service starting")

	// Tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		var err error
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().Str("endpoint", cfg.Profiling.Endpoint).Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Credential store
	users, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to credential store")
	}
	log.Info().Str("backend", cfg.Store.Backend).Msg("Credential store ready")

	tokens := token.NewManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	auth := logicv1.NewAuthService(users, logicv1.NewPasswordHasher(), tokens)
	handler := v1.NewHandler(auth)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	if cfg.Tracing.Enabled {
		r.Use(middleware.TracingMiddleware(cfg.Service.Name))
	}
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Liveness text kept for compatibility with the original deployment.
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is running..")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Returns 503 once shutdown has started, to drain traffic before HTTP
	// shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(r.Group("/user"), tokens)

	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting auth service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation before stopping HTTP.
	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	closeStore(shutdownCtx)
	log.Info().Msg("Credential store closed")

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}

// openStore builds the configured credential store backend and returns it
// with its shutdown function.
func openStore(cfg *config.Config) (domain.UserRepository, func(context.Context), error) {
	ctx := context.Background()

	switch cfg.Store.Backend {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewUserRepository(pool), func(context.Context) { pool.Close() }, nil

	case "mongo":
		cli, usersColl, err := database.ConnectMongo(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsureUserIndexes(ctx, usersColl); err != nil {
			_ = cli.Disconnect(ctx)
			return nil, nil, err
		}
		return repository.NewMongoUserRepository(usersColl), func(ctx context.Context) {
			_ = cli.Disconnect(ctx)
		}, nil

	default:
		return repository.NewMemoryUserRepository(), func(context.Context) {}, nil
	}
}
