package bootstrap

import (
	"context"
	"strings"
	"time"

	"skincheck_server/adapter/in/http"
	"skincheck_server/config"
	"skincheck_server/infra/database"
	"skincheck_server/infra/middleware"
	"skincheck_server/pkg/logger"
	"skincheck_server/pkg/ratelimit"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const bodyLimit = 1 * 1024 * 1024

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}
	return newApp(cfg, deps), cleanup, nil
}

func newApp(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "skincheck",
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          cfg.ExplainTimeout + 30*time.Second,

		// go-json for request and response bodies
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit:          bodyLimit,
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())         // 1. Panic recovery
	app.Use(middleware.RequestID())       // 2. Request ID
	app.Use(middleware.SecurityHeaders()) // 3. Security headers
	app.Use(middleware.RequestLogger())   // 4. Request logging

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// AllowCredentials:true requires explicit origins (not "*")
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,Retry-After",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Health and metrics (no auth required)
	health := http.NewHealthHandler()
	if deps.DB != nil {
		health.AddCheck("postgres", http.PingFunc(deps.DB.Ping), true).
			AddStats("postgres_pool", func() any { return database.GetPoolStats(deps.DB) })
	}
	if deps.Redis != nil {
		health.AddCheck("redis", http.PingFunc(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}), false)
	}
	if deps.MongoDB != nil {
		health.AddCheck("mongodb", http.PingFunc(func(ctx context.Context) error {
			return deps.MongoDB.Ping(ctx, nil)
		}), false)
	}
	health.Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	// API routes (with auth and rate limiting)
	api := app.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(newLimiter(cfg, deps)))
	api.Use(middleware.NoCache())

	http.NewAnalysisHandler(deps.AnalysisService).Register(api)

	return app
}

func newLimiter(cfg *config.Config, deps *Dependencies) ratelimit.Limiter {
	if deps.Redis != nil {
		return ratelimit.NewSlidingWindowLimiter(deps.Redis, cfg.RateLimitPerMin, time.Minute)
	}
	logger.Warn("Redis unavailable; rate limits are per instance")
	return ratelimit.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute)
}
