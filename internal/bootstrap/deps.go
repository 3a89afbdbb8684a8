package bootstrap

import (
	"context"
	"time"

	rescache "skincheck_server/adapter/out/cache"
	"skincheck_server/adapter/out/mongodb"
	"skincheck_server/adapter/out/persistence"
	"skincheck_server/config"
	"skincheck_server/core/agent/llm"
	"skincheck_server/core/port/out"
	"skincheck_server/core/service/analysis"
	"skincheck_server/core/service/ingredient"
	"skincheck_server/infra/database"
	"skincheck_server/pkg/cache"
	"skincheck_server/pkg/httputil"
	"skincheck_server/pkg/logger"
	"skincheck_server/pkg/metrics"
	"skincheck_server/pkg/resilience"
	"skincheck_server/pkg/snowflake"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const connectTimeout = 10 * time.Second

type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client
	Metrics *metrics.Metrics

	// Adapters
	IngredientRepo  *persistence.IngredientAdapter
	ResolutionCache *rescache.ResolutionCache
	ReportRepo      *mongodb.ReportAdapter

	// Agent
	LLMClient *llm.Client
	Explainer out.ExplanationGenerator
	Breaker   *resilience.Breaker

	// Services
	Resolver        ingredient.NameResolver
	AnalysisService *analysis.Service
}

// NewDependencies connects the backing stores and wires the analysis service.
// Postgres is required; Redis, MongoDB and the explanation model are optional
// and only logged when unavailable.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg, Metrics: metrics.New()}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// Database (pgxpool)
	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, db.Close)

	// Database (sqlx for the ingredient adapter)
	sqlDB, err := database.NewSQLX(ctx, cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })
	deps.IngredientRepo = persistence.NewIngredientAdapter(sqlDB)

	if n, err := deps.IngredientRepo.Count(ctx); err != nil {
		logger.Warn("Could not count ingredients: %v", err)
	} else if n == 0 {
		logger.Warn("Ingredient catalog is empty; every name will resolve as unknown")
	} else {
		logger.Info("Ingredient catalog loaded (%d records)", n)
	}

	// Redis
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			deps.ResolutionCache = rescache.NewResolutionCache(cache.NewRedisCache(redisClient), cfg.CacheResolutionTTL, deps.Metrics)
			logger.Info("Resolution cache enabled (ttl=%v)", cfg.CacheResolutionTTL)
		}
	}

	// MongoDB
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDBURL)
		if err != nil {
			logger.Warn("MongoDB connection failed: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				mongoClient.Disconnect(context.Background())
			})
			deps.ReportRepo = mongodb.NewReportAdapter(mongoClient.Database(cfg.MongoDBName))
			if err := deps.ReportRepo.EnsureIndexes(ctx); err != nil {
				logger.Warn("MongoDB index creation failed: %v", err)
			}
			logger.Info("Report archive enabled (database=%s)", cfg.MongoDBName)
		}
	}

	// Explanation model
	if cfg.ExplainerEnabled() {
		deps.LLMClient = llm.NewClient(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			HTTPClient:  httputil.NewClient(httputil.LLMClientConfig(cfg.ExplainTimeout)),
		})
		deps.Explainer = llm.NewExplainer(deps.LLMClient)
		deps.Breaker = resilience.NewBreaker(resilience.DefaultBreakerConfig("explainer"))
		logger.Info("Explanation model enabled (model=%s)", deps.LLMClient.Model())
	} else {
		logger.Info("OPENAI_API_KEY not set; explanations use the built-in template")
	}

	ids, err := snowflake.NewGenerator(snowflake.NodeFromName(cfg.NodeName))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	resolver := ingredient.NewResolver(deps.IngredientRepo, &ingredient.ResolverConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
	})
	deps.Resolver = ingredient.NewCachedResolver(resolver, resolutionCache(deps.ResolutionCache))

	analysisDeps := analysis.Deps{
		Resolver:  deps.Resolver,
		Explainer: deps.Explainer,
		Breaker:   deps.Breaker,
		IDs:       ids,
		Metrics:   deps.Metrics,
	}
	if deps.ReportRepo != nil {
		analysisDeps.Reports = deps.ReportRepo
	}
	deps.AnalysisService = analysis.NewService(analysisDeps, &analysis.Config{
		Concurrency:    cfg.ResolveConcurrency,
		ExplainTimeout: cfg.ExplainTimeout,
		MaxIngredients: cfg.MaxIngredients,
	})

	return deps, cleanup, nil
}

// resolutionCache keeps a nil adapter from becoming a non-nil interface.
func resolutionCache(c *rescache.ResolutionCache) out.ResolutionCache {
	if c == nil {
		return nil
	}
	return c
}
