package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	platformapp "github.com/platehub/backend/internal/application/platform"
	"github.com/platehub/backend/internal/domain/platform"
	"github.com/platehub/backend/internal/domain/shared"
	"github.com/platehub/backend/internal/infrastructure/auth"
	"github.com/platehub/backend/internal/infrastructure/cache"
	"github.com/platehub/backend/internal/infrastructure/config"
	"github.com/platehub/backend/internal/infrastructure/delivery"
	"github.com/platehub/backend/internal/infrastructure/logger"
	"github.com/platehub/backend/internal/infrastructure/persistence"
	"github.com/platehub/backend/internal/infrastructure/storage"
	"github.com/platehub/backend/internal/infrastructure/telemetry"
	"github.com/platehub/backend/internal/interfaces/http/handler"
	"github.com/platehub/backend/internal/interfaces/http/middleware"
	"github.com/platehub/backend/internal/interfaces/http/router"
)

//	@title			Delivery Hub API
//	@version		1.0
//	@description	Food delivery platform integration hub. Aggregates Getir, Trendyol, Yemeksepeti and Migros Yemek behind a single API for menu sync, order intake and status propagation.

//	@contact.name	API Support
//	@contact.url	https://github.com/platehub/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Delivery Hub",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Webhook dedup store and token blacklist. Redis makes both shared
	// across instances; without it they fall back to in-process stores.
	var dedupStore shared.IdempotencyStore
	var tokenBlacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		dedupStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "")
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected successfully")
	} else {
		dedupStore = cache.NewInMemoryIdempotencyStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// JWT service for the admin API
	jwtService := auth.NewJWTService(cfg.JWT)

	// Image resolver for menu sync. S3 presigning when object storage is
	// configured, otherwise a static base URL.
	var images delivery.ImageResolver
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		images = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		images = storage.NewStaticImageResolver("")
	}

	// Initialize application services
	hub := platformapp.NewHubService(platformapp.HubServiceConfig{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		Dedup:       dedupStore,
		DedupTTL:    cfg.Idempotency.TTL,
		BranchID:    cfg.Catalog.BranchID,
		Logger:      log,
	})
	registerConfiguredPlatforms(hub, cfg, images, log)
	webhookService := platformapp.NewWebhookService(hub, log)

	// Initialize handlers
	adapterFactory := func(code platform.Code, req handler.RegisterPlatformRequest) (platform.Adapter, platform.Config, error) {
		return delivery.BuildAdapter(code, delivery.AdapterCredentials{
			APIKey:        req.APIKey,
			APISecret:     req.APISecret,
			WebhookSecret: req.WebhookSecret,
			MerchantID:    req.MerchantID,
		}, req.Enabled, images)
	}
	platformHandler := handler.NewPlatformHandler(hub, adapterFactory)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Platform webhook endpoints (no bearer authentication). Upstream
	// platforms call these directly and authenticate with HMAC signatures
	// verified inside the webhook pipeline.
	webhookGroup := engine.Group("/api/v1/platforms")
	webhookGroup.POST("/:platform/orders", webhookHandler.HandleOrderWebhook)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Platform integration routes
	platformRoutes := router.NewDomainGroup("platforms", "/platforms")
	platformRoutes.POST("/register", middleware.RequireAdmin(), platformHandler.RegisterPlatform)
	platformRoutes.GET("/status", platformHandler.ListPlatformStatus)
	platformRoutes.GET("/health", platformHandler.CheckHealth)
	platformRoutes.GET("/recent-orders", platformHandler.RecentOrdersAcrossPlatforms)
	platformRoutes.POST("/sync-menu/:branchId", platformHandler.SyncMenuToAll)
	platformRoutes.GET("/:platform/status", platformHandler.GetPlatformStatus)
	platformRoutes.PUT("/:platform/toggle", middleware.RequireAdmin(), platformHandler.TogglePlatform)
	platformRoutes.POST("/:platform/sync-menu/:branchId", platformHandler.SyncMenu)
	platformRoutes.GET("/:platform/products", platformHandler.GetPlatformProducts)
	platformRoutes.GET("/:platform/orders", platformHandler.ListOrders)
	platformRoutes.GET("/:platform/recent-orders", platformHandler.RecentOrders)
	platformRoutes.PUT("/:platform/orders/:id/status", platformHandler.UpdateOrderStatus)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(platformRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping endpoint for connectivity checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// registerConfiguredPlatforms registers every platform that carries
// credentials in the config file. A platform with no API key is simply not
// registered; it can still be added later through the register endpoint.
func registerConfiguredPlatforms(hub *platformapp.HubService, cfg *config.Config, images delivery.ImageResolver, log *zap.Logger) {
	register := func(code platform.Code, adapter platform.Adapter, pc platform.Config, err error) {
		if err != nil {
			log.Fatal("Failed to build platform adapter",
				zap.String("platform", string(code)),
				zap.Error(err),
			)
		}
		if err := hub.RegisterPlatform(adapter, pc); err != nil {
			log.Fatal("Failed to register platform",
				zap.String("platform", string(code)),
				zap.Error(err),
			)
		}
		log.Info("Platform registered",
			zap.String("platform", string(code)),
			zap.Bool("enabled", pc.Enabled),
		)
	}

	if p := cfg.Platforms.Getir; p.APIKey != "" {
		gc := delivery.NewGetirConfig(p.APIKey, p.APISecret, p.WebhookSecret, p.RestaurantID)
		if p.BaseURL != "" {
			gc.BaseURL = p.BaseURL
		}
		if p.TimeoutSeconds > 0 {
			gc.TimeoutSeconds = p.TimeoutSeconds
		}
		adapter, err := delivery.NewGetirAdapter(gc, images)
		register(platform.CodeGetir, adapter, gc.PlatformConfig(p.Enabled), err)
	}

	if p := cfg.Platforms.Trendyol; p.APIKey != "" {
		tc := delivery.NewTrendyolConfig(p.APIKey, p.APISecret, p.WebhookSecret, p.SupplierID)
		if p.BaseURL != "" {
			tc.BaseURL = p.BaseURL
		}
		if p.TimeoutSeconds > 0 {
			tc.TimeoutSeconds = p.TimeoutSeconds
		}
		adapter, err := delivery.NewTrendyolAdapter(tc, images)
		register(platform.CodeTrendyol, adapter, tc.PlatformConfig(p.Enabled), err)
	}

	if p := cfg.Platforms.Yemeksepeti; p.APIKey != "" {
		yc := delivery.NewYemeksepetiConfig(p.APIKey, p.WebhookSecret, p.VendorID)
		if p.BaseURL != "" {
			yc.BaseURL = p.BaseURL
		}
		if p.TimeoutSeconds > 0 {
			yc.TimeoutSeconds = p.TimeoutSeconds
		}
		adapter, err := delivery.NewYemeksepetiAdapter(yc, images)
		register(platform.CodeYemeksepeti, adapter, yc.PlatformConfig(p.Enabled), err)
	}

	if p := cfg.Platforms.Migros; p.APIKey != "" {
		mc := delivery.NewMigrosConfig(p.APIKey, p.APISecret, p.WebhookSecret, p.StoreID)
		if p.BaseURL != "" {
			mc.BaseURL = p.BaseURL
		}
		if p.TimeoutSeconds > 0 {
			mc.TimeoutSeconds = p.TimeoutSeconds
		}
		adapter, err := delivery.NewMigrosAdapter(mc, images)
		register(platform.CodeMigros, adapter, mc.PlatformConfig(p.Enabled), err)
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
