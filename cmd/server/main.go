package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	complaintapp "github.com/storefront/backend/internal/application/complaint"
	eventapp "github.com/storefront/backend/internal/application/event"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/document"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Online shop API: catalog, carts, orders and complaints

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Failed to flush traces", zap.Error(err))
		}
	}()
	metrics := telemetry.NewMetrics()

	// Relational store
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(200*time.Millisecond),
		logger.WithIgnoreRecordNotFoundError(true),
	)
	db, err := persistence.NewDatabase(cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: !cfg.App.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	runMigrations(db, log)

	// Document store
	mongoClient, err := document.Connect(rootCtx, cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect mongo", zap.Error(err))
		}
	}()
	if err := mongoClient.EnsureIndexes(rootCtx); err != nil {
		log.Fatal("Failed to create mongo indexes", zap.Error(err))
	}

	// Redis backs revocation, event dedup and the product cache; without it
	// each falls back to a process local implementation
	var (
		redisClient      *redis.Client
		blacklist        auth.TokenBlacklist
		idempotencyStore shared.IdempotencyStore
		productCache     catalog.ProductCache = cache.NoopProductCache{}
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(rootCtx, cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "storefront:event:")
		productCache = cache.NewRedisProductCache(redisClient, cfg.Cache.ProductTTL, log)
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		memStore := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer func() {
			_ = memStore.Close()
		}()
		idempotencyStore = memStore
		log.Warn("Redis disabled, using in-memory token blacklist and event dedup")
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	authenticator := auth.NewAuthenticator(jwtService, blacklist, log)
	hasher := auth.NewBcryptHasher(0)
	sessionTokens := auth.NewSessionTokenGenerator(cfg.Session.TokenLength)

	// Outbox
	serializer := event.NewDefaultSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	snapshotRepo := document.NewMongoSnapshotRepository(mongoClient.Database())
	complaintRepo := document.NewMongoComplaintRepository(mongoClient.Database())

	identityScope := persistence.NewGormIdentityTransactionScope(db.DB, outboxPublisher)
	cartScope := persistence.NewGormCartTransactionScope(db.DB)
	orderScope := persistence.NewGormOrderTransactionScope(db.DB, outboxPublisher)

	// Application services
	authService := identityapp.NewAuthService(userRepo, identityScope, hasher, jwtService, authenticator, log)
	userService := identityapp.NewUserService(userRepo, identityScope, hasher, authenticator, log)
	addressService := identityapp.NewAddressService(addressRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, productCache, metrics, log)
	cartService := cartapp.NewCartService(cartScope, cartRepo, log)
	placementService := orderapp.NewPlacementService(orderScope, order.NewNumberGenerator(), metrics, log)
	orderQueries := orderapp.NewQueryService(orderRepo, snapshotRepo, orderScope, metrics, log)
	complaintService := complaintapp.NewComplaintService(complaintRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Event handlers
	eventBus := event.NewInMemoryEventBus(log)
	projector := orderapp.NewSnapshotProjector(snapshotRepo, log)
	notifications := orderapp.NewNotificationHandler(notification.New(cfg.Notification, log), metrics, log)
	eventBus.Subscribe(
		event.NewIdempotentHandler(projector, idempotencyStore, "snapshot-projector", cfg.Event.IdempotencyTTL, log),
		projector.EventTypes()...,
	)
	eventBus.Subscribe(
		event.NewIdempotentHandler(notifications, idempotencyStore, "notifications", cfg.Event.IdempotencyTTL, log),
		notifications.EventTypes()...,
	)
	log.Info("Event handlers registered",
		zap.Strings("snapshot_projector", projector.EventTypes()),
		zap.Strings("notifications", notifications.EventTypes()),
	)

	if cfg.Event.ProcessorEnabled {
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  cfg.Event.CleanupInterval,
		}, metrics, log)
		processor.Start(rootCtx)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := processor.Stop(ctx); err != nil {
				log.Error("Failed to stop outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
		)
	} else {
		log.Warn("Outbox processor disabled, snapshots and emails will not be produced")
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(metrics))
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	engine.NoRoute(middleware.NoRoute())
	engine.NoMethod(middleware.NoMethod())
	engine.HandleMethodNotAllowed = true

	deps := []handler.Dependency{
		{Name: "postgres", Ping: db.Ping},
		{Name: "mongo", Ping: mongoClient.Ping},
	}
	if redisClient != nil {
		deps = append(deps, handler.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	system := handler.NewSystemHandler(cfg.App.Name, version, deps...)
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)

	requireAuth := middleware.RequireAuth(authenticator, log)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.App.IsProduction(),
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		RequireAuth:  requireAuth,
		OptionalAuth: middleware.OptionalAuth(authenticator, log),
		RequireAdmin: middleware.RequireAdmin(),
		Owner: middleware.Owner(middleware.SessionConfig{
			Session:   cfg.Session,
			Cookie:    cfg.Cookie,
			Generator: sessionTokens,
			Logger:    log,
		}),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Close()
		guards.AuthRateLimit = middleware.RateLimit(authLimiter)
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie),
		Users:     handler.NewUserHandler(userService),
		Category:  handler.NewCategoryHandler(categoryService),
		Product:   handler.NewProductHandler(productService),
		Address:   handler.NewAddressHandler(addressService),
		Cart:      handler.NewCartHandler(cartService),
		Order:     handler.NewOrderHandler(placementService, orderQueries),
		Complaint: handler.NewComplaintHandler(complaintService),
		Outbox:    handler.NewOutboxHandler(outboxService),
	}
	router.NewRouter(engine).Register(router.Storefront(handlers, guards)...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopRoot()

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema before serving
func runMigrations(db *persistence.Database, log *zap.Logger) {
	m, err := migration.NewFromFS(db.SQL(), migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	// The migrator is not closed: closing it would close the shared pool
	if err := m.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
}
