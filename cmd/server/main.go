package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/orgstruct/backend/internal/application/identity"
	structureapp "github.com/orgstruct/backend/internal/application/structure"
	workapp "github.com/orgstruct/backend/internal/application/work"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/infrastructure/auth"
	"github.com/orgstruct/backend/internal/infrastructure/config"
	"github.com/orgstruct/backend/internal/infrastructure/event"
	"github.com/orgstruct/backend/internal/infrastructure/logger"
	"github.com/orgstruct/backend/internal/infrastructure/persistence"
	"github.com/orgstruct/backend/internal/infrastructure/scheduler"
	"github.com/orgstruct/backend/internal/infrastructure/storage"
	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"github.com/orgstruct/backend/internal/interfaces/http/handler"
	"github.com/orgstruct/backend/internal/interfaces/http/middleware"
	"github.com/orgstruct/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

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

	log.Info("Starting orgstruct backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry providers (no-ops when telemetry is disabled)
	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownWithTimeout(loggerProvider.Shutdown, log, "logger provider")

	// Bridge zap into the OTEL log pipeline so application logs ship with
	// traces and metrics
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Log.Level),
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
	}

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

	// Database query tracing (otelgorm)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Token blacklist: Redis when configured, in-memory otherwise. Without
	// Redis, logout only revokes tokens on this instance.
	var tokenBlacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for token blacklist", zap.Error(err))
		}
		tokenBlacklist = redisBlacklist
		log.Info("Redis token blacklist enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	zoneRepo := persistence.NewGormZoneRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	sectorRepo := persistence.NewGormSectorRepository(db.DB)
	workRepo := persistence.NewGormWorkRepository(db.DB)
	weeklyTaskRepo := persistence.NewGormWeeklyTaskRepository(db.DB)
	attachmentRepo := persistence.NewGormWorkAttachmentRepository(db.DB)
	batchRepo := persistence.NewGormStructureBatchRepository(db.DB)

	// Object storage for work attachments: S3-compatible when configured,
	// stub otherwise (uploads rejected, listings still work)
	var objectStorage workapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage not configured, work attachments disabled")
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// First pick on a work moves it from assigned to in_progress
	pickedHandler := workapp.NewWeeklyTaskPickedHandler(workRepo, log)
	eventBus.Subscribe(pickedHandler)
	log.Info("Event handlers registered",
		zap.Strings("weekly_task_picked_events", pickedHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)

	zoneService := structureapp.NewZoneService(zoneRepo, userRepo, roleRepo, batchRepo, log)
	groupService := structureapp.NewGroupService(groupRepo, zoneRepo, userRepo, roleRepo, batchRepo, log)
	sectorService := structureapp.NewSectorService(sectorRepo, zoneRepo, log)

	workService := workapp.NewWorkService(workRepo, sectorRepo, attachmentRepo, objectStorage, log)
	weeklyTaskService := workapp.NewWeeklyTaskService(weeklyTaskRepo, workRepo, sectorRepo, log)
	attachmentService := workapp.NewAttachmentService(attachmentRepo, workRepo, objectStorage, log)
	taskExpirationService := workapp.NewTaskExpirationService(weeklyTaskRepo, log)

	// Inject event bus into services that publish events
	zoneService.SetEventPublisher(eventBus)
	groupService.SetEventPublisher(eventBus)
	sectorService.SetEventPublisher(eventBus)
	workService.SetEventPublisher(eventBus)
	weeklyTaskService.SetEventPublisher(eventBus)
	attachmentService.SetEventPublisher(eventBus)
	taskExpirationService.SetEventPublisher(eventBus)

	// Domain counters and gauges (zones created, picks won/lost, open tasks)
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:        meterProvider.Meter("orgstruct-business"),
			Logger:       log,
			TaskProvider: telemetry.NewGormTaskMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			workService.SetBusinessMetrics(businessMetrics)
			weeklyTaskService.SetBusinessMetrics(businessMetrics)
			attachmentService.SetBusinessMetrics(businessMetrics)
			taskExpirationService.SetBusinessMetrics(businessMetrics)
		}
	}

	// Weekly expiration sweep (if enabled)
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.DefaultTaskExpirationSchedulerConfig()
		schedulerConfig.Enabled = cfg.Scheduler.Enabled
		schedulerConfig.JobTimeout = cfg.Scheduler.JobTimeout
		if cfg.Scheduler.WeeklyCron != "" {
			weekday, hour, minute, err := scheduler.ParseWeeklyCronSchedule(cfg.Scheduler.WeeklyCron)
			if err != nil {
				log.Warn("Invalid weekly cron schedule, using default",
					zap.String("cron", cfg.Scheduler.WeeklyCron),
					zap.Error(err),
				)
			}
			schedulerConfig.WeeklyCronSchedule = cfg.Scheduler.WeeklyCron
			schedulerConfig.CronWeekday = weekday
			schedulerConfig.CronHour = hour
			schedulerConfig.CronMinute = minute
		}
		expirationScheduler := scheduler.NewTaskExpirationScheduler(schedulerConfig, taskExpirationService, log)
		if err := expirationScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start task expiration scheduler", zap.Error(err))
		}
		defer func() {
			if err := expirationScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping task expiration scheduler", zap.Error(err))
			}
		}()
		log.Info("Task expiration scheduler started",
			zap.String("cron", schedulerConfig.WeeklyCronSchedule),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie, cfg.JWT)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	zoneHandler := handler.NewZoneHandler(zoneService)
	groupHandler := handler.NewGroupHandler(groupService)
	sectorHandler := handler.NewSectorHandler(sectorService)
	workHandler := handler.NewWorkHandler(workService, weeklyTaskService, attachmentService)
	maintenanceHandler := handler.NewMaintenanceHandler(taskExpirationService)
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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. Tracing/metrics - OTEL instrumentation (if enabled)
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
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

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("orgstruct-http"), meterProvider.IsEnabled()))

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

	// Health check endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})
	engine.GET("/health/ready", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Stricter rate limit for credential endpoints (if enabled)
	var authLimiter gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.AuthRateLimit(
			middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
		)
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	} else {
		authLimiter = func(c *gin.Context) { c.Next() }
	}

	// Structure domain: works, weekly tasks, zones, groups, sectors.
	// Every route is guarded by the capability it requires; the JWT
	// middleware has already resolved the caller's capability set.
	structureRoutes := router.NewDomainGroup("structure", "/structure")

	// Work routes
	structureRoutes.POST("/work/create",
		middleware.RequireCapability(identity.CapWorkCreate), workHandler.Create)
	structureRoutes.GET("/work/get",
		middleware.RequireCapability(identity.CapZoneAdminView), workHandler.List)
	structureRoutes.GET("/work/get/:work_id",
		middleware.RequireCapability(identity.CapWorkView), workHandler.GetByID)
	structureRoutes.GET("/work/getByUserId",
		middleware.RequireCapability(identity.CapWorkView), workHandler.GetByUser)
	structureRoutes.DELETE("/work/:work_id",
		middleware.RequireCapability(identity.CapZoneAdminDelete), workHandler.Delete)
	structureRoutes.POST("/work/assign/:work_id",
		middleware.RequireCapability(identity.CapWorkUpdate), workHandler.AssignSectors)
	structureRoutes.POST("/work/pickWork",
		middleware.RequireCapability(identity.CapWorkUpdate), workHandler.Pick)

	// Weekly task routes
	structureRoutes.POST("/work/weeklyTask",
		middleware.RequireCapability(identity.CapWeeklyTaskCreate), workHandler.CreateWeeklyTasks)
	structureRoutes.GET("/work/weeklyTask/:weekly_task_id",
		middleware.RequireCapability(identity.CapWeeklyTaskView), workHandler.GetWeeklyTask)
	structureRoutes.GET("/work/:work_id/weeklyTask",
		middleware.RequireCapability(identity.CapWeeklyTaskView), workHandler.ListWeeklyTasksByWork)
	structureRoutes.PUT("/work/weeklyTask/:weekly_task_id",
		middleware.RequireCapability(identity.CapWeeklyTaskUpdate), workHandler.UpdateWeeklyTask)

	// Work attachment routes
	structureRoutes.POST("/work/:work_id/attachments",
		middleware.RequireCapability(identity.CapWorkUpdate), workHandler.UploadAttachment)
	structureRoutes.GET("/work/:work_id/attachments",
		middleware.RequireCapability(identity.CapWorkView), workHandler.ListAttachments)
	structureRoutes.GET("/work/attachments/:attachment_id/url",
		middleware.RequireCapability(identity.CapWorkView), workHandler.GetAttachmentURL)
	structureRoutes.DELETE("/work/attachments/:attachment_id",
		middleware.RequireCapability(identity.CapWorkUpdate), workHandler.DeleteAttachment)

	// Zone routes
	structureRoutes.POST("/zone/create",
		middleware.RequireCapability(identity.CapZoneAdminCreate), zoneHandler.Create)
	structureRoutes.GET("/zone/get",
		middleware.RequireCapability(identity.CapZoneAdminView), zoneHandler.List)
	structureRoutes.GET("/zone/get/:zone_user_id",
		middleware.RequireCapability(identity.CapZoneAdminView), zoneHandler.GetByAdminID)
	structureRoutes.DELETE("/zone/:zone_user_id",
		middleware.RequireCapability(identity.CapZoneAdminDelete), zoneHandler.RemoveAdmin)

	// Group routes (no update or delete endpoints: groups anchor member
	// accounts and member re-homing has no policy)
	structureRoutes.POST("/group/create",
		middleware.RequireCapability(identity.CapGroupCreate), groupHandler.Create)
	structureRoutes.GET("/group/get",
		middleware.RequireCapability(identity.CapGroupView), groupHandler.List)
	structureRoutes.GET("/group/get/:group_id",
		middleware.RequireCapability(identity.CapSectorView), groupHandler.GetByID)

	// Sector routes
	structureRoutes.POST("/sector/create",
		middleware.RequireCapability(identity.CapSectorCreate), sectorHandler.Create)
	structureRoutes.GET("/sector/get",
		middleware.RequireCapability(identity.CapSectorView), sectorHandler.List)

	// Identity domain: authentication plus user and role administration
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authLimiter, authHandler.Login)
	authRoutes.POST("/refresh", authLimiter, authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.POST("/change-password", authHandler.ChangePassword)
	authRoutes.POST("/force-logout", authHandler.ForceLogout)

	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.GET("/users",
		middleware.RequireCapability(identity.CapZoneAdminView), userHandler.List)
	identityRoutes.GET("/users/stats/count",
		middleware.RequireCapability(identity.CapZoneAdminView), userHandler.Count)
	identityRoutes.GET("/users/:user_id",
		middleware.RequireCapability(identity.CapZoneAdminView), userHandler.GetByID)
	identityRoutes.GET("/roles",
		middleware.RequireCapability(identity.CapZoneAdminView), roleHandler.List)
	identityRoutes.POST("/roles",
		middleware.RequireCapability(identity.CapZoneAdminCreate), roleHandler.Create)
	identityRoutes.GET("/roles/capabilities",
		middleware.RequireCapability(identity.CapZoneAdminView), roleHandler.ListCapabilities)
	identityRoutes.GET("/roles/:role_id",
		middleware.RequireCapability(identity.CapZoneAdminView), roleHandler.GetByID)
	identityRoutes.PUT("/roles/:role_id/capabilities",
		middleware.RequireCapability(identity.CapZoneAdminCreate), roleHandler.SetCapabilities)

	// Maintenance routes
	maintenanceRoutes := router.NewDomainGroup("maintenance", "/maintenance")
	maintenanceRoutes.POST("/weekly-tasks/expire",
		middleware.RequireCapability(identity.CapZoneAdminCreate), maintenanceHandler.ExpireWeeklyTasks)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(structureRoutes).
		Register(authRoutes).
		Register(identityRoutes).
		Register(maintenanceRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
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

// shutdownWithTimeout flushes and stops a telemetry provider at exit
func shutdownWithTimeout(fn func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
