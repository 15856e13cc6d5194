package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"planner-app/internal/cache"
	"planner-app/internal/config"
	"planner-app/internal/handlers"
	"planner-app/internal/middleware"
	"planner-app/internal/models"
	"planner-app/internal/monitoring"
	"planner-app/internal/services"
	"planner-app/internal/worker"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg.Log)

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	ownerID := ensureOwner(db, logger)
	if cfg.Server.SeedDemoData {
		seedDemoData(db, ownerID, logger)
	}

	redisCache := cache.NewRedisCache(&cache.RedisConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()
	multiCache := cache.NewMultiLevelCache(redisCache)

	taskService := services.NewCachedTaskService(services.NewTaskService(), multiCache)
	statsService := services.NewStatsService(multiCache)

	taskHandler := handlers.NewTaskHandler(db, taskService, ownerID)
	statsHandler := handlers.NewStatsHandler(db, statsService)

	monitor := monitoring.NewMonitor()
	monitor.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	monitor.RegisterHealthCheck("cache", func(ctx context.Context) error {
		return multiCache.Health()
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(nil))
	router.Use(monitor.Middleware())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	router.GET("/health", monitor.HealthHandler())
	router.GET("/health/live", monitor.LivenessHandler())
	router.GET("/health/ready", monitor.ReadinessHandler())
	router.GET("/metrics", monitor.MetricsHandler())

	v1 := router.Group("/api/v1")
	{
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PUT("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
		v1.GET("/stats/dashboard", statsHandler.GetDashboardStats)
	}

	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisCache.Client(),
		Queues:      cfg.Worker.Queues,
		Logger:      logger,
	})
	jobWorker.RegisterHandler(worker.JobTypeStatsSnapshot, worker.StatsSnapshotHandler(db, multiCache))
	jobWorker.RegisterHandler(worker.JobTypeCompletedCleanup, worker.CompletedCleanupHandler(db))
	jobWorker.Start(cfg.Worker.Concurrency)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduleJobs(schedulerCtx, worker.NewJobQueue(redisCache.Client()), logger)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	stopScheduler()
	jobWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server exited")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if cfg.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return out.Level(level).With().Timestamp().Logger()
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Database.Driver == "postgres" {
		dialector = postgres.Open(cfg.GetDatabaseDSN())
	} else {
		dialector = sqlite.Open(cfg.GetDatabaseDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	return db, nil
}

// ensureOwner resolves the user stamped on tasks. The API serves a single
// planner; an OWNER_ID env var pins the id, otherwise the first stored user
// wins and one is created on an empty database.
func ensureOwner(db *gorm.DB, logger zerolog.Logger) uuid.UUID {
	if raw := os.Getenv("OWNER_ID"); raw != "" {
		if id, err := uuid.FromString(raw); err == nil {
			return id
		}
		logger.Warn().Str("owner_id", raw).Msg("invalid OWNER_ID, ignoring")
	}

	var user models.User
	if err := db.First(&user).Error; err == nil {
		return user.ID
	}

	user = models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "planner@localhost",
		Name:     "Planner",
		Timezone: "UTC",
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Warn().Err(err).Msg("failed to persist owner, using transient id")
	}
	return user.ID
}

func seedDemoData(db *gorm.DB, ownerID uuid.UUID, logger zerolog.Logger) {
	var count int64
	if err := db.Model(&models.Task{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	tasks := models.SeedTasks(ownerID, time.Now())
	if err := db.Create(&tasks).Error; err != nil {
		logger.Warn().Err(err).Msg("failed to seed demo data")
		return
	}
	logger.Info().Int("count", len(tasks)).Msg("seeded demo tasks")
}

// scheduleJobs enqueues the periodic background jobs: a dashboard snapshot
// every five minutes and a completed-task sweep once a day.
func scheduleJobs(ctx context.Context, queue *worker.JobQueue, logger zerolog.Logger) {
	snapshot := time.NewTicker(5 * time.Minute)
	cleanup := time.NewTicker(24 * time.Hour)
	defer snapshot.Stop()
	defer cleanup.Stop()

	if err := queue.Enqueue("stats", worker.JobTypeStatsSnapshot, nil); err != nil {
		logger.Warn().Err(err).Msg("failed to enqueue initial snapshot")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-snapshot.C:
			if err := queue.Enqueue("stats", worker.JobTypeStatsSnapshot, nil); err != nil {
				logger.Warn().Err(err).Msg("failed to enqueue snapshot job")
			}
		case <-cleanup.C:
			if err := queue.Enqueue("maintenance", worker.JobTypeCompletedCleanup, nil); err != nil {
				logger.Warn().Err(err).Msg("failed to enqueue cleanup job")
			}
		}
	}
}
