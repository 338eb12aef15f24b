package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/config"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/infrastructure/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/handlers"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/middleware"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/usecases"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/jwt"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/metrics"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize metrics registry
	metrics.Init()

	if cfg.Security.UsingInsecureCardKey() {
		logger.Warn(context.Background(), "CARD_ENCRYPTION_KEY is unset, using the insecure development default")
	}

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service and the secret codec
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	codec := crypto.NewCodec(crypto.CodecConfig{Key: cfg.Security.CardEncryptionKey})
	ticketStore := redis.NewTicketStore(cfg.Security.RevealTicketTTL)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	cardDetailRepo := repositories.NewCardDetailRepository(db)
	activityLogRepo := repositories.NewActivityLogRepository(db)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, activityLogRepo, jwtService, ticketStore)
	cardDetailUsecase := usecases.NewCardDetailUsecase(userRepo, cardDetailRepo, activityLogRepo, codec, ticketStore)
	migrationUsecase := usecases.NewCardMigrationUsecase(userRepo, cardDetailRepo, activityLogRepo, codec)
	borrowerUsecase := usecases.NewBorrowerUsecase(userRepo, activityLogRepo, cardDetailUsecase)
	userUsecase := usecases.NewUserUsecase(userRepo, cardDetailRepo)
	activityLogUsecase := usecases.NewActivityLogUsecase(activityLogRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	cardDetailHandler := handlers.NewCardDetailHandler(cardDetailUsecase)
	adminHandler := handlers.NewAdminHandler(migrationUsecase, userUsecase, cfg.Security.ImportMaxBytes)
	borrowerHandler := handlers.NewBorrowerHandler(borrowerUsecase)
	activityLogHandler := handlers.NewActivityLogHandler(activityLogUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:        authHandler,
		cardDetailHandler:  cardDetailHandler,
		adminHandler:       adminHandler,
		borrowerHandler:    borrowerHandler,
		activityLogHandler: activityLogHandler,
		authMiddleware:     authMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Start server
	log.Printf("🚀 Lend-Master Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
