package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/astrahq/auth-service/config"
	"github.com/astrahq/auth-service/internal/handler"
	"github.com/astrahq/auth-service/internal/middleware"
	"github.com/astrahq/auth-service/internal/repository"
	"github.com/astrahq/auth-service/internal/router"
	"github.com/astrahq/auth-service/internal/service"
	"github.com/astrahq/auth-service/pkg/database"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/astrahq/auth-service/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", "1.0.0"),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	tokenRepo := repository.NewAccessTokenRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Services
	cacheService := service.NewCacheService(redisClient, config.Redis.UserCacheTTL)
	tokenService := service.NewTokenService(config.JWT.Secret, config.JWT.ExpirationTime, tokenRepo)
	mailer := service.NewMailer(
		config.Mail.APIKey,
		config.Mail.FromEmail,
		config.App.Name,
		config.App.URL,
		config.Mail.DevMode,
		emailLogRepo,
	)
	authService := service.NewAuthService(userRepo, tokenService, mailer, cacheService)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, mailer, cacheService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	resetHandler := handler.NewPasswordResetHandler(resetService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	r := router.NewRouter(
		authHandler,
		resetHandler,
		healthHandler,
		authMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
