package routes

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"local-branch/internal/controllers"
	"local-branch/internal/repositories"
	"local-branch/internal/services"
	"local-branch/pkg/config"
	"local-branch/pkg/middleware"
	"local-branch/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: registering routes")

	api := e.Group("/api")

	// --- 1. ИНФРАСТРУКТУРА ---
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.TokenTTL, logger.Named("jwt"))
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger.Named("auth"))
	txManager := repositories.NewTxManager(dbConn)

	// --- 2. РЕПОЗИТОРИИ ---
	branchRepo := repositories.NewLocalBranchRepository(dbConn, logger.Named("repository"))
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 3. СЕРВИСЫ ---
	authService := services.NewAuthService(hasher, jwtSvc, cacheRepo, logger.Named("auth"), &cfg.Auth)
	branchService := services.NewLocalBranchService(branchRepo, txManager, authService, logger.Named("local_branch"))

	// --- 4. КОНТРОЛЛЕРЫ ---
	branchCtrl := controllers.NewLocalBranchController(branchService, authService, logger.Named("local_branch"))
	healthCtrl := controllers.NewHealthController(map[string]controllers.Pinger{
		"postgres": dbConn,
		"redis": controllers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}, logger.Named("health"))

	// --- 5. РОУТЕРЫ ---
	api.GET("/health", healthCtrl.Health)
	runLocalBranchRouter(api, branchCtrl, authMW)

	logger.Info("InitRouter: routes registered")
}
