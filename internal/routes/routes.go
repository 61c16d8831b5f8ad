package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarsier/internal/controllers"
	"tarsier/internal/listeners"
	"tarsier/internal/repositories"
	"tarsier/internal/services"
	"tarsier/pkg/clock"
	"tarsier/pkg/config"
	"tarsier/pkg/eventbus"
	"tarsier/pkg/metrics"
	"tarsier/pkg/middleware"
	"tarsier/pkg/service"
)

// Deps - то, что создаётся в main и нужно маршрутизатору.
type Deps struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	JWT     service.JWTService
	Bus     *eventbus.Bus
	Metrics *metrics.Metrics
	Clock   clock.Clock
	Config  *config.Config
	Logger  *zap.Logger
}

func InitRouter(e *echo.Echo, deps Deps) {
	logger := deps.Logger
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, deps.Config.JWT.CookieName, logger.Named("auth"))
	txManager := repositories.NewTxManager(deps.DB)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(deps.DB)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB)
	changeRepo := repositories.NewEquipmentChangeRepository(deps.DB)
	bookingRepo := repositories.NewBookingRepository(deps.DB)
	equipmentTypeRepo := repositories.NewEquipmentTypeRepository(deps.DB)
	missionTypeRepo := repositories.NewMissionTypeRepository(deps.DB)
	perimeterRepo := repositories.NewPerimeterRepository(deps.DB)
	leakRepo := repositories.NewLeakRepository(deps.DB)
	frequencyRepo := repositories.NewFrequencyRepository(deps.DB)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)

	// --- 2. СЕРВИСЫ ---
	factorResolver := services.NewFactorResolver(
		changeRepo, equipmentRepo, cacheRepo, deps.Config.Booking.FactorCacheTTL, deps.Metrics, logger.Named("factor"),
	)
	admission := services.NewBookingAdmission(
		txManager, bookingRepo, deps.Clock, deps.Config.Booking.MinStartMargin, deps.Metrics, logger.Named("admission"),
	)

	authService := services.NewAuthService(userRepo, logger.Named("auth"))
	userService := services.NewUserService(userRepo, logger.Named("user"))
	equipmentService := services.NewEquipmentService(txManager, equipmentRepo, factorResolver, userRepo, deps.Clock, logger.Named("equipment"))
	equipmentTypeService := services.NewCatalogService("equipment types", equipmentTypeRepo, userRepo, logger)
	missionTypeService := services.NewCatalogService("mission types", missionTypeRepo, userRepo, logger)
	perimeterService := services.NewPerimeterService(txManager, perimeterRepo, userRepo, deps.Clock, logger.Named("perimeter"))
	bookingService := services.NewBookingService(bookingRepo, admission, equipmentRepo, userRepo, deps.Bus, logger.Named("booking"))
	leakService := services.NewLeakService(leakRepo, bookingRepo, factorResolver, userRepo, logger.Named("leak"))
	frequencyService := services.NewFrequencyService(frequencyRepo, userRepo, logger.Named("frequency"))

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	notificationService := services.NewMockNotificationService(logger.Named("mail"))
	listeners.NewBookingNotificationListener(notificationService, userRepo, logger.Named("listener")).Register(deps.Bus)

	// --- 4. КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(
		authService, userService, deps.JWT, deps.Config.JWT.CookieName, deps.Config.JWT.CookieSecure, logger.Named("auth"),
	)
	userController := controllers.NewUserController(userService, logger.Named("user"))
	equipmentController := controllers.NewEquipmentController(equipmentService, logger.Named("equipment"))
	equipmentTypeController := controllers.NewCatalogController(equipmentTypeService, logger)
	missionTypeController := controllers.NewCatalogController(missionTypeService, logger)
	perimeterController := controllers.NewPerimeterController(perimeterService, logger.Named("perimeter"))
	bookingController := controllers.NewBookingController(bookingService, logger.Named("booking"))
	leakController := controllers.NewLeakController(leakService, logger.Named("leak"))
	frequencyController := controllers.NewFrequencyController(frequencyService, logger.Named("frequency"))

	// --- 5. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController)
	runEquipmentRouter(secureGroup, equipmentController)
	runCatalogRouter(secureGroup.Group("/equipment-types"), equipmentTypeController)
	runCatalogRouter(secureGroup.Group("/mission-types"), missionTypeController)
	runPerimeterRouter(secureGroup, perimeterController)
	runBookingRouter(secureGroup, bookingController, leakController)
	runLeakRouter(secureGroup, leakController)
	runFrequencyRouter(secureGroup, frequencyController)

	logger.Info("INIT_ROUTER: Создание маршрутов завершено")
}
