package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tarsier/internal/routes"
	"tarsier/pkg/clock"
	"tarsier/pkg/config"
	"tarsier/pkg/database/postgresql"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/eventbus"
	applogger "tarsier/pkg/logger"
	"tarsier/pkg/metrics"
	appmw "tarsier/pkg/middleware"
	"tarsier/pkg/service"
	"tarsier/pkg/utils"
	"tarsier/pkg/validation"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Паника при обработке запроса",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(logger.Named("http")))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))

	v, err := validation.New()
	if err != nil {
		logger.Fatal("Ошибка регистрации правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("не удалось зарегистрировать метрики", zap.Error(err))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	bus := eventbus.New(logger.Named("eventbus"))
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.TokenTTL)

	routes.InitRouter(e, routes.Deps{
		DB:      dbConn,
		Redis:   redisClient,
		JWT:     jwtSvc,
		Bus:     bus,
		Metrics: appMetrics,
		Clock:   clock.Real(),
		Config:  cfg,
		Logger:  logger,
	})

	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	// уведомления, опубликованные до остановки, должны уйти
	bus.Wait()
}
