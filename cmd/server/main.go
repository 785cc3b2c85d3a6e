package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/rental-backend/internal/config"
	"github.com/ignatzorin/rental-backend/internal/db"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/goroutine"
	httpRouter "github.com/ignatzorin/rental-backend/internal/http/router"
	"github.com/ignatzorin/rental-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/rental-backend/internal/infrastructure/notification"
	"github.com/ignatzorin/rental-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/rental-backend/internal/interface/http/handler"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/service"
	"github.com/ignatzorin/rental-backend/internal/storage"
	"github.com/ignatzorin/rental-backend/internal/usecase/application"
	notificationUC "github.com/ignatzorin/rental-backend/internal/usecase/notification"
	"github.com/ignatzorin/rental-backend/internal/usecase/profile"
	"github.com/ignatzorin/rental-backend/internal/usecase/property"
	"github.com/ignatzorin/rental-backend/internal/usecase/rating"
	"github.com/ignatzorin/rental-backend/internal/usecase/reconcile"
	"github.com/ignatzorin/rental-backend/internal/usecase/trustscore"
	"github.com/ignatzorin/rental-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	valueobject.DefaultCurrency = cfg.DefaultCurrency

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	health := map[string]handler.Pinger{"database": dbConn}

	// Кэш оценок доверия: redis, если задан, иначе в памяти процесса.
	var scoreCache trustscore.Cache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatalf("main: ошибка подключения к redis: %v", err)
		}
		defer closeRedis(redisClient)
		scoreCache = cache.NewRedisCache(redisClient, cfg.TrustCacheTTL)
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	} else {
		scoreCache = cache.NewMemoryCache(ctx, cfg.TrustCacheTTL)
	}

	documents, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.Fatalf("main: не удалось подготовить хранилище документов: %v", err)
	}

	// Репозитории.
	transactor := persistence.NewTransactor(dbConn)
	applicationRepo := persistence.NewApplicationRepositoryAdapter(dbConn)
	transactionRepo := persistence.NewTransactionRepositoryAdapter(dbConn)
	propertyRepo := persistence.NewPropertyRepositoryAdapter(dbConn)
	userRepo := persistence.NewUserRepositoryAdapter(dbConn)
	ratingRepo := persistence.NewRatingRepositoryAdapter(dbConn)
	notificationRepo := persistence.NewNotificationRepositoryAdapter(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.GoWithContext(ctx, "ws-hub", hub.Run)

	var email notificationUC.EmailSender
	if cfg.EmailEnabled() {
		sender, err := notification.NewSESSender(ctx, cfg.AWSRegion, cfg.SESFromEmail)
		if err != nil {
			logger.Log.Fatalf("main: ошибка настройки SES: %v", err)
		}
		email = sender
	}

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	calculator := trustscore.NewCalculator(userRepo, userRepo, ratingRepo, scoreCache)
	dispatcher := notificationUC.NewDispatcher(notificationRepo, userRepo, hub, email)

	applicationDeps := application.Deps{
		Tx:           transactor,
		Applications: applicationRepo,
		Transactions: transactionRepo,
		Properties:   propertyRepo,
		Profiles:     userRepo,
		Notifier:     dispatcher,
		Trust:        calculator,
	}
	profileService := profile.NewService(profile.Deps{
		Users:     userRepo,
		Profiles:  userRepo,
		Documents: documents,
		Trust:     calculator,
	})

	// Сверка состояния: один проход при старте, дальше по расписанию.
	reconciler := reconcile.NewReconciler(applicationRepo, transactionRepo, propertyRepo, userRepo, calculator)
	goroutine.GoWithContext(ctx, "reconcile-startup", func(ctx context.Context) {
		_, _ = reconciler.Run(ctx)
	})
	scheduler := reconcile.NewScheduler(reconciler)
	if err := scheduler.Start(ctx, cfg.ReconcileSchedule); err != nil {
		logger.Log.Fatalf("main: %v", err)
	}
	defer scheduler.Stop()

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Applications:  handler.NewApplicationHandler(applicationDeps),
		Properties:    handler.NewPropertyHandler(property.NewService(propertyRepo, cfg.DefaultCurrency)),
		Profiles:      handler.NewProfileHandler(profileService, cfg.MaxUploadSizeMB),
		Trust:         handler.NewTrustHandler(calculator, rating.NewService(applicationRepo, propertyRepo, ratingRepo, calculator)),
		Notifications: handler.NewNotificationHandler(notificationUC.NewService(notificationRepo)),
		WS:            handler.NewWSHandler(hub, cfg.AllowedOrigins),
		Health:        handler.NewHealthHandler(health),
	}, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.Errorf("main: ошибка закрытия базы: %v", err)
	}
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		logger.Log.Errorf("main: ошибка закрытия redis: %v", err)
	}
}
