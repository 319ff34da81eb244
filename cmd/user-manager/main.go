// Точка входа user-manager-api — сервис онбординга SFTP-клиентов.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт репозитории, сервисы и API handlers, запускает topologymetrics
// и HTTP-сервер с Bearer-аутентификацией и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/api/handlers"
	"github.com/nicflores/user-manager-api/internal/api/middleware"
	"github.com/nicflores/user-manager-api/internal/config"
	"github.com/nicflores/user-manager-api/internal/database"
	"github.com/nicflores/user-manager-api/internal/repository"
	"github.com/nicflores/user-manager-api/internal/secrets"
	"github.com/nicflores/user-manager-api/internal/server"
	"github.com/nicflores/user-manager-api/internal/service"
	"github.com/nicflores/user-manager-api/internal/sshkey"
)

const serviceID = "user-manager-api"

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("user-manager-api запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("auth_mode", cfg.AuthMode),
	)

	if os.Getenv("UM_DEPHEALTH_GROUP") == "" {
		logger.Warn("UM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Шифрование секретов и генератор ключей
	sealer, err := secrets.NewSealer(cfg.SecretsKey)
	if err != nil {
		logger.Error("Ошибка инициализации шифрования секретов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if sealer.Ephemeral() {
		logger.Warn("UM_SECRETS_KEY не задан, используется временный ключ: секреты не расшифруются после рестарта")
	}
	keys := sshkey.NewGenerator(cfg.KeygenWorkers)

	// 6. Repositories
	clientRepo := repository.NewClientRepository(pool)
	vendorRepo := repository.NewVendorRepository(pool)
	sftpRepo := repository.NewSFTPRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)

	// 7. Services
	clientsSvc := service.NewClientService(clientRepo, logger)
	vendorsSvc := service.NewVendorService(vendorRepo, sealer, logger)
	provisioningSvc := service.NewProvisioningService(clientRepo, sftpRepo, keys, sealer, logger)
	agentsSvc := service.NewAgentService(agentRepo, logger)

	// 8. Handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		clientsSvc,
		vendorsSvc,
		provisioningSvc,
		agentsSvc,
		cfg.Public(secrets.Mask),
		logger,
	)

	// 9. Проверка Bearer-токенов
	var validator middleware.TokenValidator
	jwksURL := ""
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		jwtValidator, jwtErr := middleware.NewJWTValidator(
			cfg.JWTJWKSURL,
			cfg.JWKSRefreshInterval,
			middleware.JWTOptions{
				Issuer:         cfg.JWTIssuer,
				GroupsClaim:    cfg.JWTGroupsClaim,
				AdminGroups:    cfg.RoleAdminGroups,
				ReadonlyGroups: cfg.RoleReadonlyGroups,
				Leeway:         cfg.JWTLeeway,
			},
			logger,
		)
		if jwtErr != nil {
			logger.Error("Ошибка создания JWT-валидатора", slog.String("error", jwtErr.Error()))
			os.Exit(1)
		}
		validator = jwtValidator
		jwksURL = cfg.JWTJWKSURL
		logger.Info("JWT-аутентификация инициализирована",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	default:
		validator = middleware.NewStaticTokenValidator(cfg.APIKey)
		logger.Info("Аутентификация по общему ключу")
	}
	validator = middleware.NewCachingValidator(validator, cfg.AuthCacheSize, cfg.AuthCacheTTL)

	// 10. topologymetrics — мониторинг зависимостей (PostgreSQL, JWKS)
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthParams{
		ServiceID:     serviceID,
		Group:         cfg.DephealthGroup,
		DB:            pgDB,
		PostgresURL:   cfg.DatabaseURL("postgres"),
		JWKSURL:       jwksURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		healthHandler.SetDependencies(dephealthSvc)
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 11. OpenAPI-контракт для валидации запросов
	swagger, err := generated.GetSwagger()
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI-контракта", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Создание и запуск HTTP-сервера
	srv, err := server.New(cfg, logger, apiHandler, validator, swagger)
	if err != nil {
		logger.Error("Ошибка создания HTTP-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("user-manager-api остановлен")
}
