package di

import (
	"github.com/GoArmGo/WardrobeApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/WardrobeApp/internal/app"
	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/config"
	"github.com/GoArmGo/WardrobeApp/internal/database/client"
	"github.com/GoArmGo/WardrobeApp/internal/database/postgres"
	"github.com/GoArmGo/WardrobeApp/internal/database/storage"
	"github.com/GoArmGo/WardrobeApp/internal/logger"
	"github.com/GoArmGo/WardrobeApp/internal/rabbitmq"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL: один пул, sqlx и gorm поверх него
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Хранилища
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	lookStorage := storage.NewLookStorage(dbClient.DB, slogger)
	pieceStorage := postgres.NewGormPieceStorage(dbClient.Gorm, slogger)
	categoryStorage := postgres.NewGormCategoryStorage(dbClient.Gorm, slogger)

	// 4. Внешние сервисы: S3/MinIO, RabbitMQ, Redis
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	sessions, err := auth.NewSessionStore(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Бизнес-логика
	userUseCase := usecase.NewUserInteractor(userStorage, pieceStorage, lookStorage, slogger)
	lookUseCase := usecase.NewLookInteractor(lookStorage, pieceStorage, userStorage, fileStorage, rabbitMQClient, slogger)
	pieceUseCase := usecase.NewPieceInteractor(pieceStorage, categoryStorage, rabbitMQClient, slogger)
	categoryUseCase := usecase.NewCategoryInteractor(categoryStorage, slogger)

	// 6. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient,
		sessions,
		userUseCase,
		userStorage,
		lookUseCase,
		pieceUseCase,
		categoryUseCase,
		fileStorage,
		rabbitMQClient,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
