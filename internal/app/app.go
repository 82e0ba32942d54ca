package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/config"
	"github.com/GoArmGo/WardrobeApp/internal/core/ports"
	"github.com/GoArmGo/WardrobeApp/internal/database/client"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
)

// App собирает все зависимости приложения и управляет их жизненным циклом.
// Один бинарник работает в двух режимах: server (HTTP API) и worker
// (обработка задач каскадной очистки из очереди).
type App struct {
	Config *config.Config
	logger *slog.Logger

	dbClient *client.Client
	sessions *auth.SessionStore

	userUseCase     usecase.UserUseCase
	userStorage     usecase.UserStorage
	lookUseCase     usecase.LookUseCase
	pieceUseCase    usecase.PieceUseCase
	categoryUseCase usecase.CategoryUseCase

	fileStorage     ports.FileStorage
	cascadeConsumer ports.CascadeConsumer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	dbClient *client.Client,
	sessions *auth.SessionStore,
	userUseCase usecase.UserUseCase,
	userStorage usecase.UserStorage,
	lookUseCase usecase.LookUseCase,
	pieceUseCase usecase.PieceUseCase,
	categoryUseCase usecase.CategoryUseCase,
	fileStorage ports.FileStorage,
	cascadeConsumer ports.CascadeConsumer,
) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		dbClient:        dbClient,
		sessions:        sessions,
		userUseCase:     userUseCase,
		userStorage:     userStorage,
		lookUseCase:     lookUseCase,
		pieceUseCase:    pieceUseCase,
		categoryUseCase: categoryUseCase,
		fileStorage:     fileStorage,
		cascadeConsumer: cascadeConsumer,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до
// сигнала завершения
func (a *App) Run(ctx context.Context, mode *string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", *mode)

	var err error
	switch *mode {
	case "server":
		err = a.runServer(ctx)
	case "worker":
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", *mode)
	}
	if err != nil {
		return err
	}

	a.logger.Info("shutting down")
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}
	a.logger.Info("stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.logger.Error("failed to close session store", "error", err)
		}
	}

	if closer, ok := a.cascadeConsumer.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}
	return nil
}
