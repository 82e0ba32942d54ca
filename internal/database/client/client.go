package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Client представляет клиент для взаимодействия с PostgreSQL.
// Держит одно соединение-пул: sqlx для запросов с массивами и ранжирования,
// gorm поверх того же пула для CRUD-хранилищ.
type Client struct {
	DB     *sqlx.DB
	Gorm   *gorm.DB
	logger *slog.Logger
}

// NewClient инициализирует новое подключение к PostgreSQL и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Error("failed to init gorm over existing pool", "error", err)
		return nil, fmt.Errorf("ошибка инициализации gorm: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Gorm: gormDB, logger: logger}, nil
}

// applyMigrations применяет все доступные миграции к бд
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	m, err := migrate.New(
		"file://internal/database/postgres/migrations",
		databaseURL,
	)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	if err == migrate.ErrNoChange {
		logger.Info("migrations up to date")
	} else {
		logger.Info("migrations applied")
	}
	return nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
