package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserStorage реализует хранилище пользователей поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
	INSERT INTO users (id, name, password_hash, gender, roles, wardrobe, favorites, hidden_looks, created_at, updated_at)
	VALUES (:id, :name, :password_hash, :gender, :roles, :wardrobe, :favorites, :hidden_looks, :created_at, :updated_at)
	`

	_, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.Error("failed to create user", "name", user.Name, "error", err)
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя вместе с его множествами
func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}
	return &user, nil
}

// GetUserByName получает пользователя по имени (для логина)
func (s *UserStorage) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get user by name", "name", name, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по имени: %w", err)
	}
	return &user, nil
}

// NameTaken проверяет занятость имени пользователя
func (s *UserStorage) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
	}
	return count > 0, nil
}

// SaveUserSets сохраняет множества wardrobe/favorites/hidden_looks пользователя.
// Read-modify-write без блокировок: при конкурентных запросах побеждает
// последняя запись, операции идемпотентны на уровне домена.
func (s *UserStorage) SaveUserSets(ctx context.Context, user *domain.User) error {
	start := time.Now()

	query := `
	UPDATE users
	SET wardrobe = :wardrobe, favorites = :favorites, hidden_looks = :hidden_looks, updated_at = now()
	WHERE id = :id
	`

	_, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.Error("failed to save user sets", "user_id", user.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении множеств пользователя: %w", err)
	}

	s.logger.Info("user sets saved",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ScrubLookRefs вычищает id удаленного образа из favorites и hidden_looks
// всех пользователей. Вызывается воркером каскадной очистки.
func (s *UserStorage) ScrubLookRefs(ctx context.Context, lookID uuid.UUID) error {
	start := time.Now()

	query := `
	UPDATE users
	SET favorites = array_remove(favorites, $1), hidden_looks = array_remove(hidden_looks, $1), updated_at = now()
	WHERE $1 = ANY(favorites) OR $1 = ANY(hidden_looks)
	`

	res, err := s.db.ExecContext(ctx, query, lookID.String())
	if err != nil {
		s.logger.Error("failed to scrub look refs", "look_id", lookID, "error", err)
		return fmt.Errorf("ошибка при очистке ссылок на образ: %w", err)
	}

	affected, _ := res.RowsAffected()
	s.logger.Info("look refs scrubbed",
		"look_id", lookID,
		"users_affected", affected,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
