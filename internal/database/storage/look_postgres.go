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
	"github.com/lib/pq"
)

// LookStorage реализует хранилище образов поверх sqlx
type LookStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewLookStorage(db *sqlx.DB, logger *slog.Logger) *LookStorage {
	return &LookStorage{db: db, logger: logger}
}

// CreateLook сохраняет образ. Порядковый номер seq выдает база,
// он и задает детерминированный порядок создания.
func (s *LookStorage) CreateLook(ctx context.Context, look *domain.Look) error {
	start := time.Now()

	if look.ID == uuid.Nil {
		look.ID = uuid.New()
	}
	now := time.Now()
	look.CreatedAt = now
	look.UpdatedAt = now

	query := `
	INSERT INTO looks (id, pieces, gender, season, img, author_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING seq
	`

	err := s.db.QueryRowxContext(ctx, query,
		look.ID, look.Pieces, look.Gender, look.Season, look.Img, look.AuthorID, look.CreatedAt, look.UpdatedAt,
	).Scan(&look.Seq)
	if err != nil {
		s.logger.Error("failed to create look", "look_id", look.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении образа: %w", err)
	}

	s.logger.Info("look created",
		"look_id", look.ID,
		"seq", look.Seq,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetLookByID получает образ по ID
func (s *LookStorage) GetLookByID(ctx context.Context, id uuid.UUID) (*domain.Look, error) {
	var look domain.Look
	err := s.db.GetContext(ctx, &look, `SELECT * FROM looks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get look by id", "look_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении образа по ID: %w", err)
	}
	return &look, nil
}

// DeleteLook удаляет образ. Удаление строки синхронное: сразу после него
// образ недоступен, очистка ссылок у пользователей уходит в очередь.
func (s *LookStorage) DeleteLook(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `DELETE FROM looks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete look", "look_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении образа: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при удалении образа: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.logger.Info("look deleted",
		"look_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FindCandidateLooks выбирает образы-кандидаты для ранжирования:
// совпадение пола, пересечение с гардеробом (&& по массиву) и,
// если задан, сезон. Видимость, оценку и пагинацию применяет движок
// ранжирования поверх этой выборки.
func (s *LookStorage) FindCandidateLooks(ctx context.Context, gender, season string, wardrobe pq.StringArray) ([]domain.Look, error) {
	start := time.Now()

	query := `SELECT * FROM looks WHERE gender = $1 AND pieces && $2::text[]`
	args := []interface{}{gender, wardrobe}
	if season != "" {
		query += ` AND season = $3`
		args = append(args, season)
	}
	query += ` ORDER BY seq ASC`

	var looks []domain.Look
	if err := s.db.SelectContext(ctx, &looks, query, args...); err != nil {
		s.logger.Error("failed to find candidate looks", "gender", gender, "season", season, "error", err)
		return nil, fmt.Errorf("ошибка при выборке образов-кандидатов: %w", err)
	}

	s.logger.Info("candidate looks selected",
		"gender", gender,
		"season", season,
		"count", len(looks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return looks, nil
}

// ListLooksByPiece возвращает все образы, содержащие указанную вещь.
// Используется воркером каскадной очистки после удаления вещи.
func (s *LookStorage) ListLooksByPiece(ctx context.Context, pieceID uuid.UUID) ([]domain.Look, error) {
	var looks []domain.Look
	query := `SELECT * FROM looks WHERE $1 = ANY(pieces) ORDER BY seq ASC`

	if err := s.db.SelectContext(ctx, &looks, query, pieceID.String()); err != nil {
		s.logger.Error("failed to list looks by piece", "piece_id", pieceID, "error", err)
		return nil, fmt.Errorf("ошибка при выборке образов по вещи: %w", err)
	}
	return looks, nil
}
