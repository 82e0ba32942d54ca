package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormPieceStorage реализует хранилище каталога вещей с использованием GORM
type GormPieceStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormPieceStorage(db *gorm.DB, logger *slog.Logger) *GormPieceStorage {
	return &GormPieceStorage{db: db, logger: logger}
}

// CreatePiece сохраняет новую вещь в каталоге
func (s *GormPieceStorage) CreatePiece(ctx context.Context, piece *domain.Piece) error {
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}
	now := time.Now()
	piece.CreatedAt = now
	piece.UpdatedAt = now

	result := s.db.WithContext(ctx).Create(piece)
	if result.Error != nil {
		s.logger.Error("failed to create piece", "name", piece.Name, "error", result.Error)
		return fmt.Errorf("ошибка при создании вещи: %w", result.Error)
	}

	s.logger.Info("piece created", "piece_id", piece.ID, "name", piece.Name)
	return nil
}

// UpdatePiece сохраняет измененную вещь
func (s *GormPieceStorage) UpdatePiece(ctx context.Context, piece *domain.Piece) error {
	piece.UpdatedAt = time.Now()

	result := s.db.WithContext(ctx).Save(piece)
	if result.Error != nil {
		s.logger.Error("failed to update piece", "piece_id", piece.ID, "error", result.Error)
		return fmt.Errorf("ошибка при обновлении вещи: %w", result.Error)
	}
	return nil
}

// DeletePiece удаляет вещь из каталога
func (s *GormPieceStorage) DeletePiece(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&domain.Piece{}, "id = ?", id)
	if result.Error != nil {
		s.logger.Error("failed to delete piece", "piece_id", id, "error", result.Error)
		return fmt.Errorf("ошибка при удалении вещи: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	s.logger.Info("piece deleted", "piece_id", id)
	return nil
}

// GetPieceByID получает вещь по ID
func (s *GormPieceStorage) GetPieceByID(ctx context.Context, id uuid.UUID) (*domain.Piece, error) {
	var piece domain.Piece
	result := s.db.WithContext(ctx).First(&piece, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении вещи по ID: %w", result.Error)
	}
	return &piece, nil
}

// PieceExists проверяет существование вещи
func (s *GormPieceStorage) PieceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&domain.Piece{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("ошибка при проверке существования вещи: %w", result.Error)
	}
	return count > 0, nil
}

// PieceNameTaken проверяет занятость пары (имя, пол) с исключением самой вещи при обновлении
func (s *GormPieceStorage) PieceNameTaken(ctx context.Context, name, gender string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&domain.Piece{}).Where("name = ? AND gender = ?", name, gender)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if result := query.Count(&count); result.Error != nil {
		return false, fmt.Errorf("ошибка при проверке имени вещи: %w", result.Error)
	}
	return count > 0, nil
}

// ListPiecesByIDs получает вещи по списку идентификаторов (для обогащения образов)
func (s *GormPieceStorage) ListPiecesByIDs(ctx context.Context, ids []string) ([]domain.Piece, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var pieces []domain.Piece
	result := s.db.WithContext(ctx).Where("id::text = ANY(?::text[])", pq.StringArray(ids)).Find(&pieces)
	if result.Error != nil {
		return nil, fmt.Errorf("ошибка при выборке вещей по списку ID: %w", result.Error)
	}
	return pieces, nil
}

// FindPieces выбирает страницу каталога по фильтрам: пол, подстрока имени
// без учета регистра, категория вместе с потомками (через ancestors),
// принадлежность гардеробу. Возвращает страницу и общее количество совпадений.
func (s *GormPieceStorage) FindPieces(ctx context.Context, filter domain.PieceFilter, wardrobe pq.StringArray) ([]domain.Piece, int64, error) {
	start := time.Now()

	query := s.db.WithContext(ctx).Model(&domain.Piece{})

	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != uuid.Nil {
		// Категория считается вместе со всеми потомками
		query = query.Where(
			"category_id IN (SELECT id FROM piece_categories WHERE id = ? OR ? = ANY(ancestors))",
			filter.CategoryID, filter.CategoryID.String(),
		)
	}
	if filter.InWardrobe {
		query = query.Where("id::text = ANY(?::text[])", wardrobe)
	}

	var total int64
	if result := query.Count(&total); result.Error != nil {
		s.logger.Error("failed to count pieces", "error", result.Error)
		return nil, 0, fmt.Errorf("ошибка при подсчете вещей: %w", result.Error)
	}

	var pieces []domain.Piece
	result := query.
		Order("created_at ASC, id ASC").
		Limit(filter.Limit).
		Offset(filter.Skip).
		Find(&pieces)
	if result.Error != nil {
		s.logger.Error("failed to find pieces", "error", result.Error)
		return nil, 0, fmt.Errorf("ошибка при выборке вещей: %w", result.Error)
	}

	s.logger.Info("pieces selected",
		"count", len(pieces),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pieces, total, nil
}
