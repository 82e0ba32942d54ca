package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryStorage реализует хранилище дерева категорий с использованием GORM
type GormCategoryStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormCategoryStorage(db *gorm.DB, logger *slog.Logger) *GormCategoryStorage {
	return &GormCategoryStorage{db: db, logger: logger}
}

// ListCategories возвращает все категории в порядке создания.
// Дерево собирается на уровне usecase из parent_id.
func (s *GormCategoryStorage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	result := s.db.WithContext(ctx).Order("seq ASC").Find(&categories)
	if result.Error != nil {
		s.logger.Error("failed to list categories", "error", result.Error)
		return nil, fmt.Errorf("ошибка при выборке категорий: %w", result.Error)
	}
	return categories, nil
}

// GetCategoryByID получает категорию по ID
func (s *GormCategoryStorage) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category
	result := s.db.WithContext(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении категории по ID: %w", result.Error)
	}
	return &category, nil
}

// CategoryNameTaken проверяет занятость пары (имя, пол)
func (s *GormCategoryStorage) CategoryNameTaken(ctx context.Context, name, gender string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&domain.Category{}).Where("name = ? AND gender = ?", name, gender)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if result := query.Count(&count); result.Error != nil {
		return false, fmt.Errorf("ошибка при проверке имени категории: %w", result.Error)
	}
	return count > 0, nil
}

// CreateCategory сохраняет категорию; ancestors уже вычислены из родителя
func (s *GormCategoryStorage) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result := s.db.WithContext(ctx).Create(category)
	if result.Error != nil {
		s.logger.Error("failed to create category", "name", category.Name, "error", result.Error)
		return fmt.Errorf("ошибка при создании категории: %w", result.Error)
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	return nil
}

// RenameCategory переименовывает категорию
func (s *GormCategoryStorage) RenameCategory(ctx context.Context, id uuid.UUID, name string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("ошибка при переименовании категории: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCategory удаляет категорию одной транзакцией: дети переподвешиваются
// к родителю удаляемого узла, id узла вычищается из всех ancestors.
func (s *GormCategoryStorage) DeleteCategory(ctx context.Context, category *domain.Category) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// вещи переезжают к родителю; у корневой категории родителя нет,
		// поэтому удалить ее можно только пустой
		if category.ParentID != nil {
			if result := tx.Exec(
				`UPDATE pieces SET category_id = ?, updated_at = now() WHERE category_id = ?`,
				*category.ParentID, category.ID,
			); result.Error != nil {
				return result.Error
			}
		} else {
			var pieceCount int64
			if result := tx.Model(&domain.Piece{}).Where("category_id = ?", category.ID).Count(&pieceCount); result.Error != nil {
				return result.Error
			}
			if pieceCount > 0 {
				ve := domain.NewValidationError()
				ve.Add("category", "The category is still in use")
				return ve.OrNil()
			}
		}

		if result := tx.Exec(
			`UPDATE piece_categories SET parent_id = ?, updated_at = now() WHERE parent_id = ?`,
			category.ParentID, category.ID,
		); result.Error != nil {
			return result.Error
		}

		if result := tx.Exec(
			`UPDATE piece_categories SET ancestors = array_remove(ancestors, ?), updated_at = now() WHERE ? = ANY(ancestors)`,
			category.ID.String(), category.ID.String(),
		); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&domain.Category{}, "id = ?", category.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if _, ok := domain.AsValidationError(err); ok {
			return err
		}
		s.logger.Error("failed to delete category", "category_id", category.ID, "error", err)
		return fmt.Errorf("ошибка при удалении категории: %w", err)
	}

	s.logger.Info("category deleted",
		"category_id", category.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
