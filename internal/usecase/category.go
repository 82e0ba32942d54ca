package usecase

import (
	"context"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
)

// CategoryStorage определяет интерфейс для взаимодействия с хранилищем категорий
type CategoryStorage interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CategoryNameTaken(ctx context.Context, name, gender string, excludeID uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	RenameCategory(ctx context.Context, id uuid.UUID, name string) error

	// DeleteCategory удаляет узел одной транзакцией с переподвешиванием поддерева
	DeleteCategory(ctx context.Context, category *domain.Category) error
}

// CategoryInput — данные создания категории
type CategoryInput struct {
	Name   string
	Gender string
	Parent string
}

// CategoryUseCase определяет бизнес-логику дерева категорий
type CategoryUseCase interface {
	// GetCategoryTree собирает лес категорий с вложенными детьми
	GetCategoryTree(ctx context.Context) ([]*domain.CategoryNode, error)

	// CreateCategory валидирует данные и вычисляет ancestors из родителя
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)

	RenameCategory(ctx context.Context, id uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
