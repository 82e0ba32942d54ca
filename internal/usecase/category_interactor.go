package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CategoryInteractor реализует CategoryUseCase
type CategoryInteractor struct {
	categories CategoryStorage
	logger     *slog.Logger
}

// NewCategoryInteractor создает новый экземпляр CategoryInteractor
func NewCategoryInteractor(categories CategoryStorage, logger *slog.Logger) *CategoryInteractor {
	return &CategoryInteractor{categories: categories, logger: logger}
}

// GetCategoryTree выбирает все категории и собирает из них лес
func (i *CategoryInteractor) GetCategoryTree(ctx context.Context) ([]*domain.CategoryNode, error) {
	categories, err := i.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	return buildCategoryTree(categories), nil
}

// buildCategoryTree собирает лес из плоского списка. Список приходит
// в порядке создания, поэтому дети внутри узла упорядочены так же.
// Узел с отсутствующим родителем поднимается в корень, а не теряется.
func buildCategoryTree(categories []domain.Category) []*domain.CategoryNode {
	nodes := make(map[uuid.UUID]*domain.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &domain.CategoryNode{
			ID:       c.ID,
			Name:     c.Name,
			Gender:   c.Gender,
			ParentID: c.ParentID,
			Children: []*domain.CategoryNode{},
		}
	}

	roots := make([]*domain.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

func (i *CategoryInteractor) validateCategory(ctx context.Context, name, gender string, excludeID uuid.UUID) error {
	ve := domain.NewValidationError()

	if name == "" {
		ve.Add("name", "Name cannot be empty")
	}

	if gender != "" && !domain.ValidGender(gender) {
		ve.Add("gender", "Please, select gender")
	}

	if name != "" {
		taken, err := i.categories.CategoryNameTaken(ctx, name, gender, excludeID)
		if err != nil {
			return fmt.Errorf("ошибка проверки имени категории: %w", err)
		}
		if taken {
			ve.Add("name", "The category with that name already exists")
		}
	}

	return ve.OrNil()
}

// CreateCategory создает узел дерева. Цепочка предков нового узла —
// цепочка родителя плюс сам родитель.
func (i *CategoryInteractor) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	ve := domain.NewValidationError()

	var parent *domain.Category
	if input.Parent != "" {
		parentID, err := uuid.Parse(input.Parent)
		if err != nil {
			ve.Add("parent", "Parent category does not exist")
		} else {
			parent, err = i.categories.GetCategoryByID(ctx, parentID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					ve.Add("parent", "Parent category does not exist")
				} else {
					return nil, fmt.Errorf("ошибка получения родительской категории: %w", err)
				}
			}
		}
	}

	if err := i.validateCategory(ctx, input.Name, input.Gender, uuid.Nil); err != nil {
		if fieldErrs, ok := domain.AsValidationError(err); ok {
			for field, message := range fieldErrs.Fields {
				ve.Add(field, message)
			}
		} else {
			return nil, err
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:      input.Name,
		Gender:    input.Gender,
		Ancestors: pq.StringArray{},
	}
	if parent != nil {
		category.ParentID = &parent.ID
		category.Ancestors = append(append(pq.StringArray{}, parent.Ancestors...), parent.ID.String())
	}

	if err := i.categories.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("ошибка создания категории: %w", err)
	}

	i.logger.Info("Категория создана",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))

	return category, nil
}

// RenameCategory переименовывает узел с проверкой уникальности имени
func (i *CategoryInteractor) RenameCategory(ctx context.Context, id uuid.UUID, name string) error {
	category, err := i.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	if err := i.validateCategory(ctx, name, category.Gender, id); err != nil {
		return err
	}

	return i.categories.RenameCategory(ctx, id, name)
}

// DeleteCategory удаляет узел; его дети переподвешиваются к родителю
// удаляемого узла внутри транзакции хранилища
func (i *CategoryInteractor) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := i.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	if err := i.categories.DeleteCategory(ctx, category); err != nil {
		return err
	}

	i.logger.Info("Категория удалена", slog.String("category_id", id.String()))
	return nil
}
