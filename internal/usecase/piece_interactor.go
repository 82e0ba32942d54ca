package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/WardrobeApp/internal/core/ports"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultPieceLimit = 20

// PieceInteractor реализует PieceUseCase
type PieceInteractor struct {
	pieces     PieceCatalog
	categories CategoryStorage
	cascade    ports.CascadePublisher
	logger     *slog.Logger
}

// NewPieceInteractor создает новый экземпляр PieceInteractor
func NewPieceInteractor(pieces PieceCatalog, categories CategoryStorage, cascade ports.CascadePublisher, logger *slog.Logger) *PieceInteractor {
	return &PieceInteractor{
		pieces:     pieces,
		categories: categories,
		cascade:    cascade,
		logger:     logger,
	}
}

// validatePiece проверяет поля вещи; excludeID исключает саму вещь
// из проверки уникальности при обновлении
func (i *PieceInteractor) validatePiece(ctx context.Context, input PieceInput, excludeID uuid.UUID) error {
	ve := domain.NewValidationError()

	if input.Name == "" {
		ve.Add("name", "Name cannot be empty")
	}

	if !domain.ValidGender(input.Gender) {
		ve.Add("gender", "Please, select gender")
	}

	categoryID, err := uuid.Parse(input.Category)
	if input.Category == "" || err != nil {
		ve.Add("category", "Please, choose a category")
	} else if _, err := i.categories.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ve.Add("category", "Please, choose a category")
		} else {
			return fmt.Errorf("ошибка проверки категории: %w", err)
		}
	}

	if input.Name != "" && domain.ValidGender(input.Gender) {
		taken, err := i.pieces.PieceNameTaken(ctx, input.Name, input.Gender, excludeID)
		if err != nil {
			return fmt.Errorf("ошибка проверки имени вещи: %w", err)
		}
		if taken {
			ve.Add("name", "The piece with that name already exists")
		}
	}

	return ve.OrNil()
}

// CreatePiece валидирует данные и создает вещь в каталоге
func (i *PieceInteractor) CreatePiece(ctx context.Context, input PieceInput) (*domain.Piece, error) {
	if err := i.validatePiece(ctx, input, uuid.Nil); err != nil {
		return nil, err
	}

	categoryID, _ := uuid.Parse(input.Category)
	piece := &domain.Piece{
		Name:       input.Name,
		Gender:     input.Gender,
		CategoryID: categoryID,
		Img:        input.Img,
	}

	if err := i.pieces.CreatePiece(ctx, piece); err != nil {
		return nil, fmt.Errorf("ошибка создания вещи: %w", err)
	}

	i.logger.Info("Вещь добавлена в каталог",
		slog.String("piece_id", piece.ID.String()),
		slog.String("name", piece.Name))

	return piece, nil
}

// UpdatePiece применяет частичное обновление и перепроверяет инварианты
func (i *PieceInteractor) UpdatePiece(ctx context.Context, id uuid.UUID, patch PiecePatch) error {
	piece, err := i.pieces.GetPieceByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil {
		piece.Name = *patch.Name
	}
	if patch.Gender != nil {
		piece.Gender = *patch.Gender
	}
	if patch.Category != nil {
		categoryID, err := uuid.Parse(*patch.Category)
		if err != nil {
			categoryID = uuid.Nil
		}
		piece.CategoryID = categoryID
	}
	if patch.Img != nil {
		piece.Img = *patch.Img
	}

	input := PieceInput{
		Name:     piece.Name,
		Gender:   piece.Gender,
		Category: piece.CategoryID.String(),
		Img:      piece.Img,
	}
	if piece.CategoryID == uuid.Nil {
		input.Category = ""
	}
	if err := i.validatePiece(ctx, input, id); err != nil {
		return err
	}

	return i.pieces.UpdatePiece(ctx, piece)
}

// DeletePiece удаляет вещь и ставит задачу каскадного удаления
// зависимых образов в очередь
func (i *PieceInteractor) DeletePiece(ctx context.Context, id uuid.UUID) error {
	if err := i.pieces.DeletePiece(ctx, id); err != nil {
		return err
	}

	payload := payloads.CascadePayload{Kind: payloads.CascadePieceDeleted, ID: id.String()}
	if err := i.cascade.PublishCascadeTask(ctx, payload); err != nil {
		return fmt.Errorf("ошибка публикации задачи очистки вещи: %w", err)
	}

	i.logger.Info("Вещь удалена из каталога", slog.String("piece_id", id.String()))
	return nil
}

// FindPieces возвращает страницу каталога. Анонимная выборка допустима:
// без пользователя флаг inWardrobe всегда false, фильтр по гардеробу пуст.
func (i *PieceInteractor) FindPieces(ctx context.Context, user *domain.User, filter domain.PieceFilter) (*domain.PiecePage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPieceLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	var wardrobe pq.StringArray
	if user != nil {
		wardrobe = user.Wardrobe
	}

	pieces, total, err := i.pieces.FindPieces(ctx, filter, wardrobe)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки каталога вещей: %w", err)
	}

	page := &domain.PiecePage{
		Pieces: make([]domain.PieceForUser, 0, len(pieces)),
		Limit:  filter.Limit,
		Skip:   filter.Skip,
		Total:  total,
	}
	for _, piece := range pieces {
		page.Pieces = append(page.Pieces, domain.PieceForUser{
			Piece:      piece,
			InWardrobe: user != nil && user.OwnsPiece(piece.ID.String()),
		})
	}

	return page, nil
}
