package usecase

import (
	"context"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PieceCatalog определяет интерфейс для взаимодействия с каталогом вещей
type PieceCatalog interface {
	CreatePiece(ctx context.Context, piece *domain.Piece) error
	UpdatePiece(ctx context.Context, piece *domain.Piece) error
	DeletePiece(ctx context.Context, id uuid.UUID) error
	GetPieceByID(ctx context.Context, id uuid.UUID) (*domain.Piece, error)
	PieceExists(ctx context.Context, id uuid.UUID) (bool, error)
	PieceNameTaken(ctx context.Context, name, gender string, excludeID uuid.UUID) (bool, error)

	// ListPiecesByIDs получает вещи по списку идентификаторов (для обогащения)
	ListPiecesByIDs(ctx context.Context, ids []string) ([]domain.Piece, error)

	// FindPieces выбирает страницу каталога и общее количество совпадений
	FindPieces(ctx context.Context, filter domain.PieceFilter, wardrobe pq.StringArray) ([]domain.Piece, int64, error)
}

// PieceInput — данные создания вещи
type PieceInput struct {
	Name     string
	Gender   string
	Category string
	Img      string
}

// PiecePatch — частичное обновление вещи; nil-поля не изменяются
type PiecePatch struct {
	Name     *string
	Gender   *string
	Category *string
	Img      *string
}

// PieceUseCase определяет бизнес-логику каталога вещей
type PieceUseCase interface {
	CreatePiece(ctx context.Context, input PieceInput) (*domain.Piece, error)
	UpdatePiece(ctx context.Context, id uuid.UUID, patch PiecePatch) error

	// DeletePiece удаляет вещь; удаление зависимых образов уходит в очередь
	DeletePiece(ctx context.Context, id uuid.UUID) error

	// FindPieces возвращает страницу каталога; при наличии пользователя
	// каждая вещь несет флаг inWardrobe
	FindPieces(ctx context.Context, user *domain.User, filter domain.PieceFilter) (*domain.PiecePage, error)
}
