package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// LookStorage определяет интерфейс для взаимодействия с хранилищем образов
type LookStorage interface {
	// CreateLook сохраняет образ и заполняет его порядковый номер seq
	CreateLook(ctx context.Context, look *domain.Look) error

	// GetLookByID получает образ по ID
	GetLookByID(ctx context.Context, id uuid.UUID) (*domain.Look, error)

	// DeleteLook синхронно удаляет строку образа
	DeleteLook(ctx context.Context, id uuid.UUID) error

	// FindCandidateLooks выбирает образы-кандидаты для ранжирования:
	// пол, пересечение с гардеробом и сезон (если задан), в порядке seq
	FindCandidateLooks(ctx context.Context, gender, season string, wardrobe pq.StringArray) ([]domain.Look, error)

	// ListLooksByPiece возвращает образы, содержащие вещь (для каскада)
	ListLooksByPiece(ctx context.Context, pieceID uuid.UUID) ([]domain.Look, error)
}

// ImageUpload — загружаемое изображение образа
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateLookInput — данные создания образа
type CreateLookInput struct {
	PieceIDs []string
	Gender   string
	Season   string
	Image    *ImageUpload // nil, когда файл не передан
}

// LookUseCase определяет бизнес-логику работы с образами.
// Центральная операция — FindLooksFor: ранжированная выборка образов
// по релевантности гардеробу пользователя.
type LookUseCase interface {
	// CreateLook валидирует данные, затем загружает изображение, затем
	// сохраняет запись. Ошибка валидации не оставляет ни записи, ни файла.
	CreateLook(ctx context.Context, author *domain.User, input CreateLookInput) (*domain.Look, error)

	// GetLookFor возвращает обогащенный образ для пользователя
	GetLookFor(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.LookForUser, error)

	// DeleteLook удаляет образ; разрешено только автору или администратору.
	// Очистка ссылок в множествах пользователей уходит задачей в очередь.
	DeleteLook(ctx context.Context, actor *domain.User, id uuid.UUID) error

	// FindLooksFor выполняет конвейер фильтр → оценка → сортировка →
	// пагинация → обогащение и возвращает страницу вместе с totalResults
	FindLooksFor(ctx context.Context, user *domain.User, q domain.LookQuery) (*domain.LookPage, error)

	// ProcessCascadeTask обрабатывает задачу каскадной очистки (воркер)
	ProcessCascadeTask(ctx context.Context, payload payloads.CascadePayload) error
}
