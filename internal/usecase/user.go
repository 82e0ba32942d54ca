package usecase

import (
	"context"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет интерфейс для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser сохраняет нового пользователя
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByID получает пользователя вместе с его множествами
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetUserByName получает пользователя по имени (для логина)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)

	// NameTaken проверяет занятость имени
	NameTaken(ctx context.Context, name string) (bool, error)

	// SaveUserSets сохраняет множества wardrobe/favorites/hidden_looks
	SaveUserSets(ctx context.Context, user *domain.User) error

	// ScrubLookRefs вычищает id удаленного образа из множеств всех пользователей
	ScrubLookRefs(ctx context.Context, lookID uuid.UUID) error
}

// RegisterInput — данные регистрации
type RegisterInput struct {
	Name            string
	Password        string
	PasswordConfirm string
	Gender          string
}

// UserUseCase определяет бизнес-логику работы с пользователями и их множествами.
// Мутаторы множеств идемпотентны: PUT существующего и DELETE отсутствующего
// элемента — no-op, оба сохраняют пользователя явным вызовом хранилища.
type UserUseCase interface {
	// Register валидирует данные, хэширует пароль и создает пользователя
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login проверяет имя и пароль; при несовпадении возвращает ErrUnauthenticated
	Login(ctx context.Context, name, password string) (*domain.User, error)

	// Мутаторы гардероба: вещь должна существовать, иначе ErrNotFound
	AddToWardrobe(ctx context.Context, user *domain.User, pieceID uuid.UUID) error
	RemoveFromWardrobe(ctx context.Context, user *domain.User, pieceID uuid.UUID) error

	// Мутаторы избранного и скрытых образов: образ должен существовать
	AddToFavorites(ctx context.Context, user *domain.User, lookID uuid.UUID) error
	RemoveFromFavorites(ctx context.Context, user *domain.User, lookID uuid.UUID) error
	HideLook(ctx context.Context, user *domain.User, lookID uuid.UUID) error
	UnhideLook(ctx context.Context, user *domain.User, lookID uuid.UUID) error
}
