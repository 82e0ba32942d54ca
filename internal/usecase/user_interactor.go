package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 8

const (
	minNameLen     = 4
	maxNameLen     = 22
	minPasswordLen = 6
	maxPasswordLen = 60
)

// UserInteractor реализует UserUseCase
type UserInteractor struct {
	users  UserStorage
	pieces PieceCatalog
	looks  LookStorage
	logger *slog.Logger
}

// NewUserInteractor создает новый экземпляр UserInteractor
func NewUserInteractor(users UserStorage, pieces PieceCatalog, looks LookStorage, logger *slog.Logger) *UserInteractor {
	return &UserInteractor{
		users:  users,
		pieces: pieces,
		looks:  looks,
		logger: logger,
	}
}

func (i *UserInteractor) validateRegistration(ctx context.Context, input RegisterInput) error {
	ve := domain.NewValidationError()

	switch nameLen := utf8.RuneCountInString(input.Name); {
	case input.Name == "":
		ve.Add("name", "Username is required")
	case nameLen < minNameLen || nameLen > maxNameLen:
		ve.Add("name", "Username must be between 4 and 22 characters")
	default:
		taken, err := i.users.NameTaken(ctx, input.Name)
		if err != nil {
			return fmt.Errorf("ошибка проверки имени пользователя: %w", err)
		}
		if taken {
			ve.Add("name", "User with this name already exists")
		}
	}

	switch passLen := len(input.Password); {
	case input.Password == "":
		ve.Add("password", "Password is required")
	case passLen < minPasswordLen || passLen > maxPasswordLen:
		ve.Add("password", "Password must be between 6 and 60 characters")
	case input.Password != input.PasswordConfirm:
		ve.Add("passwordConfirm", "Password is not confirmed")
	}

	if input.Gender != "" && !domain.ValidGender(input.Gender) {
		ve.Add("gender", "Please, select gender")
	}

	return ve.OrNil()
}

// Register валидирует данные, хэширует пароль и создает пользователя
func (i *UserInteractor) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := i.validateRegistration(ctx, input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	gender := input.Gender
	if gender == "" {
		gender = domain.GenderMale
	}

	user := &domain.User{
		Name:         input.Name,
		PasswordHash: string(hash),
		Gender:       gender,
	}

	if err := i.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	i.logger.Info("Пользователь зарегистрирован",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name))

	return user, nil
}

// Login проверяет имя и пароль. Несуществующее имя и неверный пароль
// неразличимы снаружи: оба дают ErrUnauthenticated.
func (i *UserInteractor) Login(ctx context.Context, name, password string) (*domain.User, error) {
	user, err := i.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	return user, nil
}

// AddToWardrobe добавляет вещь в гардероб пользователя
func (i *UserInteractor) AddToWardrobe(ctx context.Context, user *domain.User, pieceID uuid.UUID) error {
	if err := i.requirePiece(ctx, pieceID); err != nil {
		return err
	}
	user.AddToWardrobe(pieceID)
	return i.users.SaveUserSets(ctx, user)
}

// RemoveFromWardrobe убирает вещь из гардероба пользователя
func (i *UserInteractor) RemoveFromWardrobe(ctx context.Context, user *domain.User, pieceID uuid.UUID) error {
	if err := i.requirePiece(ctx, pieceID); err != nil {
		return err
	}
	user.RemoveFromWardrobe(pieceID)
	return i.users.SaveUserSets(ctx, user)
}

// AddToFavorites добавляет образ в избранное пользователя
func (i *UserInteractor) AddToFavorites(ctx context.Context, user *domain.User, lookID uuid.UUID) error {
	if err := i.requireLook(ctx, lookID); err != nil {
		return err
	}
	user.AddToFavorites(lookID)
	return i.users.SaveUserSets(ctx, user)
}

// RemoveFromFavorites убирает образ из избранного пользователя
func (i *UserInteractor) RemoveFromFavorites(ctx context.Context, user *domain.User, lookID uuid.UUID) error {
	if err := i.requireLook(ctx, lookID); err != nil {
		return err
	}
	user.RemoveFromFavorites(lookID)
	return i.users.SaveUserSets(ctx, user)
}

// HideLook скрывает образ из обычной выдачи пользователя
func (i *UserInteractor) HideLook(ctx context.Context, user *domain.User, lookID uuid.UUID) error {
	if err := i.requireLook(ctx, lookID); err != nil {
		return err
	}
	user.HideLook(lookID)
	return i.users.SaveUserSets(ctx, user)
}

// UnhideLook возвращает образ в обычную выдачу пользователя
func (i *UserInteractor) UnhideLook(ctx context.Context, user *domain.User, lookID uuid.UUID) error {
	if err := i.requireLook(ctx, lookID); err != nil {
		return err
	}
	user.UnhideLook(lookID)
	return i.users.SaveUserSets(ctx, user)
}

func (i *UserInteractor) requirePiece(ctx context.Context, pieceID uuid.UUID) error {
	exists, err := i.pieces.PieceExists(ctx, pieceID)
	if err != nil {
		return fmt.Errorf("ошибка проверки вещи: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

func (i *UserInteractor) requireLook(ctx context.Context, lookID uuid.UUID) error {
	if _, err := i.looks.GetLookByID(ctx, lookID); err != nil {
		return err
	}
	return nil
}
