package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newUserTestEnv(pieces ...domain.Piece) (*mockUserStorage, *mockPieceCatalog, *mockLookStorage, *UserInteractor) {
	users := newMockUserStorage()
	catalog := newMockPieceCatalog(pieces...)
	looks := newMockLookStorage()
	it := NewUserInteractor(users, catalog, looks, testLogger())
	return users, catalog, looks, it
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     RegisterInput
		wantField string
		wantMsg   string
	}{
		{
			name:      "без имени",
			input:     RegisterInput{Password: "secret1", PasswordConfirm: "secret1"},
			wantField: "name",
			wantMsg:   "Username is required",
		},
		{
			name:      "имя короче четырех символов",
			input:     RegisterInput{Name: "bob", Password: "secret1", PasswordConfirm: "secret1"},
			wantField: "name",
			wantMsg:   "Username must be between 4 and 22 characters",
		},
		{
			name:      "имя длиннее допустимого",
			input:     RegisterInput{Name: strings.Repeat("x", 23), Password: "secret1", PasswordConfirm: "secret1"},
			wantField: "name",
			wantMsg:   "Username must be between 4 and 22 characters",
		},
		{
			name:      "без пароля",
			input:     RegisterInput{Name: "walter"},
			wantField: "password",
			wantMsg:   "Password is required",
		},
		{
			name:      "короткий пароль",
			input:     RegisterInput{Name: "walter", Password: "abc", PasswordConfirm: "abc"},
			wantField: "password",
			wantMsg:   "Password must be between 6 and 60 characters",
		},
		{
			name:      "пароль не подтвержден",
			input:     RegisterInput{Name: "walter", Password: "secret1", PasswordConfirm: "secret2"},
			wantField: "passwordConfirm",
			wantMsg:   "Password is not confirmed",
		},
		{
			name:      "некорректный пол",
			input:     RegisterInput{Name: "walter", Password: "secret1", PasswordConfirm: "secret1", Gender: "X"},
			wantField: "gender",
			wantMsg:   "Please, select gender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, it := newUserTestEnv()

			_, err := it.Register(context.Background(), tt.input)

			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
			}
			if got := ve.Fields[tt.wantField]; got != tt.wantMsg {
				t.Errorf("Fields[%q] = %q, want %q", tt.wantField, got, tt.wantMsg)
			}
		})
	}
}

func TestRegisterTakenName(t *testing.T) {
	users, _, _, it := newUserTestEnv()
	users.nameTaken = true

	_, err := it.Register(context.Background(), RegisterInput{
		Name: "walter", Password: "secret1", PasswordConfirm: "secret1",
	})

	ve, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
	if got := ve.Fields["name"]; got != "User with this name already exists" {
		t.Errorf("Fields[name] = %q", got)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	_, _, _, it := newUserTestEnv()

	user, err := it.Register(context.Background(), RegisterInput{
		Name: "walter", Password: "secret1", PasswordConfirm: "secret1", Gender: domain.GenderMale,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.PasswordHash == "secret1" {
		t.Fatal("пароль сохранен открытым текстом")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Errorf("хэш не совпадает с паролем: %v", err)
	}
}

func TestLogin(t *testing.T) {
	users, _, _, it := newUserTestEnv()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcryptCost)
	existing := &domain.User{ID: uuid.New(), Name: "walter", PasswordHash: string(hash)}
	users.users[existing.ID] = existing

	t.Run("успешный вход", func(t *testing.T) {
		user, err := it.Login(context.Background(), "walter", "secret1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if user.ID != existing.ID {
			t.Errorf("вернулся пользователь %s, want %s", user.ID, existing.ID)
		}
	})

	t.Run("неверный пароль", func(t *testing.T) {
		_, err := it.Login(context.Background(), "walter", "wrong")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("err = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("неизвестное имя", func(t *testing.T) {
		_, err := it.Login(context.Background(), "gus", "secret1")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("err = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestWardrobeMutators(t *testing.T) {
	shirt := testPiece("white shirt")
	users, _, _, it := newUserTestEnv(shirt)
	user := &domain.User{ID: uuid.New()}

	if err := it.AddToWardrobe(context.Background(), user, shirt.ID); err != nil {
		t.Fatalf("AddToWardrobe: %v", err)
	}
	if !user.OwnsPiece(shirt.ID.String()) {
		t.Fatal("вещь должна оказаться в гардеробе")
	}
	if users.saves != 1 {
		t.Errorf("сохранений множеств: %d, want 1", users.saves)
	}

	// несуществующая вещь — ErrNotFound, множества не сохраняются
	err := it.AddToWardrobe(context.Background(), user, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if users.saves != 1 {
		t.Errorf("сохранение при ошибке: saves = %d", users.saves)
	}

	if err := it.RemoveFromWardrobe(context.Background(), user, shirt.ID); err != nil {
		t.Fatalf("RemoveFromWardrobe: %v", err)
	}
	if user.OwnsPiece(shirt.ID.String()) {
		t.Error("вещь должна быть убрана из гардероба")
	}
}

func TestLookSetMutators(t *testing.T) {
	users, _, looks, it := newUserTestEnv()
	user := &domain.User{ID: uuid.New()}

	look := domain.Look{ID: uuid.New()}
	looks.add(look)

	if err := it.AddToFavorites(context.Background(), user, look.ID); err != nil {
		t.Fatalf("AddToFavorites: %v", err)
	}
	if !user.HasFavorite(look.ID.String()) {
		t.Error("образ должен попасть в избранное")
	}

	if err := it.HideLook(context.Background(), user, look.ID); err != nil {
		t.Fatalf("HideLook: %v", err)
	}
	if !user.HasHidden(look.ID.String()) {
		t.Error("образ должен попасть в скрытые")
	}

	if err := it.AddToFavorites(context.Background(), user, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("добавление несуществующего образа: err = %v, want ErrNotFound", err)
	}

	if err := it.RemoveFromFavorites(context.Background(), user, look.ID); err != nil {
		t.Fatalf("RemoveFromFavorites: %v", err)
	}
	if err := it.UnhideLook(context.Background(), user, look.ID); err != nil {
		t.Fatalf("UnhideLook: %v", err)
	}
	if user.HasFavorite(look.ID.String()) || user.HasHidden(look.ID.String()) {
		t.Error("образ должен быть убран из обоих множеств")
	}
	if users.saves != 4 {
		t.Errorf("сохранений множеств: %d, want 4", users.saves)
	}
}
