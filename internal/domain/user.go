package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Роли пользователя
const RoleAdmin = "admin"

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
// Поля wardrobe/favorites/hidden_looks — множества идентификаторов (uuid в виде строк).
type User struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Gender       string         `json:"gender" db:"gender"`
	Roles        pq.StringArray `json:"roles" db:"roles"`
	Wardrobe     pq.StringArray `json:"wardrobe" db:"wardrobe"`
	Favorites    pq.StringArray `json:"favorites" db:"favorites"`
	HiddenLooks  pq.StringArray `json:"hiddenLooks" db:"hidden_looks"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary — краткая информация об авторе, отдается вместе с образом
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

// IsAdmin проверяет наличие роли администратора
func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Мутаторы множеств идемпотентны: повторное добавление или удаление
// отсутствующего элемента ничего не меняет. Сохранение множеств в БД —
// отдельный явный вызов хранилища (read-modify-write).

func (u *User) AddToWardrobe(pieceID uuid.UUID) {
	u.Wardrobe = appendUnique(u.Wardrobe, pieceID.String())
}

func (u *User) RemoveFromWardrobe(pieceID uuid.UUID) {
	u.Wardrobe = removeAll(u.Wardrobe, pieceID.String())
}

func (u *User) AddToFavorites(lookID uuid.UUID) {
	u.Favorites = appendUnique(u.Favorites, lookID.String())
}

func (u *User) RemoveFromFavorites(lookID uuid.UUID) {
	u.Favorites = removeAll(u.Favorites, lookID.String())
}

func (u *User) HideLook(lookID uuid.UUID) {
	u.HiddenLooks = appendUnique(u.HiddenLooks, lookID.String())
}

func (u *User) UnhideLook(lookID uuid.UUID) {
	u.HiddenLooks = removeAll(u.HiddenLooks, lookID.String())
}

// OwnsPiece сообщает, есть ли вещь в гардеробе пользователя
func (u *User) OwnsPiece(pieceID string) bool {
	return contains(u.Wardrobe, pieceID)
}

func (u *User) HasFavorite(lookID string) bool {
	return contains(u.Favorites, lookID)
}

func (u *User) HasHidden(lookID string) bool {
	return contains(u.HiddenLooks, lookID)
}

func contains(set pq.StringArray, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func appendUnique(set pq.StringArray, id string) pq.StringArray {
	if contains(set, id) {
		return set
	}
	return append(set, id)
}

func removeAll(set pq.StringArray, id string) pq.StringArray {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
