package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Сезоны образов
const (
	SeasonSummer = "Summer"
	SeasonWinter = "Winter"
	SeasonDemi   = "Demi-season"
)

func ValidSeason(s string) bool {
	return s == SeasonSummer || s == SeasonWinter || s == SeasonDemi
}

// MinLookPieces — минимальное количество вещей в образе
const MinLookPieces = 2

// Look представляет образ (подобранный комплект вещей).
// Соответствует таблице 'looks' в базе данных.
// seq — монотонный порядковый номер создания; он дает детерминированный
// порядок при равной релевантности, uuid такого порядка не дает.
type Look struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Seq       int64          `json:"-" db:"seq"`
	Pieces    pq.StringArray `json:"pieces" db:"pieces"`
	Gender    string         `json:"gender" db:"gender"`
	Season    string         `json:"season,omitempty" db:"season"`
	Img       string         `json:"img" db:"img"`
	AuthorID  uuid.UUID      `json:"author" db:"author_id"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

func (Look) TableName() string {
	return "looks"
}

// Variance — оценка релевантности образа гардеробу: количество вещей образа,
// которых у пользователя нет. Чем меньше, тем лучше подходит образ.
func (l *Look) Variance(wardrobe pq.StringArray) int {
	variance := 0
	for _, p := range l.Pieces {
		if !contains(wardrobe, p) {
			variance++
		}
	}
	return variance
}

// LookQuery — параметры ранжированного запроса образов
type LookQuery struct {
	Limit        int
	Skip         int
	Favorites    bool
	ShowDisliked bool
	Season       string
}

// LookForUser — образ, обогащенный данными для конкретного пользователя
type LookForUser struct {
	ID         uuid.UUID      `json:"id"`
	Pieces     []PieceForUser `json:"pieces"`
	Gender     string         `json:"gender"`
	Season     string         `json:"season,omitempty"`
	Img        string         `json:"img"`
	Author     UserSummary    `json:"author"`
	Variance   int            `json:"variance"`
	IsLiked    bool           `json:"isLiked"`
	IsDisliked bool           `json:"isDisliked"`
	CanDelete  bool           `json:"canDelete"`
}

// LookPage — страница выдачи ранжированного запроса.
// TotalResults — количество всех подходящих образов до пагинации.
type LookPage struct {
	Looks        []LookForUser `json:"looks"`
	TotalResults int           `json:"totalResults"`
}
