package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Пол, к которому относятся вещи и образы
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// ValidGender проверяет значение на принадлежность к enum
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// Piece представляет предмет одежды в каталоге.
// Соответствует таблице 'pieces' в базе данных.
type Piece struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Gender     string    `json:"gender" db:"gender"`
	CategoryID uuid.UUID `json:"category" db:"category_id"`
	Img        string    `json:"img" db:"img"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (Piece) TableName() string {
	return "pieces"
}

// PieceForUser — вещь, обогащенная флагом наличия в гардеробе текущего пользователя
type PieceForUser struct {
	Piece
	InWardrobe bool `json:"inWardrobe"`
}

// PieceFilter описывает фильтры выборки каталога вещей
type PieceFilter struct {
	Gender     string
	Search     string
	CategoryID uuid.UUID
	InWardrobe bool
	Limit      int
	Skip       int
}

// PiecePage — страница каталога вместе с параметрами пагинации и общим количеством
type PiecePage struct {
	Pieces []PieceForUser `json:"pieces"`
	Limit  int            `json:"limit"`
	Skip   int            `json:"skip"`
	Total  int64          `json:"total"`
}

// Category — узел дерева категорий одежды.
// Соответствует таблице 'piece_categories'.
// ancestors хранит цепочку предков от корня до непосредственного родителя,
// вычисляется при создании из ancestors родителя.
type Category struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Gender    string         `json:"gender" db:"gender"`
	ParentID  *uuid.UUID     `json:"parent" db:"parent_id"`
	Ancestors pq.StringArray `json:"ancestors" db:"ancestors"`
	Seq       int64          `json:"-" db:"seq"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

func (Category) TableName() string {
	return "piece_categories"
}

// CategoryNode — узел собранного дерева категорий для выдачи наружу
type CategoryNode struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Gender   string          `json:"gender"`
	ParentID *uuid.UUID      `json:"parent"`
	Children []*CategoryNode `json:"children"`
}
