package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Ручные моки хранилищ и внешних сервисов для тестов бизнес-логики.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockLookStorage struct {
	looks      map[uuid.UUID]*domain.Look
	candidates []domain.Look
	byPiece    []domain.Look

	created   []*domain.Look
	deleted   []uuid.UUID
	createErr error
	deleteErr error
}

func newMockLookStorage() *mockLookStorage {
	return &mockLookStorage{looks: map[uuid.UUID]*domain.Look{}}
}

func (m *mockLookStorage) add(look domain.Look) {
	l := look
	m.looks[l.ID] = &l
}

func (m *mockLookStorage) CreateLook(_ context.Context, look *domain.Look) error {
	if m.createErr != nil {
		return m.createErr
	}
	if look.ID == uuid.Nil {
		look.ID = uuid.New()
	}
	look.Seq = int64(len(m.looks) + 1)
	m.add(*look)
	m.created = append(m.created, look)
	return nil
}

func (m *mockLookStorage) GetLookByID(_ context.Context, id uuid.UUID) (*domain.Look, error) {
	look, ok := m.looks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return look, nil
}

func (m *mockLookStorage) DeleteLook(_ context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.looks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.looks, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockLookStorage) FindCandidateLooks(_ context.Context, _, _ string, _ pq.StringArray) ([]domain.Look, error) {
	return m.candidates, nil
}

func (m *mockLookStorage) ListLooksByPiece(_ context.Context, _ uuid.UUID) ([]domain.Look, error) {
	return m.byPiece, nil
}

type mockPieceCatalog struct {
	pieces    map[uuid.UUID]domain.Piece
	nameTaken bool

	found      []domain.Piece
	foundTotal int64
}

func newMockPieceCatalog(pieces ...domain.Piece) *mockPieceCatalog {
	m := &mockPieceCatalog{pieces: map[uuid.UUID]domain.Piece{}}
	for _, p := range pieces {
		m.pieces[p.ID] = p
	}
	return m
}

func (m *mockPieceCatalog) CreatePiece(_ context.Context, piece *domain.Piece) error {
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}
	m.pieces[piece.ID] = *piece
	return nil
}

func (m *mockPieceCatalog) UpdatePiece(_ context.Context, piece *domain.Piece) error {
	if _, ok := m.pieces[piece.ID]; !ok {
		return domain.ErrNotFound
	}
	m.pieces[piece.ID] = *piece
	return nil
}

func (m *mockPieceCatalog) DeletePiece(_ context.Context, id uuid.UUID) error {
	if _, ok := m.pieces[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.pieces, id)
	return nil
}

func (m *mockPieceCatalog) GetPieceByID(_ context.Context, id uuid.UUID) (*domain.Piece, error) {
	piece, ok := m.pieces[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &piece, nil
}

func (m *mockPieceCatalog) PieceExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.pieces[id]
	return ok, nil
}

func (m *mockPieceCatalog) PieceNameTaken(_ context.Context, _, _ string, _ uuid.UUID) (bool, error) {
	return m.nameTaken, nil
}

func (m *mockPieceCatalog) ListPiecesByIDs(_ context.Context, ids []string) ([]domain.Piece, error) {
	var out []domain.Piece
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if piece, ok := m.pieces[id]; ok {
			out = append(out, piece)
		}
	}
	return out, nil
}

func (m *mockPieceCatalog) FindPieces(_ context.Context, _ domain.PieceFilter, _ pq.StringArray) ([]domain.Piece, int64, error) {
	return m.found, m.foundTotal, nil
}

type mockUserStorage struct {
	users     map[uuid.UUID]*domain.User
	nameTaken bool

	saves    int
	scrubbed []uuid.UUID
}

func newMockUserStorage(users ...*domain.User) *mockUserStorage {
	m := &mockUserStorage{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByName(_ context.Context, name string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStorage) NameTaken(_ context.Context, name string) (bool, error) {
	if m.nameTaken {
		return true, nil
	}
	_, err := m.GetUserByName(context.Background(), name)
	return err == nil, nil
}

func (m *mockUserStorage) SaveUserSets(_ context.Context, _ *domain.User) error {
	m.saves++
	return nil
}

func (m *mockUserStorage) ScrubLookRefs(_ context.Context, lookID uuid.UUID) error {
	m.scrubbed = append(m.scrubbed, lookID)
	return nil
}

type mockFileStorage struct {
	uploads   []string
	deletes   []string
	uploadErr error
}

func (m *mockFileStorage) UploadFile(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, key)
	return "http://files.local/" + key, nil
}

func (m *mockFileStorage) GetFile(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("image-bytes")), nil
}

func (m *mockFileStorage) DeleteFile(_ context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	return nil
}

type mockCascadePublisher struct {
	published []payloads.CascadePayload
	err       error
}

func (m *mockCascadePublisher) PublishCascadeTask(_ context.Context, payload payloads.CascadePayload) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, payload)
	return nil
}

type mockCategoryStorage struct {
	list      []domain.Category
	nameTaken bool

	renamed map[uuid.UUID]string
	deleted []uuid.UUID
}

func newMockCategoryStorage(categories ...domain.Category) *mockCategoryStorage {
	return &mockCategoryStorage{list: categories, renamed: map[uuid.UUID]string{}}
}

func (m *mockCategoryStorage) ListCategories(_ context.Context) ([]domain.Category, error) {
	return m.list, nil
}

func (m *mockCategoryStorage) GetCategoryByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	for i := range m.list {
		if m.list[i].ID == id {
			return &m.list[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCategoryStorage) CategoryNameTaken(_ context.Context, _, _ string, _ uuid.UUID) (bool, error) {
	return m.nameTaken, nil
}

func (m *mockCategoryStorage) CreateCategory(_ context.Context, category *domain.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.Seq = int64(len(m.list) + 1)
	m.list = append(m.list, *category)
	return nil
}

func (m *mockCategoryStorage) RenameCategory(_ context.Context, id uuid.UUID, name string) error {
	m.renamed[id] = name
	return nil
}

func (m *mockCategoryStorage) DeleteCategory(_ context.Context, category *domain.Category) error {
	m.deleted = append(m.deleted, category.ID)
	return nil
}
