package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/core/ports"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultLookLimit = 15

// LookInteractor реализует LookUseCase
type LookInteractor struct {
	looks   LookStorage
	pieces  PieceCatalog
	users   UserStorage
	files   ports.FileStorage
	cascade ports.CascadePublisher
	logger  *slog.Logger
}

// NewLookInteractor создает новый экземпляр LookInteractor
func NewLookInteractor(
	looks LookStorage,
	pieces PieceCatalog,
	users UserStorage,
	files ports.FileStorage,
	cascade ports.CascadePublisher,
	logger *slog.Logger,
) *LookInteractor {
	return &LookInteractor{
		looks:   looks,
		pieces:  pieces,
		users:   users,
		files:   files,
		cascade: cascade,
		logger:  logger,
	}
}

// validateLook собирает все ошибки полей разом, по одной на поле
func (i *LookInteractor) validateLook(ctx context.Context, input CreateLookInput) error {
	ve := domain.NewValidationError()

	switch {
	case len(input.PieceIDs) == 0:
		ve.Add("pieces", "Please, select pieces")
	case len(input.PieceIDs) < domain.MinLookPieces:
		ve.Add("pieces", "The look must consist of at least two pieces")
	default:
		for _, raw := range input.PieceIDs {
			pieceID, err := uuid.Parse(raw)
			if err != nil {
				ve.Add("pieces", "Please, select pieces")
				break
			}
			exists, err := i.pieces.PieceExists(ctx, pieceID)
			if err != nil {
				return fmt.Errorf("ошибка проверки вещи %s: %w", raw, err)
			}
			if !exists {
				ve.Add("pieces", "Please, select pieces")
				break
			}
		}
	}

	if !domain.ValidGender(input.Gender) {
		ve.Add("gender", "Please, select gender")
	}

	// сезон необязателен, но заданный должен быть допустимым
	if input.Season != "" && !domain.ValidSeason(input.Season) {
		ve.Add("season", "Please, select season")
	}

	if input.Image == nil {
		ve.Add("img", "Image is required")
	}

	return ve.OrNil()
}

// CreateLook проверяет данные, загружает изображение и сохраняет образ.
// Порядок важен: файл не загружается до прохождения валидации, а запись
// не создается без успешно загруженного файла.
func (i *LookInteractor) CreateLook(ctx context.Context, author *domain.User, input CreateLookInput) (*domain.Look, error) {
	start := time.Now()

	if err := i.validateLook(ctx, input); err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(input.Image.Filename))
	objectKey := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	if _, err := i.files.UploadFile(ctx, objectKey, input.Image.Content, input.Image.ContentType); err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения образа: %w", err)
	}

	look := &domain.Look{
		Pieces:   pq.StringArray(input.PieceIDs),
		Gender:   input.Gender,
		Season:   input.Season,
		Img:      objectKey,
		AuthorID: author.ID,
	}

	if err := i.looks.CreateLook(ctx, look); err != nil {
		// запись не создалась, файл-сирота подчищается здесь же
		if delErr := i.files.DeleteFile(ctx, objectKey); delErr != nil {
			i.logger.Warn("Не удалось удалить осиротевший файл образа",
				slog.String("object_key", objectKey), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("ошибка сохранения образа: %w", err)
	}

	i.logger.Info("Образ создан",
		slog.String("look_id", look.ID.String()),
		slog.String("author_id", author.ID.String()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return look, nil
}

// GetLookFor возвращает образ, обогащенный данными для пользователя
func (i *LookInteractor) GetLookFor(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.LookForUser, error) {
	look, err := i.looks.GetLookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pieceIndex, err := i.loadPieces(ctx, look.Pieces)
	if err != nil {
		return nil, err
	}

	author, err := i.users.GetUserByID(ctx, look.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения автора образа: %w", err)
	}

	enriched := i.enrichLook(look, look.Variance(user.Wardrobe), user, pieceIndex, author.Summary())
	return enriched, nil
}

// DeleteLook удаляет образ от имени actor. Удалять может автор или
// администратор, остальным возвращается ErrForbidden.
func (i *LookInteractor) DeleteLook(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	look, err := i.looks.GetLookByID(ctx, id)
	if err != nil {
		return err
	}

	if look.AuthorID != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := i.looks.DeleteLook(ctx, id); err != nil {
		return err
	}

	if look.Img != "" {
		if err := i.files.DeleteFile(ctx, look.Img); err != nil {
			i.logger.Warn("Не удалось удалить изображение образа",
				slog.String("object_key", look.Img), slog.Any("error", err))
		}
	}

	payload := payloads.CascadePayload{Kind: payloads.CascadeLookDeleted, ID: id.String()}
	if err := i.cascade.PublishCascadeTask(ctx, payload); err != nil {
		return fmt.Errorf("ошибка публикации задачи очистки образа: %w", err)
	}

	i.logger.Info("Образ удален",
		slog.String("look_id", id.String()),
		slog.String("actor_id", actor.ID.String()))

	return nil
}

// FindLooksFor — конвейер ранжированной выборки: хранилище отдает
// кандидатов (пол, сезон, пересечение с гардеробом), движок ранжирования
// отбирает и сортирует, затем страница обогащается данными вещей и автора.
// TotalResults считается по полному отбору, не по странице.
func (i *LookInteractor) FindLooksFor(ctx context.Context, user *domain.User, q domain.LookQuery) (*domain.LookPage, error) {
	start := time.Now()

	if q.Limit <= 0 {
		q.Limit = defaultLookLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	candidates, err := i.looks.FindCandidateLooks(ctx, user.Gender, q.Season, user.Wardrobe)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки образов-кандидатов: %w", err)
	}

	ranked := rankLooks(candidates, user, q)
	pageRows := pageSlice(ranked, q.Limit, q.Skip)

	page := &domain.LookPage{
		Looks:        make([]domain.LookForUser, 0, len(pageRows)),
		TotalResults: len(ranked),
	}

	if len(pageRows) == 0 {
		return page, nil
	}

	// вещи и авторы страницы грузятся пачкой, по одному запросу на множество
	var allPieceIDs []string
	seenPiece := make(map[string]struct{})
	for _, row := range pageRows {
		for _, pieceID := range row.look.Pieces {
			if _, ok := seenPiece[pieceID]; ok {
				continue
			}
			seenPiece[pieceID] = struct{}{}
			allPieceIDs = append(allPieceIDs, pieceID)
		}
	}

	pieceIndex, err := i.loadPieces(ctx, allPieceIDs)
	if err != nil {
		return nil, err
	}

	authorIndex := make(map[uuid.UUID]domain.UserSummary)
	for _, row := range pageRows {
		if _, ok := authorIndex[row.look.AuthorID]; ok {
			continue
		}
		author, err := i.users.GetUserByID(ctx, row.look.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения автора образа: %w", err)
		}
		authorIndex[row.look.AuthorID] = author.Summary()
	}

	for _, row := range pageRows {
		enriched := i.enrichLook(&row.look, row.variance, user, pieceIndex, authorIndex[row.look.AuthorID])
		page.Looks = append(page.Looks, *enriched)
	}

	i.logger.Info("Выборка образов выполнена",
		slog.String("user_id", user.ID.String()),
		slog.Int("total_results", page.TotalResults),
		slog.Int("page_size", len(page.Looks)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return page, nil
}

// loadPieces грузит вещи по списку id и индексирует их по строковому id
func (i *LookInteractor) loadPieces(ctx context.Context, ids []string) (map[string]domain.Piece, error) {
	index := make(map[string]domain.Piece, len(ids))
	if len(ids) == 0 {
		return index, nil
	}
	pieces, err := i.pieces.ListPiecesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вещей образа: %w", err)
	}
	for _, piece := range pieces {
		index[piece.ID.String()] = piece
	}
	return index, nil
}

// enrichLook собирает представление образа для пользователя.
// Вещи, уже удаленные из каталога, в представление не попадают.
func (i *LookInteractor) enrichLook(
	look *domain.Look,
	variance int,
	user *domain.User,
	pieceIndex map[string]domain.Piece,
	author domain.UserSummary,
) *domain.LookForUser {
	pieces := make([]domain.PieceForUser, 0, len(look.Pieces))
	for _, pieceID := range look.Pieces {
		piece, ok := pieceIndex[pieceID]
		if !ok {
			continue
		}
		pieces = append(pieces, domain.PieceForUser{
			Piece:      piece,
			InWardrobe: user.OwnsPiece(pieceID),
		})
	}

	id := look.ID.String()
	return &domain.LookForUser{
		ID:         look.ID,
		Pieces:     pieces,
		Gender:     look.Gender,
		Season:     look.Season,
		Img:        look.Img,
		Author:     author,
		Variance:   variance,
		IsLiked:    user.HasFavorite(id),
		IsDisliked: user.HasHidden(id),
		CanDelete:  look.AuthorID == user.ID || user.IsAdmin(),
	}
}

// ProcessCascadeTask выполняет задачу каскадной очистки в воркере.
// Повторная доставка безопасна: уже отсутствующие записи не считаются ошибкой.
func (i *LookInteractor) ProcessCascadeTask(ctx context.Context, payload payloads.CascadePayload) error {
	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return fmt.Errorf("некорректный id в задаче каскада %q: %w", payload.ID, err)
	}

	switch payload.Kind {
	case payloads.CascadeLookDeleted:
		if err := i.users.ScrubLookRefs(ctx, id); err != nil {
			return fmt.Errorf("ошибка очистки ссылок на образ: %w", err)
		}
		return nil

	case payloads.CascadePieceDeleted:
		looks, err := i.looks.ListLooksByPiece(ctx, id)
		if err != nil {
			return fmt.Errorf("ошибка поиска зависимых образов: %w", err)
		}
		for _, look := range looks {
			if err := i.looks.DeleteLook(ctx, look.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue // образ уже удален предыдущей попыткой
				}
				return fmt.Errorf("ошибка удаления зависимого образа %s: %w", look.ID, err)
			}
			if look.Img != "" {
				if err := i.files.DeleteFile(ctx, look.Img); err != nil {
					i.logger.Warn("Не удалось удалить изображение образа",
						slog.String("object_key", look.Img), slog.Any("error", err))
				}
			}
			followUp := payloads.CascadePayload{Kind: payloads.CascadeLookDeleted, ID: look.ID.String()}
			if err := i.cascade.PublishCascadeTask(ctx, followUp); err != nil {
				return fmt.Errorf("ошибка публикации вложенной задачи очистки: %w", err)
			}
		}
		i.logger.Info("Каскад удаления вещи обработан",
			slog.String("piece_id", payload.ID),
			slog.Int("looks_deleted", len(looks)))
		return nil

	default:
		i.logger.Warn("Неизвестный тип задачи каскада", slog.String("kind", payload.Kind))
		return nil
	}
}
