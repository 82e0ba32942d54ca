package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxImageMemory = 10 << 20 // 10 MiB

// допустимые типы изображений образа
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// LookHandler — обработчик HTTP-запросов для работы с образами.
type LookHandler struct {
	lookUseCase usecase.LookUseCase
	logger      *slog.Logger
}

// NewLookHandler создает новый экземпляр LookHandler.
func NewLookHandler(uc usecase.LookUseCase, logger *slog.Logger) *LookHandler {
	return &LookHandler{lookUseCase: uc, logger: logger}
}

// FindLooks — GET /looks: ранжированная выдача образов для пользователя.
// Параметры пагинации разбираются снисходительно: нечисловой limit или skip
// молча заменяется значением по умолчанию, а не отклоняет запрос.
func (h *LookHandler) FindLooks(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 15
	}
	skip, err := strconv.Atoi(r.URL.Query().Get("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}

	q := domain.LookQuery{
		Limit:        limit,
		Skip:         skip,
		Favorites:    r.URL.Query().Get("favorites") == "true",
		ShowDisliked: r.URL.Query().Get("showDisliked") == "true",
		Season:       r.URL.Query().Get("season"),
	}

	page, err := h.lookUseCase.FindLooksFor(r.Context(), user, q)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// CreateLook — POST /looks: multipart-форма с полями pieces, gender,
// season и файлом img.
func (h *LookHandler) CreateLook(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	if err := r.ParseMultipartForm(maxImageMemory); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	input := usecase.CreateLookInput{
		PieceIDs: parsePieceIDs(r.Form["pieces"]),
		Gender:   r.FormValue("gender"),
		Season:   r.FormValue("season"),
	}

	file, header, err := r.FormFile("img")
	if err == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if _, ok := allowedImageTypes[contentType]; !ok {
			respondWithError(w, http.StatusUnsupportedMediaType, "Допустимы только изображения JPEG и PNG", h.logger)
			return
		}

		input.Image = &usecase.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     file,
		}
	}

	look, err := h.lookUseCase.CreateLook(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, look, h.logger)
}

// GetLook — GET /looks/{id}: образ, обогащенный данными для пользователя.
func (h *LookHandler) GetLook(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	look, err := h.lookUseCase.GetLookFor(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, look, h.logger)
}

// DeleteLook — DELETE /looks/{id}: доступно автору образа и администратору.
func (h *LookHandler) DeleteLook(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	if err := h.lookUseCase.DeleteLook(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePieceIDs принимает и повторяющееся поле pieces, и одно поле
// со списком через запятую.
func parsePieceIDs(values []string) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}
