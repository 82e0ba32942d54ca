package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PieceHandler — обработчик HTTP-запросов к каталогу вещей.
// Чтение открыто всем аутентифицированным, изменение — администраторам.
type PieceHandler struct {
	pieceUseCase usecase.PieceUseCase
	logger       *slog.Logger
}

// NewPieceHandler создает новый экземпляр PieceHandler.
func NewPieceHandler(uc usecase.PieceUseCase, logger *slog.Logger) *PieceHandler {
	return &PieceHandler{pieceUseCase: uc, logger: logger}
}

// FindPieces — GET /pieces: страница каталога с фильтрами.
func (h *PieceHandler) FindPieces(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	skip, err := strconv.Atoi(r.URL.Query().Get("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}

	filter := domain.PieceFilter{
		Gender:     r.URL.Query().Get("gender"),
		Search:     r.URL.Query().Get("search"),
		InWardrobe: r.URL.Query().Get("inWardrobe") == "true",
		Limit:      limit,
		Skip:       skip,
	}
	if categoryID, err := uuid.Parse(r.URL.Query().Get("category")); err == nil {
		filter.CategoryID = categoryID
	}

	page, err := h.pieceUseCase.FindPieces(r.Context(), user, filter)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, page, h.logger)
}

type pieceRequest struct {
	Name     *string `json:"name"`
	Gender   *string `json:"gender"`
	Category *string `json:"category"`
	Img      *string `json:"img"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// CreatePiece — POST /pieces (только администратор).
func (h *PieceHandler) CreatePiece(w http.ResponseWriter, r *http.Request) {
	var req pieceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	piece, err := h.pieceUseCase.CreatePiece(r.Context(), usecase.PieceInput{
		Name:     str(req.Name),
		Gender:   str(req.Gender),
		Category: str(req.Category),
		Img:      str(req.Img),
	})
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, piece, h.logger)
}

// UpdatePiece — PATCH /pieces/{id} (только администратор).
func (h *PieceHandler) UpdatePiece(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	var req pieceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	patch := usecase.PiecePatch{
		Name:     req.Name,
		Gender:   req.Gender,
		Category: req.Category,
		Img:      req.Img,
	}
	if err := h.pieceUseCase.UpdatePiece(r.Context(), id, patch); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePiece — DELETE /pieces/{id} (только администратор).
// Зависимые образы удаляются асинхронно задачей в очереди.
func (h *PieceHandler) DeletePiece(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	if err := h.pieceUseCase.DeletePiece(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
