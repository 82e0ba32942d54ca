package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CategoryHandler — обработчик HTTP-запросов к дереву категорий.
type CategoryHandler struct {
	categoryUseCase usecase.CategoryUseCase
	logger          *slog.Logger
}

// NewCategoryHandler создает новый экземпляр CategoryHandler.
func NewCategoryHandler(uc usecase.CategoryUseCase, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUseCase: uc, logger: logger}
}

// GetTree — GET /piece-categories: лес категорий с вложенными детьми.
func (h *CategoryHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categoryUseCase.GetCategoryTree(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tree, h.logger)
}

type categoryRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Parent string `json:"parent"`
}

// CreateCategory — POST /piece-categories (только администратор).
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	category, err := h.categoryUseCase.CreateCategory(r.Context(), usecase.CategoryInput{
		Name:   req.Name,
		Gender: req.Gender,
		Parent: req.Parent,
	})
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, category, h.logger)
}

// RenameCategory — PATCH /piece-categories/{id} (только администратор).
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	if err := h.categoryUseCase.RenameCategory(r.Context(), id, req.Name); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory — DELETE /piece-categories/{id} (только администратор).
// Дети удаляемого узла переходят к его родителю.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	if err := h.categoryUseCase.DeleteCategory(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
