package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserHandler — обработчик HTTP-запросов к множествам текущего пользователя:
// гардероб, избранные и скрытые образы.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создает новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, logger: logger}
}

// mutate разбирает id из пути и применяет мутатор множества.
// Операции идемпотентны, успех — всегда 204. Некорректный uuid
// неотличим от несуществующего: оба дают 404.
func (h *UserHandler) mutate(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, user *domain.User, id uuid.UUID) error) {
	user := auth.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, domain.ErrNotFound, h.logger)
		return
	}

	if err := apply(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddToWardrobe — PUT /me/wardrobe/{id}
func (h *UserHandler) AddToWardrobe(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.AddToWardrobe)
}

// RemoveFromWardrobe — DELETE /me/wardrobe/{id}
func (h *UserHandler) RemoveFromWardrobe(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.RemoveFromWardrobe)
}

// AddToFavorites — PUT /me/favorites/{id}
func (h *UserHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.AddToFavorites)
}

// RemoveFromFavorites — DELETE /me/favorites/{id}
func (h *UserHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.RemoveFromFavorites)
}

// HideLook — PUT /me/hidden-looks/{id}
func (h *UserHandler) HideLook(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.HideLook)
}

// UnhideLook — DELETE /me/hidden-looks/{id}
func (h *UserHandler) UnhideLook(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.userUseCase.UnhideLook)
}
