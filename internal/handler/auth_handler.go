package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
	"github.com/google/uuid"
)

// AuthHandler — обработчик HTTP-запросов регистрации и входа.
type AuthHandler struct {
	userUseCase usecase.UserUseCase
	sessions    *auth.SessionStore
	logger      *slog.Logger
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(uc usecase.UserUseCase, sessions *auth.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userUseCase: uc,
		sessions:    sessions,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Gender          string `json:"gender"`
}

// Register — регистрирует пользователя и сразу открывает сессию.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	user, err := h.userUseCase.Register(r.Context(), usecase.RegisterInput{
		Name:            req.Name,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Gender:          req.Gender,
	})
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.openSession(w, r, user.ID); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// Login — проверяет учетные данные и открывает сессию.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	user, err := h.userUseCase.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.openSession(w, r, user.ID); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// Logout — завершает сессию и стирает cookie. Идемпотентен:
// запрос без сессии тоже отвечает 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to destroy session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me — возвращает текущего пользователя; для анонимного запроса
// отдает {"user": null}, а не 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": auth.UserFrom(r.Context()),
	}, h.logger)
}

func (h *AuthHandler) openSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	sid, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
