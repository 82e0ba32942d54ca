package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/auth"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/usecase"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoadUser — middleware, подгружающее пользователя по сессионной cookie.
// Запрос без валидной сессии проходит дальше анонимным: решение о доступе
// принимают RequireAuth/RequireAdmin на конкретных маршрутах.
func LoadUser(sessions *auth.SessionStore, users usecase.UserStorage, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					logger.Error("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				// сессия пережила пользователя, считаем запрос анонимным
				if !errors.Is(err, domain.ErrNotFound) {
					logger.Error("failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth пропускает только аутентифицированные запросы
func RequireAuth(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFrom(r.Context()) == nil {
				respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin пропускает только администраторов
func RequireAdmin(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFrom(r.Context())
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", logger)
				return
			}
			if !user.IsAdmin() {
				respondWithError(w, http.StatusForbidden, "Доступ запрещен", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
