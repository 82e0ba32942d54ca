package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
)

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError переводит ошибку бизнес-логики в HTTP-ответ.
// Ошибки валидации уходят клиенту телом {"errors": {...}}, инфраструктурные
// ошибки наружу не раскрываются.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if ve, ok := domain.AsValidationError(err); ok {
		respondWithJSON(w, http.StatusBadRequest, ve, logger)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Не найдено", logger)
	case errors.Is(err, domain.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Требуется аутентификация", logger)
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Доступ запрещен", logger)
	default:
		logger.Error("internal error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", logger)
	}
}
