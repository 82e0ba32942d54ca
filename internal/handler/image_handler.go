package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/WardrobeApp/internal/core/ports"
	"github.com/go-chi/chi/v5"
)

// ImageHandler отдает изображения из файлового хранилища.
type ImageHandler struct {
	files  ports.FileStorage
	logger *slog.Logger
}

// NewImageHandler создает новый экземпляр ImageHandler.
func NewImageHandler(files ports.FileStorage, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{files: files, logger: logger}
}

// GetImage — GET /img/{name}: стримит объект клиенту.
// Ключи уникальны и не переиспользуются, поэтому ответ кэшируется надолго.
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}

	body, err := h.files.GetFile(r.Context(), name)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Не найдено", h.logger)
		return
	}
	defer body.Close()

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("failed to stream image", "object_key", name, "error", err)
	}
}
