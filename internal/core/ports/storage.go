package ports

import (
	"context"
	"io"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO).
// Хранит изображения образов и вещей; в записях БД остается только ключ объекта.
type FileStorage interface {
	// UploadFile загружает файл в хранилище под ключом key и возвращает публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// GetFile возвращает содержимое файла по ключу.
	GetFile(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error
}
