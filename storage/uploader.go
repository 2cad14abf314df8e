package storage

import (
	"context"
	"io"
)

// UploadResult возвращает итог загрузки объекта в хранилище.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader — абстракция над объектным хранилищем для файлов
// пользователей (фото профиля).
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
