// Package filestorage реализует хранилища для загружаемых пользователями
// изображений товаров. Доступны две реализации: локальная файловая
// система и S3-совместимое объектное хранилище.
package filestorage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/resell-market/internal/config"
)

// Storage описывает контракт хранилища файлов: сохраняет содержимое
// и возвращает публичный URL.
type Storage interface {
	Store(ctx context.Context, data []byte, originalName, contentType string) (string, error)
}

// New выбирает реализацию хранилища по конфигурации.
func New(cfg config.FileStorage) (Storage, error) {
	const op = "filestorage.New"
	switch cfg.Type {
	case "local", "":
		return NewLocal(cfg.LocalDir, cfg.PublicPrefix)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("%s: unknown storage type %q", op, cfg.Type)
	}
}
