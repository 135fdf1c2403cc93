package filestorage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Local сохраняет файлы в каталог на локальном диске. Файлы раздаются
// сервером по префиксу publicPrefix.
type Local struct {
	rootDir      string
	publicPrefix string
}

// NewLocal создаёт локальное хранилище и каталог для файлов.
func NewLocal(rootDir, publicPrefix string) (*Local, error) {
	const op = "filestorage.NewLocal"
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Local{
		rootDir:      rootDir,
		publicPrefix: publicPrefix,
	}, nil
}

// Store записывает файл под uuid-именем и возвращает публичный URL.
// Исходное имя сохраняется в суффиксе для удобства.
func (l *Local) Store(_ context.Context, data []byte, originalName, _ string) (string, error) {
	const op = "filestorage.Local.Store"

	filename := uuid.New().String() + "_" + filepath.Base(originalName)
	dst := filepath.Join(l.rootDir, filename)

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path.Join(l.publicPrefix, filename), nil
}

// RootDir возвращает каталог хранилища. Используется при монтировании
// раздачи статики.
func (l *Local) RootDir() string {
	return l.rootDir
}
