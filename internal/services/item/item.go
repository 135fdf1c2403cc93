// Package services содержит бизнес-логику каталога товаров,
// включая кеширование карточек.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/resell-market/internal/models"
)

// Ошибки бизнес-уровня каталога.
var (
	// ErrItemNotFound товар не найден.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotOwner операция над чужим товаром.
	ErrNotOwner = errors.New("item belongs to another user")
)

// ItemRepository определяет методы для работы с товарами в хранилище.
type ItemRepository interface {
	// CreateItem добавляет новый товар и возвращает его ID.
	CreateItem(ctx context.Context, item models.Item) (int64, error)
	// GetItem возвращает товар по ID.
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	// ListItems возвращает непроданные товары каталога.
	ListItems(ctx context.Context) ([]*models.Item, error)
	// ListAllItems возвращает все товары, включая проданные.
	ListAllItems(ctx context.Context) ([]*models.Item, error)
	// ListItemsByOwner возвращает товары пользователя.
	ListItemsByOwner(ctx context.Context, ownerUID string) ([]*models.Item, error)
	// UpdateItem обновляет товар по ID.
	UpdateItem(ctx context.Context, item models.Item, id int64) (int, error)
	// DeleteItem удаляет товар по ID.
	DeleteItem(ctx context.Context, id int64) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ItemService реализует бизнес-логику каталога с кешированием карточек.
type ItemService struct {
	repo  ItemRepository
	cache Cache
	log   *slog.Logger
}

// NewItemService создает новый экземпляр ItemService.
func NewItemService(repo ItemRepository, cache Cache, log *slog.Logger) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

// Create создает новый товар от имени пользователя и возвращает его ID.
func (s *ItemService) Create(ctx context.Context, ownerUID string, item models.Item) (int64, error) {
	item.OwnerUID = ownerUID
	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new item", slog.Int64("id", id))
	return id, nil
}

// Read возвращает товар по ID, используя кеш или репозиторий.
func (s *ItemService) Read(ctx context.Context, id int64) (*models.Item, error) {
	var result *models.Item
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read item from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(key, item, time.Hour); err != nil {
		s.log.Warn("failed to cache item", slog.String("key", key), slog.Any("err", err))
	}
	return item, nil
}

// List возвращает непроданные товары каталога.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	return s.repo.ListItems(ctx)
}

// ListAll возвращает все товары, включая проданные. Для панели администратора.
func (s *ItemService) ListAll(ctx context.Context) ([]*models.Item, error) {
	return s.repo.ListAllItems(ctx)
}

// ListByOwner возвращает товары конкретного пользователя.
func (s *ItemService) ListByOwner(ctx context.Context, ownerUID string) ([]*models.Item, error) {
	return s.repo.ListItemsByOwner(ctx, ownerUID)
}

// Update обновляет товар. Только владелец может менять свой товар.
func (s *ItemService) Update(ctx context.Context, callerUID string, id int64, item models.Item) error {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return err
	}
	if existing.OwnerUID != callerUID {
		return ErrNotOwner
	}

	if _, err := s.repo.UpdateItem(ctx, item, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate item cache", slog.Int64("id", id), slog.Any("err", err))
	}
	return nil
}

// Remove удаляет товар. Только владелец может удалить свой товар.
func (s *ItemService) Remove(ctx context.Context, callerUID string, id int64) error {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return err
	}
	if existing.OwnerUID != callerUID {
		return ErrNotOwner
	}
	return s.removeByID(ctx, id)
}

// RemoveAny удаляет любой товар без проверки владельца. Для панели
// администратора.
func (s *ItemService) RemoveAny(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrItemNotFound
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate item cache", slog.Int64("id", id), slog.Any("err", err))
	}
	return nil
}

func (s *ItemService) removeByID(ctx context.Context, id int64) error {
	if _, err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate item cache", slog.Int64("id", id), slog.Any("err", err))
	}
	return nil
}
