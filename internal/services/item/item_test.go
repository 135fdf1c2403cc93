package services_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resell-market/internal/models"
	services "github.com/magabrotheeeer/resell-market/internal/services/item"
)

type ItemRepoMock struct {
	mock.Mock
}

func (m *ItemRepoMock) CreateItem(ctx context.Context, item models.Item) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ItemRepoMock) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	var item *models.Item
	if i := args.Get(0); i != nil {
		item = i.(*models.Item)
	}
	return item, args.Error(1)
}

func (m *ItemRepoMock) ListItems(ctx context.Context) ([]*models.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *ItemRepoMock) ListAllItems(ctx context.Context) ([]*models.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *ItemRepoMock) ListItemsByOwner(ctx context.Context, ownerUID string) ([]*models.Item, error) {
	args := m.Called(ctx, ownerUID)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *ItemRepoMock) UpdateItem(ctx context.Context, item models.Item, id int64) (int, error) {
	args := m.Called(ctx, item, id)
	return args.Int(0), args.Error(1)
}

func (m *ItemRepoMock) DeleteItem(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestItemService_Read(t *testing.T) {
	item := &models.Item{ID: 42, Title: "Vintage lamp", OwnerUID: "owner-uid"}

	t.Run("cache miss reads repository and caches", func(t *testing.T) {
		repo := new(ItemRepoMock)
		cache := new(CacheMock)
		svc := services.NewItemService(repo, cache, newNoopLogger())

		cache.On("Get", "item:42", mock.Anything).Return(false, nil).Once()
		repo.On("GetItem", mock.Anything, int64(42)).Return(item, nil).Once()
		cache.On("Set", "item:42", item, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, item, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error does not fail the read", func(t *testing.T) {
		repo := new(ItemRepoMock)
		cache := new(CacheMock)
		svc := services.NewItemService(repo, cache, newNoopLogger())

		cache.On("Get", "item:42", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetItem", mock.Anything, int64(42)).Return(item, nil).Once()
		cache.On("Set", "item:42", item, time.Hour).Return(errors.New("redis down")).Once()

		got, err := svc.Read(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, item, got)
	})

	t.Run("missing item maps to ErrItemNotFound", func(t *testing.T) {
		repo := new(ItemRepoMock)
		cache := new(CacheMock)
		svc := services.NewItemService(repo, cache, newNoopLogger())

		cache.On("Get", "item:42", mock.Anything).Return(false, nil).Once()
		repo.On("GetItem", mock.Anything, int64(42)).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.Read(context.Background(), 42)
		assert.ErrorIs(t, err, services.ErrItemNotFound)
	})
}

func TestItemService_Update(t *testing.T) {
	existing := &models.Item{ID: 42, Title: "Vintage lamp", OwnerUID: "owner-uid"}
	updated := models.Item{Title: "Restored lamp", Price: 120}

	tests := []struct {
		name      string
		callerUID string
		getItem   *models.Item
		getErr    error
		wantErr   error
	}{
		{
			name:      "owner can update",
			callerUID: "owner-uid",
			getItem:   existing,
		},
		{
			name:      "non-owner rejected",
			callerUID: "other-uid",
			getItem:   existing,
			wantErr:   services.ErrNotOwner,
		},
		{
			name:      "missing item",
			callerUID: "owner-uid",
			getErr:    sql.ErrNoRows,
			wantErr:   services.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ItemRepoMock)
			cache := new(CacheMock)
			svc := services.NewItemService(repo, cache, newNoopLogger())

			repo.On("GetItem", mock.Anything, int64(42)).Return(tt.getItem, tt.getErr).Once()
			if tt.wantErr == nil {
				repo.On("UpdateItem", mock.Anything, updated, int64(42)).Return(1, nil).Once()
				cache.On("Invalidate", "item:42").Return(nil).Once()
			}

			err := svc.Update(context.Background(), tt.callerUID, 42, updated)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestItemService_RemoveAny(t *testing.T) {
	t.Run("deletes any item", func(t *testing.T) {
		repo := new(ItemRepoMock)
		cache := new(CacheMock)
		svc := services.NewItemService(repo, cache, newNoopLogger())

		repo.On("DeleteItem", mock.Anything, int64(42)).Return(1, nil).Once()
		cache.On("Invalidate", "item:42").Return(nil).Once()

		assert.NoError(t, svc.RemoveAny(context.Background(), 42))
		repo.AssertExpectations(t)
	})

	t.Run("missing item maps to ErrItemNotFound", func(t *testing.T) {
		repo := new(ItemRepoMock)
		cache := new(CacheMock)
		svc := services.NewItemService(repo, cache, newNoopLogger())

		repo.On("DeleteItem", mock.Anything, int64(42)).Return(0, nil).Once()

		assert.ErrorIs(t, svc.RemoveAny(context.Background(), 42), services.ErrItemNotFound)
	})
}
