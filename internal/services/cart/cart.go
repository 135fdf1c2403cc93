// Package services содержит бизнес-логику корзины покупателя.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/resell-market/internal/models"
)

// Ошибки бизнес-уровня корзины.
var (
	// ErrCartEmpty оформление пустой корзины.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCartItemNotFound позиция корзины не найдена.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrNotCartOwner позиция принадлежит чужой корзине.
	ErrNotCartOwner = errors.New("cart item belongs to another user")
	// ErrItemNotFound добавляемый товар не существует.
	ErrItemNotFound = errors.New("item not found")
)

// CartRepository определяет методы для работы с корзинами в хранилище.
type CartRepository interface {
	// GetOrCreateCart возвращает корзину пользователя, создавая при необходимости.
	GetOrCreateCart(ctx context.Context, userUID string) (*models.Cart, error)
	// AddCartItem добавляет товар в корзину.
	AddCartItem(ctx context.Context, cartID, itemID int64) (int64, error)
	// GetCartItemOwner возвращает владельца корзины позиции.
	GetCartItemOwner(ctx context.Context, cartItemID int64) (string, error)
	// DeleteCartItem удаляет позицию из корзины.
	DeleteCartItem(ctx context.Context, cartItemID int64) (int, error)
	// ClearCart удаляет все позиции корзины.
	ClearCart(ctx context.Context, cartID int64) error
}

// ItemReader читает товары и помечает их проданными при оформлении.
type ItemReader interface {
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	MarkItemsPurchased(ctx context.Context, ids []int64) error
}

// OrderPublisher публикует событие оформленного заказа.
type OrderPublisher interface {
	Publish(routingKey string, message any) error
}

// OrderEvent событие оформления заказа, уходит в брокер сообщений.
type OrderEvent struct {
	UserUID   string    `json:"user_uid"`
	ItemIDs   []int64   `json:"item_ids"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// CartService реализует бизнес-логику корзины.
type CartService struct {
	carts     CartRepository
	items     ItemReader
	publisher OrderPublisher
	log       *slog.Logger
}

// NewCartService создает новый экземпляр CartService.
func NewCartService(carts CartRepository, items ItemReader, publisher OrderPublisher, log *slog.Logger) *CartService {
	return &CartService{
		carts:     carts,
		items:     items,
		publisher: publisher,
		log:       log,
	}
}

// Get возвращает корзину пользователя с развёрнутыми товарами.
func (s *CartService) Get(ctx context.Context, userUID string) (*models.Cart, error) {
	return s.carts.GetOrCreateCart(ctx, userUID)
}

// Add добавляет товар в корзину пользователя и возвращает ID позиции.
func (s *CartService) Add(ctx context.Context, userUID string, itemID int64) (int64, error) {
	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrItemNotFound
		}
		return 0, err
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userUID)
	if err != nil {
		return 0, err
	}
	return s.carts.AddCartItem(ctx, cart.ID, itemID)
}

// Remove удаляет позицию из корзины. Позиция должна принадлежать
// корзине вызывающего.
func (s *CartService) Remove(ctx context.Context, userUID string, cartItemID int64) error {
	ownerUID, err := s.carts.GetCartItemOwner(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartItemNotFound
		}
		return err
	}
	if ownerUID != userUID {
		return ErrNotCartOwner
	}

	if _, err := s.carts.DeleteCartItem(ctx, cartItemID); err != nil {
		return err
	}
	return nil
}

// Checkout оформляет заказ: помечает товары проданными, очищает корзину
// и публикует событие заказа. Пустая корзина — ошибка.
func (s *CartService) Checkout(ctx context.Context, userUID string) (*OrderEvent, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	itemIDs := make([]int64, 0, len(cart.Items))
	var total float64
	for _, ci := range cart.Items {
		itemIDs = append(itemIDs, ci.Item.ID)
		total += ci.Item.Price
	}

	if err := s.items.MarkItemsPurchased(ctx, itemIDs); err != nil {
		return nil, err
	}
	if err := s.carts.ClearCart(ctx, cart.ID); err != nil {
		return nil, err
	}

	event := &OrderEvent{
		UserUID:   userUID,
		ItemIDs:   itemIDs,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish("order.created", event); err != nil {
		// Заказ уже оформлен, недоставленное событие не откатывает его
		s.log.Warn("failed to publish order event", slog.Any("err", err))
	}

	s.log.Info("checkout complete",
		slog.String("user_uid", userUID),
		slog.Int("items", len(itemIDs)))
	return event, nil
}
