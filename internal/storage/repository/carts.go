package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/resell-market/internal/models"
)

// GetOrCreateCart возвращает корзину пользователя, создавая её при
// первом обращении.
func (s *Storage) GetOrCreateCart(ctx context.Context, userUID string) (*models.Cart, error) {
	const op = "storage.GetOrCreateCart"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cart := &models.Cart{UserUID: userUID}
	query := `SELECT id FROM carts WHERE user_uid = $1`
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&cart.ID)
	if errors.Is(err, sql.ErrNoRows) {
		insert := `INSERT INTO carts (user_uid) VALUES ($1) RETURNING id`
		if err = s.DB.QueryRowContext(ctx, insert, userUID).Scan(&cart.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.listCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cart.Items = items
	return cart, nil
}

func (s *Storage) listCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	query := `SELECT ci.id, ci.cart_id,
			      i.id, i.title, i.description, i.price, i.image_url, i.purchased, i.owner_uid, i.created_at
			  FROM cart_items ci
			  JOIN items i ON i.id = ci.item_id
			  WHERE ci.cart_id = $1
			  ORDER BY ci.id`
	rows, err := s.DB.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.CartItem
	for rows.Next() {
		var ci models.CartItem
		if err = rows.Scan(&ci.ID, &ci.CartID,
			&ci.Item.ID, &ci.Item.Title, &ci.Item.Description, &ci.Item.Price,
			&ci.Item.ImageURL, &ci.Item.Purchased, &ci.Item.OwnerUID, &ci.Item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ci)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddCartItem добавляет товар в корзину и возвращает ID позиции.
func (s *Storage) AddCartItem(ctx context.Context, cartID, itemID int64) (int64, error) {
	const op = "storage.AddCartItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO cart_items (cart_id, item_id)
			  VALUES ($1, $2)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, cartID, itemID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCartItemOwner возвращает UID владельца корзины, которой принадлежит
// позиция. Используется проверкой прав перед удалением.
func (s *Storage) GetCartItemOwner(ctx context.Context, cartItemID int64) (string, error) {
	const op = "storage.GetCartItemOwner"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var ownerUID string
	query := `SELECT c.user_uid
			  FROM cart_items ci
			  JOIN carts c ON c.id = ci.cart_id
			  WHERE ci.id = $1`
	if err := s.DB.QueryRowContext(ctx, query, cartItemID).Scan(&ownerUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ownerUID, nil
}

// DeleteCartItem удаляет позицию из корзины и возвращает число затронутых строк.
func (s *Storage) DeleteCartItem(ctx context.Context, cartItemID int64) (int, error) {
	const op = "storage.DeleteCartItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cart_items WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, cartItemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// ClearCart удаляет все позиции корзины.
func (s *Storage) ClearCart(ctx context.Context, cartID int64) error {
	const op = "storage.ClearCart"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
