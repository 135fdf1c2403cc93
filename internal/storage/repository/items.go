package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/resell-market/internal/models"
)

// CreateItem сохраняет новый товар и возвращает его ID.
func (s *Storage) CreateItem(ctx context.Context, item models.Item) (int64, error) {
	const op = "storage.CreateItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO items (title, description, price, image_url, owner_uid)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		item.Title, item.Description, item.Price, item.ImageURL, item.OwnerUID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetItem возвращает товар по его ID.
func (s *Storage) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	const op = "storage.GetItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, image_url, purchased, owner_uid, created_at
			  FROM items
			  WHERE id = $1`
	i := &models.Item{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&i.ID, &i.Title, &i.Description, &i.Price,
		&i.ImageURL, &i.Purchased, &i.OwnerUID, &i.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return i, nil
}

// ListItems возвращает непроданные товары, доступные в каталоге.
func (s *Storage) ListItems(ctx context.Context) ([]*models.Item, error) {
	const op = "storage.ListItems"
	query := `SELECT id, title, description, price, image_url, purchased, owner_uid, created_at
			  FROM items
			  WHERE purchased = FALSE
			  ORDER BY created_at DESC`
	return s.listItems(ctx, op, query)
}

// ListAllItems возвращает все товары, включая проданные. Используется
// панелью администратора.
func (s *Storage) ListAllItems(ctx context.Context) ([]*models.Item, error) {
	const op = "storage.ListAllItems"
	query := `SELECT id, title, description, price, image_url, purchased, owner_uid, created_at
			  FROM items
			  ORDER BY created_at DESC`
	return s.listItems(ctx, op, query)
}

// ListItemsByOwner возвращает товары, выставленные конкретным пользователем.
func (s *Storage) ListItemsByOwner(ctx context.Context, ownerUID string) ([]*models.Item, error) {
	const op = "storage.ListItemsByOwner"
	query := `SELECT id, title, description, price, image_url, purchased, owner_uid, created_at
			  FROM items
			  WHERE owner_uid = $1
			  ORDER BY created_at DESC`
	return s.listItems(ctx, op, query, ownerUID)
}

func (s *Storage) listItems(ctx context.Context, op, query string, args ...any) ([]*models.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Item
	for rows.Next() {
		var i models.Item
		if err = rows.Scan(&i.ID, &i.Title, &i.Description, &i.Price,
			&i.ImageURL, &i.Purchased, &i.OwnerUID, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &i)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateItem обновляет данные товара по ID и возвращает число затронутых строк.
func (s *Storage) UpdateItem(ctx context.Context, item models.Item, id int64) (int, error) {
	const op = "storage.UpdateItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items
			  SET title = $1, description = $2, price = $3, image_url = $4
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query,
		item.Title, item.Description, item.Price, item.ImageURL, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// DeleteItem удаляет товар по ID и возвращает число затронутых строк.
func (s *Storage) DeleteItem(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM items WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// MarkItemsPurchased помечает перечисленные товары как проданные.
func (s *Storage) MarkItemsPurchased(ctx context.Context, ids []int64) error {
	const op = "storage.MarkItemsPurchased"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE items SET purchased = TRUE WHERE id = ANY($1)`
	if _, err := s.DB.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
