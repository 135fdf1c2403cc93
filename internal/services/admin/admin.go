// Package services содержит бизнес-логику панели администратора.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/resell-market/internal/models"
)

// ErrUserNotFound пользователь не найден.
var ErrUserNotFound = errors.New("user not found")

// UserRepository определяет методы для администрирования пользователей.
type UserRepository interface {
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// GetUserByUID возвращает пользователя по UID.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// UpdateUserRole обновляет роль пользователя.
	UpdateUserRole(ctx context.Context, uid string, role models.Role) (int, error)
}

// AdminService реализует операции панели администратора над пользователями.
type AdminService struct {
	users UserRepository
	log   *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(users UserRepository, log *slog.Logger) *AdminService {
	return &AdminService{
		users: users,
		log:   log,
	}
}

// ListUsers возвращает всех пользователей системы.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsers(ctx)
}

// ToggleRole переключает роль пользователя между user и admin,
// возвращает новую роль.
func (s *AdminService) ToggleRole(ctx context.Context, uid string) (models.Role, error) {
	user, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	newRole := models.RoleAdmin
	if user.IsAdmin() {
		newRole = models.RoleUser
	}
	if _, err := s.users.UpdateUserRole(ctx, uid, newRole); err != nil {
		return "", err
	}

	s.log.Info("toggled user role",
		slog.String("uid", uid),
		slog.String("role", string(newRole)))
	return newRole, nil
}
