// Package services содержит логику бизнес-уровня для регистрации,
// входа и разрешения личности по токену.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/resell-market/internal/lib/jwt"
	"github.com/magabrotheeeer/resell-market/internal/lib/password"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	"github.com/magabrotheeeer/resell-market/internal/models"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrEmailTaken email уже занят при регистрации.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrInvalidCredentials неверный email или пароль. Намеренно не
	// различает, что именно не совпало.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUserRole обновляет роль пользователя.
	UpdateUserRole(ctx context.Context, uid string, role models.Role) (int, error)
}

// AuthService отвечает за регистрацию, вход и разрешение личности по JWT.
type AuthService struct {
	users             UserRepository
	jwtMaker          jwt.Maker
	initialAdminEmail string
	log               *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
//
// initialAdminEmail — email, которому при первом разрешении личности
// выдаётся роль администратора. Пустая строка отключает механизм.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, initialAdminEmail string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:             users,
		jwtMaker:          jwtMaker,
		initialAdminEmail: initialAdminEmail,
		log:               log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью user. Возвращает ErrEmailTaken, если email уже занят.
//
// Поиск существующего email чувствителен к регистру, как и уникальность
// в схеме базы.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, fullName string) (string, error) {
	const op = "services.auth.Register"

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выпускает JWT с email в subject.
//
// Неизвестный email и неверный пароль дают одну и ту же ошибку
// ErrInvalidCredentials, чтобы не раскрывать, что именно не совпало.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Resolve разрешает личность по значению заголовка Authorization.
//
// Возвращает (nil, nil) — аноним — если заголовок не начинается с
// "Bearer ", токен не проходит проверку или subject не найден в базе.
// Конкретная причина отказа только логируется. Ошибка возвращается лишь
// при сбое хранилища.
func (s *AuthService) Resolve(ctx context.Context, authHeader string) (*models.User, error) {
	const op = "services.auth.Resolve"
	log := s.log.With(slog.String("op", op))

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, nil
	}
	tokenStr := strings.TrimPrefix(authHeader, bearerPrefix)

	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		log.Info("token rejected", sl.Err(err))
		return nil, nil
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Subject токена всегда выпускается из реального пользователя,
			// но пропавшая запись не должна ронять запрос.
			log.Warn("token subject has no matching user", slog.String("subject", claims.Subject))
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.promoteInitialAdmin(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// promoteInitialAdmin выдаёт сконфигурированному email роль администратора
// при первом разрешении личности. Идемпотентно.
func (s *AuthService) promoteInitialAdmin(ctx context.Context, user *models.User) error {
	if s.initialAdminEmail == "" || user.IsAdmin() {
		return nil
	}
	if !strings.EqualFold(s.initialAdminEmail, user.Email) {
		return nil
	}
	if _, err := s.users.UpdateUserRole(ctx, user.UID, models.RoleAdmin); err != nil {
		return err
	}
	user.Role = models.RoleAdmin
	s.log.Info("promoted initial admin", slog.String("email", user.Email))
	return nil
}
