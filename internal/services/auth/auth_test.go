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

	customjwt "github.com/magabrotheeeer/resell-market/internal/lib/jwt"
	"github.com/magabrotheeeer/resell-market/internal/lib/password"
	"github.com/magabrotheeeer/resell-market/internal/models"
	services "github.com/magabrotheeeer/resell-market/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserRole(ctx context.Context, uid string, role models.Role) (int, error) {
	args := m.Called(ctx, uid, role)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newMaker() *customjwt.MakerImpl {
	return customjwt.NewJWTMaker("test_secret_key", 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		fullName   string
		setupMocks func(r *UserRepoMock)
		wantUID    string
		wantErr    error
	}{
		{
			name:     "successful registration",
			email:    "a@x.com",
			password: "pw1",
			fullName: "A B",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(nil, sql.ErrNoRows).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "a@x.com" &&
						user.FullName == "A B" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "pw1" &&
						user.Role == models.RoleUser
				})).Return("some-uuid-string", nil).Once()
			},
			wantUID: "some-uuid-string",
		},
		{
			name:     "email already in use",
			email:    "a@x.com",
			password: "pw1",
			fullName: "A B",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(&models.User{UID: "uid", Email: "a@x.com"}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:     "repository error",
			email:    "a@x.com",
			password: "pw1",
			fullName: "A B",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(nil, sql.ErrNoRows).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, newMaker(), "", newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.password, tt.fullName)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "uid-1",
		Email:        "a@x.com",
		FullName:     "A B",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(storedUser, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(storedUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@x.com").
					Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := newMaker()
			svc := services.NewAuthService(repo, maker, "", newNoopLogger())

			tt.setupMocks(repo)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				// Обе причины отказа дают одну и ту же ошибку
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "a@x.com", user.Email)

				// Subject токена совпадает с email пользователя
				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, "a@x.com", claims.Subject)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := new(UserRepoMock)
	maker := newMaker()
	svc := services.NewAuthService(repo, maker, "", newNoopLogger())

	var createdUser models.User
	repo.On("GetUserByEmail", mock.Anything, "a@x.com").
		Return(nil, sql.ErrNoRows).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			createdUser = args.Get(1).(models.User)
			createdUser.UID = "uid-roundtrip"
		}).
		Return("uid-roundtrip", nil).Once()

	_, err := svc.Register(context.Background(), "a@x.com", "pw1", "A B")
	require.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "a@x.com").
		Return(&createdUser, nil).Once()

	token, user, err := svc.Login(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
}

func TestAuthService_Resolve(t *testing.T) {
	maker := newMaker()

	storedUser := func() *models.User {
		return &models.User{
			UID:      "uid-1",
			Email:    "a@x.com",
			FullName: "A B",
			Role:     models.RoleUser,
		}
	}

	validToken, err := maker.GenerateToken("a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		setupMocks func(r *UserRepoMock)
		wantEmail  string
	}{
		{
			name:       "empty header resolves to anonymous",
			header:     "",
			setupMocks: func(_ *UserRepoMock) {},
		},
		{
			name:       "missing bearer prefix resolves to anonymous",
			header:     validToken,
			setupMocks: func(_ *UserRepoMock) {},
		},
		{
			name:       "garbage token resolves to anonymous",
			header:     "Bearer not.a.token",
			setupMocks: func(_ *UserRepoMock) {},
		},
		{
			name:   "valid token resolves identity",
			header: "Bearer " + validToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(storedUser(), nil).Once()
			},
			wantEmail: "a@x.com",
		},
		{
			name:   "token subject without user resolves to anonymous",
			header: "Bearer " + validToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(nil, sql.ErrNoRows).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, maker, "", newNoopLogger())

			tt.setupMocks(repo)

			user, err := svc.Resolve(context.Background(), tt.header)
			require.NoError(t, err)
			if tt.wantEmail == "" {
				assert.Nil(t, user)
			} else {
				require.NotNil(t, user)
				assert.Equal(t, tt.wantEmail, user.Email)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Resolve_PromotesInitialAdmin(t *testing.T) {
	maker := newMaker()
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, maker, "admin@x.com", newNoopLogger())

	token, err := maker.GenerateToken("admin@x.com")
	require.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "admin@x.com").
		Return(&models.User{
			UID:   "uid-admin",
			Email: "admin@x.com",
			Role:  models.RoleUser,
		}, nil).Once()
	repo.On("UpdateUserRole", mock.Anything, "uid-admin", models.RoleAdmin).
		Return(1, nil).Once()

	user, err := svc.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Повторное разрешение уже администратора не трогает роль
	repo.On("GetUserByEmail", mock.Anything, "admin@x.com").
		Return(&models.User{
			UID:   "uid-admin",
			Email: "admin@x.com",
			Role:  models.RoleAdmin,
		}, nil).Once()

	user, err = svc.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleAdmin, user.Role)

	repo.AssertExpectations(t)
}
