package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 24 * time.Hour
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name  string
		email string
	}{
		{
			name:  "plain email",
			email: "user@example.com",
		},
		{
			name:  "email with plus",
			email: "user+shop@example.com",
		},
		{
			name:  "uppercase email",
			email: "User@Example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Subject)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 24*time.Hour)

	validToken, err := maker.GenerateToken("user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "malformed token",
			token:   "invalid.token.here",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "expired token",
			token:   createExpiredToken(t, secretKey),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "wrong secret key",
			token:   createTokenWithWrongSecret(t),
			wantErr: ErrBadSignature,
		},
		{
			name:    "tampered token",
			token:   validToken + "tampered",
			wantErr: ErrBadSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)

			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", 24*time.Hour)
	maker2 := NewJWTMaker("different_secret_key", 24*time.Hour)

	token, err := maker1.GenerateToken("user@example.com")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestJWTMaker_ExpirationBoundary(t *testing.T) {
	secretKey := "boundary_secret_key"
	ttl := 2 * time.Second
	maker := NewJWTMaker(secretKey, ttl)

	token, err := maker.GenerateToken("user@example.com")
	require.NoError(t, err)

	// Сразу после выпуска токен валиден
	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)

	// Токен, чей срок уже в прошлом, невалиден
	expired := createExpiredToken(t, secretKey)
	_, err = maker.ParseToken(expired)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func createExpiredToken(t *testing.T, secretKey string) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "user@example.com",
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	require.NoError(t, err)
	return signed
}

func createTokenWithWrongSecret(t *testing.T) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "user@example.com",
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("completely_other_secret"))
	require.NoError(t, err)
	return signed
}
