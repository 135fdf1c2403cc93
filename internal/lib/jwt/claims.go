// Claims хранит стандартные поля токена: subject (email пользователя),
// время выпуска и время истечения.
//
// GenerateToken и ParseToken реализуют выпуск и валидацию токена.
// Ошибки валидации различаются: истёкший токен, неверная подпись,
// нечитаемый токен.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки валидации токена. Наружу (в HTTP-слой) они не поднимаются,
// разрешение личности при любой из них даёт анонимный результат.
var (
	// ErrTokenExpired подпись верна, но срок действия истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrBadSignature подпись не сходится с текущим секретом.
	ErrBadSignature = errors.New("bad token signature")
	// ErrTokenMalformed токен не разбирается в ожидаемую форму claims.
	ErrTokenMalformed = errors.New("malformed token")
)

// Claims описывает полезную нагрузку токена.
type Claims struct {
	jwt.RegisteredClaims // Subject, IssuedAt, ExpiresAt
}

// GenerateToken создает JWT токен с email пользователя в subject,
// подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и срок действия,
// возвращает Claims, если токен корректен.
//
// Токен с верной подписью, но истёкшим сроком — невалиден.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%s: %w", op, ErrBadSignature)
		default:
			return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}
	return claims, nil
}
