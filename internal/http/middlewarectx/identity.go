// Package middlewarectx содержит HTTP middleware и контекст личности
// вызывающего.
//
// IdentityMiddleware читает заголовок Authorization ровно один раз на
// запрос, разрешает личность через сервис аутентификации и кладёт
// результат в контекст запроса. Middleware никогда не отклоняет запрос:
// любой сбой разрешения даёт анонимную личность, а решение о доступе
// принимает каждый защищённый обработчик сам.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	"github.com/magabrotheeeer/resell-market/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// identityKey ключ личности вызывающего в контексте.
const identityKey Key = "identity"

// Identity личность вызывающего в рамках одного запроса:
// либо аноним, либо разрешённый пользователь.
type Identity struct {
	User *models.User
}

// Authenticated сообщает, разрешена ли личность до пользователя.
func (i Identity) Authenticated() bool {
	return i.User != nil
}

// Resolver описывает интерфейс сервиса разрешения личности по
// значению заголовка Authorization.
type Resolver interface {
	Resolve(ctx context.Context, authHeader string) (*models.User, error)
}

// WithIdentity возвращает контекст с установленной личностью.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext возвращает личность запроса. Второе значение —
// false, если middleware личность не устанавливал.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// UserFromContext возвращает пользователя запроса. Второе значение —
// false для анонимного вызывающего.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || !id.Authenticated() {
		return nil, false
	}
	return id.User, true
}

// IdentityMiddleware возвращает HTTP middleware, которое разрешает
// личность по заголовку Authorization.
//
// Правила:
//   - заголовок отсутствует — запрос продолжается анонимным;
//   - личность уже установлена ранее — не перезаписывается;
//   - любой сбой разрешения гасится до анонимной личности,
//     запрос никогда не прерывается на этом слое.
func IdentityMiddleware(resolver Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"

			if _, ok := IdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, err := resolver.Resolve(r.Context(), authHeader)
			if err != nil {
				log.Error("identity resolution failed", sl.Err(err))
				user = nil
			}

			ctx := WithIdentity(r.Context(), Identity{User: user})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
