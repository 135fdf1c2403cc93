// Package get реализует HTTP-обработчик просмотра корзины.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	"github.com/magabrotheeeer/resell-market/internal/models"
)

// Service описывает интерфейс бизнес-логики корзины.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.Cart, error)
}

// Handler обрабатывает запросы просмотра корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Корзина пользователя
// @Description Возвращает содержимое корзины текущего пользователя.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Корзина"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authorization required"))
		return
	}

	cart, err := h.service.Get(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to get cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get cart"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
