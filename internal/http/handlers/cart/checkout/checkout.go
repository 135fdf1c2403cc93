// Package checkout реализует HTTP-обработчик оформления заказа.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
)

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Checkout(ctx context.Context, userUID string) (*cartservice.OrderEvent, error)
}

// Handler обрабатывает запросы оформления заказа.
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
// @Summary Оформление заказа
// @Description Помечает товары корзины проданными и очищает корзину.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Заказ оформлен"
// @Failure 400 {object} response.ErrorResponse "Корзина пуста"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cart/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.checkout"

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

	order, err := h.service.Checkout(r.Context(), user.UID)
	if errors.Is(err, cartservice.ErrCartEmpty) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cart is empty"))
		return
	}
	if err != nil {
		log.Error("failed to checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not checkout"))
		return
	}

	log.Info("order created",
		slog.Int("items_count", len(order.ItemIDs)),
		slog.Float64("total", order.Total))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": order,
	}))
}
