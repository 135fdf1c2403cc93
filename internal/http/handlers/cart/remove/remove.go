// Package remove реализует HTTP-обработчик удаления позиции из корзины.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
)

// Service описывает интерфейс бизнес-логики удаления из корзины.
type Service interface {
	Remove(ctx context.Context, userUID string, cartItemID int64) error
}

// Handler обрабатывает запросы удаления позиции из корзины.
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
// @Summary Удаление из корзины
// @Description Убирает позицию из корзины текущего пользователя.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Param cartItemID path int true "ID позиции корзины"
// @Success 200 {object} response.Response "Позиция удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Позиция принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Позиция не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cart/remove/{cartItemID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"

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

	cartItemID, err := strconv.ParseInt(chi.URLParam(r, "cartItemID"), 10, 64)
	if err != nil {
		log.Error("invalid cart item id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid cart item id"))
		return
	}

	err = h.service.Remove(r.Context(), user.UID, cartItemID)
	switch {
	case errors.Is(err, cartservice.ErrCartItemNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("cart item not found"))
		return
	case errors.Is(err, cartservice.ErrNotCartOwner):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("cart item belongs to another user"))
		return
	case err != nil:
		log.Error("failed to remove cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove cart item"))
		return
	}

	log.Info("cart item removed", slog.Int64("cart_item_id", cartItemID))

	render.JSON(w, r, response.OK())
}
