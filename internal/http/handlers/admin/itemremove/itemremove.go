// Package itemremove реализует HTTP-обработчик удаления товара администратором.
package itemremove

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
	itemservice "github.com/magabrotheeeer/resell-market/internal/services/item"
)

// Service описывает интерфейс бизнес-логики модерации товаров.
type Service interface {
	RemoveAny(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы удаления товара администратором.
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
// @Summary Удаление товара (админ)
// @Description Удаляет любой товар вне зависимости от владельца.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Success 200 {object} response.Response "Товар удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/items/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.itemremove"

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
	if !user.IsAdmin() {
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin rights required"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid item id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid item id"))
		return
	}

	err = h.service.RemoveAny(r.Context(), id)
	if errors.Is(err, itemservice.ErrItemNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("item not found"))
		return
	}
	if err != nil {
		log.Error("failed to remove item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove item"))
		return
	}

	log.Info("item removed by admin", slog.Int64("item_id", id))

	render.JSON(w, r, response.OK())
}
