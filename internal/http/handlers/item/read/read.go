// Package read реализует HTTP-обработчик карточки товара.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	"github.com/magabrotheeeer/resell-market/internal/models"
	itemservice "github.com/magabrotheeeer/resell-market/internal/services/item"
)

// Service описывает интерфейс бизнес-логики карточки товара.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Item, error)
}

// Handler обрабатывает запросы карточки товара.
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
// @Summary Карточка товара
// @Description Возвращает товар по его идентификатору.
// @Tags Items
// @Produce  json
// @Param id path int true "ID товара"
// @Success 200 {object} map[string]any "Товар"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid item id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid item id"))
		return
	}

	item, err := h.service.Read(r.Context(), id)
	if errors.Is(err, itemservice.ErrItemNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("item not found"))
		return
	}
	if err != nil {
		log.Error("failed to read item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read item"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"item": item,
	}))
}
