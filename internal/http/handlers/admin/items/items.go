// Package items реализует HTTP-обработчик полного списка товаров для админ-панели.
package items

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

// Service описывает интерфейс бизнес-логики админ-списка товаров.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Item, error)
}

// Handler обрабатывает запросы полного списка товаров.
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
// @Summary Все товары (админ)
// @Description Возвращает все товары, включая проданные.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список товаров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/items [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.items"

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

	items, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list items"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
	}))
}
