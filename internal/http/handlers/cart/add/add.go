// Package add реализует HTTP-обработчик добавления товара в корзину.
package add

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
)

// Request представляет структуру запроса на добавление товара в корзину.
type Request struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// Service описывает интерфейс бизнес-логики добавления в корзину.
type Service interface {
	Add(ctx context.Context, userUID string, itemID int64) (int64, error)
}

// Handler обрабатывает запросы добавления товара в корзину.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавление в корзину
// @Description Кладет товар в корзину текущего пользователя.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "ID добавляемого товара"
// @Success 200 {object} response.Response "Товар добавлен"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или декодирования"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cart/add [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	cartItemID, err := h.service.Add(r.Context(), user.UID, req.ItemID)
	if errors.Is(err, cartservice.ErrItemNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("item not found"))
		return
	}
	if err != nil {
		log.Error("failed to add item to cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add item to cart"))
		return
	}

	log.Info("item added to cart", slog.Int64("item_id", req.ItemID))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart_item_id": cartItemID,
	}))
}
