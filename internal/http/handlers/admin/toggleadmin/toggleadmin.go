// Package toggleadmin реализует HTTP-обработчик переключения роли пользователя.
package toggleadmin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
	"github.com/magabrotheeeer/resell-market/internal/models"
	adminservice "github.com/magabrotheeeer/resell-market/internal/services/admin"
)

// Service описывает интерфейс бизнес-логики управления ролями.
type Service interface {
	ToggleRole(ctx context.Context, uid string) (models.Role, error)
}

// Handler обрабатывает запросы переключения роли пользователя.
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
// @Summary Переключение роли (админ)
// @Description Меняет роль пользователя между user и admin.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} map[string]any "Новая роль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{id}/toggle-admin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.toggleadmin"

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

	uid := chi.URLParam(r, "id")

	role, err := h.service.ToggleRole(r.Context(), uid)
	if errors.Is(err, adminservice.ErrUserNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if err != nil {
		log.Error("failed to toggle user role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle user role"))
		return
	}

	log.Info("user role toggled",
		slog.String("uid", uid),
		slog.String("role", string(role)))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":  uid,
		"role": role,
	}))
}
