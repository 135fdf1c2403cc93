// Package upload реализует HTTP-обработчик загрузки изображения товара.
package upload

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resell-market/internal/filestorage"
	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/http/response"
	"github.com/magabrotheeeer/resell-market/internal/lib/sl"
)

// maxUploadSize ограничивает размер загружаемого изображения.
const maxUploadSize = 10 << 20

// Handler обрабатывает загрузку изображений через multipart-форму.
type Handler struct {
	log     *slog.Logger
	storage filestorage.Storage
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, storage filestorage.Storage) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP godoc
// @Summary Загрузка изображения товара
// @Description Принимает файл из multipart-формы и возвращает публичный URL.
// @Tags Items
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "Файл изображения"
// @Success 200 {object} map[string]any "URL загруженного файла"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма или тип файла"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items/upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if _, ok := middlewarectx.UserFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authorization required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("failed to read form file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read file content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read file"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("only image files are allowed"))
		return
	}

	url, err := h.storage.Store(r.Context(), data, header.Filename, contentType)
	if err != nil {
		log.Error("failed to store file", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not store file"))
		return
	}

	log.Info("file uploaded", slog.String("url", url))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
