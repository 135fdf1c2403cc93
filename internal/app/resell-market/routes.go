// Package resellmarket предоставляет маршруты для основного приложения.
package resellmarket

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminitems "github.com/magabrotheeeer/resell-market/internal/http/handlers/admin/items"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/admin/itemremove"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/admin/toggleadmin"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/admin/users"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/auth/register"
	cartadd "github.com/magabrotheeeer/resell-market/internal/http/handlers/cart/add"
	cartcheckout "github.com/magabrotheeeer/resell-market/internal/http/handlers/cart/checkout"
	cartget "github.com/magabrotheeeer/resell-market/internal/http/handlers/cart/get"
	cartremove "github.com/magabrotheeeer/resell-market/internal/http/handlers/cart/remove"
	"github.com/magabrotheeeer/resell-market/internal/http/handlers/health"
	itemcreate "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/create"
	itemlist "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/list"
	itemmy "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/my"
	itemread "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/read"
	itemremovehandler "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/remove"
	itemupdate "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/update"
	itemupload "github.com/magabrotheeeer/resell-market/internal/http/handlers/item/upload"
	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"

	"github.com/magabrotheeeer/resell-market/internal/filestorage"
	adminservice "github.com/magabrotheeeer/resell-market/internal/services/admin"
	authservice "github.com/magabrotheeeer/resell-market/internal/services/auth"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
	itemservice "github.com/magabrotheeeer/resell-market/internal/services/item"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	itemService *itemservice.ItemService,
	cartService *cartservice.CartService,
	adminService *adminservice.AdminService,
	fileStore filestorage.Storage,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Личность разрешается один раз для всех маршрутов,
		// анонимные запросы не отклоняются
		r.Use(middlewarectx.IdentityMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		r.Get("/items", itemlist.New(logger, itemService).ServeHTTP)
		r.Get("/items/my", itemmy.New(logger, itemService).ServeHTTP)
		r.Get("/items/{id}", itemread.New(logger, itemService).ServeHTTP)
		r.Post("/items", itemcreate.New(logger, itemService).ServeHTTP)
		r.Put("/items/{id}", itemupdate.New(logger, itemService).ServeHTTP)
		r.Delete("/items/{id}", itemremovehandler.New(logger, itemService).ServeHTTP)
		r.Post("/items/upload", itemupload.New(logger, fileStore).ServeHTTP)

		r.Get("/cart", cartget.New(logger, cartService).ServeHTTP)
		r.Post("/cart/add", cartadd.New(logger, cartService).ServeHTTP)
		r.Delete("/cart/remove/{cartItemID}", cartremove.New(logger, cartService).ServeHTTP)
		r.Post("/cart/checkout", cartcheckout.New(logger, cartService).ServeHTTP)

		r.Get("/admin/items", adminitems.New(logger, itemService).ServeHTTP)
		r.Delete("/admin/items/{id}", itemremove.New(logger, itemService).ServeHTTP)
		r.Get("/admin/users", users.New(logger, adminService).ServeHTTP)
		r.Post("/admin/users/{id}/toggle-admin", toggleadmin.New(logger, adminService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
