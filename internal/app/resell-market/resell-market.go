package resellmarket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/resell-market/internal/cache"
	"github.com/magabrotheeeer/resell-market/internal/config"
	"github.com/magabrotheeeer/resell-market/internal/filestorage"
	"github.com/magabrotheeeer/resell-market/internal/lib/jwt"
	"github.com/magabrotheeeer/resell-market/internal/migrations"
	"github.com/magabrotheeeer/resell-market/internal/rabbitmq"
	adminservice "github.com/magabrotheeeer/resell-market/internal/services/admin"
	authservice "github.com/magabrotheeeer/resell-market/internal/services/auth"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
	itemservice "github.com/magabrotheeeer/resell-market/internal/services/item"
	"github.com/magabrotheeeer/resell-market/internal/storage/repository"
)

// App агрегирует зависимости приложения и управляет их жизненным циклом.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
}

// New собирает приложение: хранилище, миграции, кеш, брокер сообщений,
// файловое хранилище, сервисы и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.RetriesCount, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn, []rabbitmq.QueueConfig{
		{QueueName: "orders.created", RoutingKey: "order.created"},
	})
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	fileStore, err := filestorage.New(cfg.FileStorage)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, cfg.InitialAdminEmail, logger)
	itemService := itemservice.NewItemService(db, cacheRedis, logger)
	cartService := cartservice.NewCartService(db, db, publisher, logger)
	adminService := adminservice.NewAdminService(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, itemService, cartService, adminService, fileStore)

	if local, ok := fileStore.(*filestorage.Local); ok {
		router.Handle(cfg.FileStorage.PublicPrefix+"*",
			http.StripPrefix(cfg.FileStorage.PublicPrefix, http.FileServer(http.Dir(local.RootDir()))))
	}

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		a.cache.Db.Close()
		a.amqpConn.Close()
		return err
	}
}
