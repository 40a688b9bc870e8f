package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/config"
	"github.com/fsdevblog/shortlinks/internal/controllers"
	"github.com/fsdevblog/shortlinks/internal/db"
	"github.com/fsdevblog/shortlinks/internal/logs"
	"github.com/fsdevblog/shortlinks/internal/repositories/blobstore"
	"github.com/fsdevblog/shortlinks/internal/services"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config   config.Config
	storage  db.BlobStorage
	services *services.Services
	Logger   *logrus.Logger
}

// New открывает хранилище и собирает сервисный слой.
func New(appConf config.Config) (*App, error) {
	logger := logs.New(os.Stdout, logs.WithLevel(appConf.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	storage, err := db.NewStorage(ctx, appConf.FactoryConfig())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return &App{
		config:   appConf,
		storage:  storage,
		services: initServices(storage, appConf, logger),
		Logger:   logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Handler http обработчик приложения.
func (a *App) Handler() http.Handler {
	return controllers.SetupRouter(controllers.RouterParams{
		Registry:      a.services.Registry,
		Redirector:    a.services.Resolver,
		Events:        a.services.Events,
		PingService:   a.services.Ping,
		BaseURL:       a.config.BaseURL,
		RedirectDelay: a.config.RedirectDelay,
		Location:      time.Local,
		Logger:        a.Logger,
	})
}

// Run запускает web сервер и блокируется до SIGINT/SIGTERM или ошибки сервера.
// После остановки сервера хранилище закрывается.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("server shutdown error")
	}

	if err := a.storage.Close(); err != nil {
		a.Logger.WithError(err).Error("close storage error")
	}
	return serverErr
}

// initServices собирает сервисный слой поверх открытого хранилища.
func initServices(storage db.BlobStorage, appConf config.Config, logger *logrus.Logger) *services.Services {
	trackClicks := true
	if appConf.TrackClicks != nil {
		trackClicks = *appConf.TrackClicks
	}
	return services.New(services.Params{
		Storage:         storage,
		Logger:          logger,
		DefaultValidity: appConf.DefaultValidity,
		TrackClicks:     trackClicks,
		LinksKey:        blobstore.DefaultLinksKey,
		EventsKey:       blobstore.DefaultEventsKey,
	})
}
