// Package cli команды shortctl для работы с реестром ссылок без HTTP сервера.
package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fsdevblog/shortlinks/internal/config"
	"github.com/fsdevblog/shortlinks/internal/db"
	"github.com/fsdevblog/shortlinks/internal/logs"
	"github.com/fsdevblog/shortlinks/internal/repositories/blobstore"
	"github.com/fsdevblog/shortlinks/internal/services"
)

// storageFlags флаги хранилища, перекрывают значения из окружения.
type storageFlags struct {
	storage  string
	file     string
	sqlite   string
	dsn      string
	baseURL  string
	logLevel string
}

type runtime struct {
	services *services.Services
	storage  db.BlobStorage
	baseURL  string
	logger   *logrus.Logger
}

// NewRootCmd создает корневую команду shortctl.
//
// Параметры:
//   - out: куда выводить результат команд
//
// Возвращает:
//   - *cobra.Command: команда со всеми подкомандами
func NewRootCmd(out io.Writer) *cobra.Command {
	flags := new(storageFlags)
	root := &cobra.Command{
		Use:           "shortctl",
		Short:         "Управление короткими ссылками из командной строки",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.storage, "storage", "", "тип хранилища: inMemory, file, sqlite, postgres")
	pf.StringVar(&flags.file, "file", "", "путь к JSON файлу хранилища")
	pf.StringVar(&flags.sqlite, "sqlite", "", "путь к базе SQLite")
	pf.StringVar(&flags.dsn, "dsn", "", "строка подключения к PostgreSQL")
	pf.StringVar(&flags.baseURL, "base-url", "", "базовый адрес коротких ссылок")
	pf.StringVar(&flags.logLevel, "log-level", "error", "уровень логирования")

	root.AddCommand(
		newCreateCmd(flags),
		newBatchCmd(flags),
		newListCmd(flags),
		newStatsCmd(flags),
		newResolveCmd(flags),
		newEventsCmd(flags),
	)
	return root
}

// config собирает конфигурацию из окружения и флагов по тем же правилам, что и сервер:
// тип хранилища выводится из DSN, значения проверяются Normalize.
func (f *storageFlags) config() (*config.Config, error) {
	conf, err := config.LoadEnv()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	conf.StorageType = db.StorageType(firstNonEmpty(f.storage, string(conf.StorageType)))
	conf.FileStoragePath = firstNonEmpty(f.file, conf.FileStoragePath, config.DefaultFileStoragePath)
	conf.SQLitePath = firstNonEmpty(f.sqlite, conf.SQLitePath, config.DefaultSQLitePath)
	conf.DatabaseDSN = firstNonEmpty(f.dsn, conf.DatabaseDSN)
	conf.BaseURL = firstNonEmpty(f.baseURL, conf.BaseURL, "http://"+config.DefaultServerAddress)

	if err := conf.Normalize(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return conf, nil
}

// open собирает сервисный слой. Закрыть хранилище должен вызывающий.
func (f *storageFlags) open(ctx context.Context, errOut io.Writer) (*runtime, error) {
	conf, err := f.config()
	if err != nil {
		return nil, err
	}

	logger := logs.New(errOut, logs.WithLevel(f.logLevel))
	storage, err := db.NewStorage(ctx, conf.FactoryConfig())
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}

	return &runtime{
		services: services.New(services.Params{
			Storage:         storage,
			Logger:          logger,
			DefaultValidity: conf.DefaultValidity,
			TrackClicks:     *conf.TrackClicks,
			LinksKey:        blobstore.DefaultLinksKey,
			EventsKey:       blobstore.DefaultEventsKey,
		}),
		storage: storage,
		baseURL: conf.BaseURL,
		logger:  logger,
	}, nil
}

// withRuntime открывает хранилище на время выполнения команды.
func (f *storageFlags) withRuntime(fn func(cmd *cobra.Command, rt *runtime, args []string) error) func(
	*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := f.open(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := rt.storage.Close(); closeErr != nil {
				rt.logger.WithError(closeErr).Error("close storage")
			}
		}()
		return fn(cmd, rt, args)
	}
}

func (rt *runtime) shortURL(code string) string {
	return rt.baseURL + "/" + code
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
