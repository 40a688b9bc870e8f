package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/db"
	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/repositories"
)

// Ключи документов по умолчанию.
const (
	DefaultLinksKey  = "shortlinks:data"
	DefaultEventsKey = "shortlinks:events"
)

// docRepo читает и пишет один документ типа T под фиксированным ключом.
type docRepo[T any] struct {
	s      db.BlobStorage
	key    string
	logger *logrus.Entry
}

func (r *docRepo[T]) load(ctx context.Context) (*T, error) {
	doc, err := db.GetJSON[T](ctx, r.s, r.key)
	if err == nil {
		return doc, nil
	}
	converted := convertErrorType(err)
	if errors.Is(converted, repositories.ErrNotFound) {
		return new(T), nil
	}
	r.logger.WithError(err).Errorf("failed to load document `%s`", r.key)
	return nil, fmt.Errorf("failed to load document `%s`: %w", r.key, converted)
}

func (r *docRepo[T]) save(ctx context.Context, doc *T) error {
	if err := db.PutJSON[T](ctx, r.s, r.key, doc); err != nil {
		r.logger.WithError(err).Errorf("failed to save document `%s`", r.key)
		return fmt.Errorf("failed to save document `%s`: %w", r.key, convertErrorType(err))
	}
	return nil
}

// LinkRepo репозиторий документа со ссылками.
type LinkRepo struct {
	repo docRepo[models.Document]
}

// NewLinkRepo создает репозиторий ссылок.
//
// Параметры:
//   - s: хранилище блобов
//   - key: ключ документа (пустая строка - DefaultLinksKey)
//   - logger: логгер
//
// Возвращает:
//   - *LinkRepo: инициализированный репозиторий
func NewLinkRepo(s db.BlobStorage, key string, logger *logrus.Logger) *LinkRepo {
	if key == "" {
		key = DefaultLinksKey
	}
	return &LinkRepo{repo: docRepo[models.Document]{
		s:      s,
		key:    key,
		logger: logger.WithField("module", "repository/blobstore/links"),
	}}
}

// Load читает документ целиком. Отсутствующий документ возвращается пустым.
func (r *LinkRepo) Load(ctx context.Context) (*models.Document, error) {
	return r.repo.load(ctx)
}

// Save перезаписывает документ целиком.
func (r *LinkRepo) Save(ctx context.Context, doc *models.Document) error {
	return r.repo.save(ctx, doc)
}

// EventRepo репозиторий журнала событий.
type EventRepo struct {
	repo docRepo[models.EventLog]
}

func NewEventRepo(s db.BlobStorage, key string, logger *logrus.Logger) *EventRepo {
	if key == "" {
		key = DefaultEventsKey
	}
	return &EventRepo{repo: docRepo[models.EventLog]{
		s:      s,
		key:    key,
		logger: logger.WithField("module", "repository/blobstore/events"),
	}}
}

func (r *EventRepo) Load(ctx context.Context) (*models.EventLog, error) {
	return r.repo.load(ctx)
}

func (r *EventRepo) Save(ctx context.Context, log *models.EventLog) error {
	return r.repo.save(ctx, log)
}
