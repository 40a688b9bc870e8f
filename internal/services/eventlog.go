package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/models"
)

// События журнала.
const (
	EventLinkCreated        = "link_created"
	EventBatchRejected      = "batch_rejected"
	EventClickRecorded      = "click_recorded"
	EventRedirect           = "redirect"
	EventRedirectFallback   = "redirect_fallback"
	EventStorageUnavailable = "storage_unavailable"
)

// EventStore хранилище журнала событий.
type EventStore interface {
	Load(ctx context.Context) (*models.EventLog, error)
	Save(ctx context.Context, log *models.EventLog) error
}

// EventRecorder принимает события. Ошибки записи не возвращаются вызывающему коду.
type EventRecorder interface {
	Append(ctx context.Context, event string, payload map[string]any)
}

type noopRecorder struct{}

func (noopRecorder) Append(context.Context, string, map[string]any) {}

// EventLogOptions настройки журнала.
type EventLogOptions struct {
	Clock  Clock
	Logger *logrus.Logger
	Limit  int
}

// EventLog диагностический журнал событий: новые записи в начале, не более Limit записей.
// Журнал работает по принципу best-effort, сбои хранилища только логируются.
type EventLog struct {
	store  EventStore
	clock  Clock
	logger *logrus.Entry
	limit  int

	mu     sync.Mutex
	cache  models.EventLog
	loaded bool
}

// NewEventLog создает журнал событий.
//
// Параметры:
//   - store: хранилище журнала
//   - opts: функции настройки
//
// Возвращает:
//   - *EventLog: журнал
func NewEventLog(store EventStore, opts ...func(*EventLogOptions)) *EventLog {
	options := EventLogOptions{
		Clock:  RealClock{},
		Logger: logrus.StandardLogger(),
		Limit:  models.EventLogLimit,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &EventLog{
		store:  store,
		clock:  options.Clock,
		logger: options.Logger.WithField("module", "services/eventlog"),
		limit:  options.Limit,
	}
}

// Append добавляет событие в начало журнала и обрезает журнал до лимита.
func (l *EventLog) Append(ctx context.Context, event string, payload map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.load(ctx)
	entry := models.Event{
		ID:        uuid.NewString(),
		Timestamp: l.clock.Now().UTC(),
		Event:     event,
		Payload:   payload,
	}

	items := make([]models.Event, 0, min(len(log.Items)+1, l.limit))
	items = append(items, entry)
	for _, e := range log.Items {
		if len(items) >= l.limit {
			break
		}
		items = append(items, e)
	}
	log.Items = items
	l.cache = log

	if !l.loaded {
		l.logger.WithField("event", event).Warn("event log was never loaded, save skipped")
		return
	}
	if err := l.store.Save(ctx, &log); err != nil {
		l.logger.WithError(err).WithField("event", event).Warn("event log is not persisted")
	}
}

// List возвращает все события, новые в начале.
func (l *EventLog) List(ctx context.Context) []models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.load(ctx)
	return append([]models.Event(nil), log.Items...)
}

func (l *EventLog) load(ctx context.Context) models.EventLog {
	log, err := l.store.Load(ctx)
	if err != nil {
		l.logger.WithError(err).Warn("event log is not loaded, using in-memory copy")
		return models.EventLog{Items: append([]models.Event(nil), l.cache.Items...)}
	}
	l.loaded = true
	return *log
}
