package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/db"
	"github.com/fsdevblog/shortlinks/internal/repositories/blobstore"
)

// Services сервисный слой приложения поверх одного хранилища блобов.
type Services struct {
	Registry *Registry
	Resolver *Resolver
	Events   *EventLog
	Ping     *PingService
}

// Params параметры сборки сервисного слоя.
type Params struct {
	Storage         db.BlobStorage
	Logger          *logrus.Logger
	Clock           Clock
	DefaultValidity time.Duration
	TrackClicks     bool
	LinksKey        string
	EventsKey       string
}

// New собирает реестр, резолвер, журнал событий и ping сервис.
func New(p Params) *Services {
	if p.Clock == nil {
		p.Clock = RealClock{}
	}
	if p.DefaultValidity <= 0 {
		p.DefaultValidity = DefaultValidity
	}

	events := NewEventLog(blobstore.NewEventRepo(p.Storage, p.EventsKey, p.Logger), func(o *EventLogOptions) {
		o.Clock = p.Clock
		o.Logger = p.Logger
	})
	registry := NewRegistry(blobstore.NewLinkRepo(p.Storage, p.LinksKey, p.Logger), func(o *RegistryOptions) {
		o.Clock = p.Clock
		o.Events = events
		o.Logger = p.Logger
		o.DefaultValidity = p.DefaultValidity
	})
	resolver := NewResolver(registry, WithClickTracking(p.TrackClicks), func(o *ResolverOptions) {
		o.Events = events
		o.Logger = p.Logger
	})

	return &Services{
		Registry: registry,
		Resolver: resolver,
		Events:   events,
		Ping:     NewPingService(p.Storage, registry),
	}
}
