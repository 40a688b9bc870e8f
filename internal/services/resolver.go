package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/models"
)

// LiveResolver часть реестра, нужная для редиректа.
type LiveResolver interface {
	ResolveLive(ctx context.Context, shortcode string) (*models.ShortLink, error)
	RecordClick(ctx context.Context, shortcode string, info ClickInfo) bool
}

// Redirect результат разрешения кода: либо Target, либо Fallback на главную страницу.
type Redirect struct {
	Target   string
	Fallback bool
	// Reason причина fallback: ErrNotFound, ErrExpired или ErrInvalidShortcode.
	Reason error
}

// ResolverOptions настройки резолвера.
type ResolverOptions struct {
	TrackClicks bool
	Events      EventRecorder
	Logger      *logrus.Logger
}

// WithClickTracking включает запись клика при успешном редиректе.
func WithClickTracking(enabled bool) func(*ResolverOptions) {
	return func(o *ResolverOptions) {
		o.TrackClicks = enabled
	}
}

// Resolver переводит короткий код в результат навигации.
type Resolver struct {
	registry    LiveResolver
	events      EventRecorder
	logger      *logrus.Entry
	trackClicks bool
}

func NewResolver(registry LiveResolver, opts ...func(*ResolverOptions)) *Resolver {
	options := ResolverOptions{
		Events: noopRecorder{},
		Logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Resolver{
		registry:    registry,
		events:      options.Events,
		logger:      options.Logger.WithField("module", "services/resolver"),
		trackClicks: options.TrackClicks,
	}
}

// ResolveForRedirect возвращает адрес для живой ссылки или сигнал fallback,
// если код невалиден, не найден или истек.
func (r *Resolver) ResolveForRedirect(ctx context.Context, shortcode string, info ClickInfo) Redirect {
	if err := ValidateShortcode(shortcode); err != nil {
		return r.fallback(ctx, shortcode, err)
	}

	link, err := r.registry.ResolveLive(ctx, shortcode)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
			r.logger.WithError(err).Error("unexpected resolve error")
		}
		return r.fallback(ctx, shortcode, err)
	}

	if r.trackClicks {
		r.registry.RecordClick(ctx, shortcode, info)
	}
	r.events.Append(ctx, EventRedirect, map[string]any{
		"shortcode": shortcode,
		"target":    link.LongURL,
	})
	return Redirect{Target: link.LongURL}
}

func (r *Resolver) fallback(ctx context.Context, shortcode string, reason error) Redirect {
	r.events.Append(ctx, EventRedirectFallback, map[string]any{
		"shortcode": shortcode,
		"reason":    reason.Error(),
	})
	return Redirect{Fallback: true, Reason: reason}
}
