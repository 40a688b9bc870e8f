package controllers

import (
	"context"

	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/services"
)

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// LinkRegistry реестр коротких ссылок.
type LinkRegistry interface {
	Create(ctx context.Context, req services.CreateRequest) (*models.ShortLink, error)
	// CreateBatch создает пакет ссылок целиком либо не создает ни одной.
	CreateBatch(ctx context.Context, reqs []services.CreateRequest) ([]models.ShortLink, error)
	// Resolve возвращает запись независимо от срока жизни.
	Resolve(ctx context.Context, shortcode string) (*models.ShortLink, error)
	List(ctx context.Context) []models.ShortLink
}

type Redirector interface {
	ResolveForRedirect(ctx context.Context, shortcode string, info services.ClickInfo) services.Redirect
}

type EventLister interface {
	List(ctx context.Context) []models.Event
}
