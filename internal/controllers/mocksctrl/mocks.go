package mocksctrl

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/services"
)

type RegistryMock struct {
	mock.Mock
}

func (r *RegistryMock) Create(ctx context.Context, req services.CreateRequest) (*models.ShortLink, error) {
	args := r.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (r *RegistryMock) CreateBatch(ctx context.Context, reqs []services.CreateRequest) ([]models.ShortLink, error) {
	args := r.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (r *RegistryMock) Resolve(ctx context.Context, shortcode string) (*models.ShortLink, error) {
	args := r.Called(ctx, shortcode)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (r *RegistryMock) List(ctx context.Context) []models.ShortLink {
	args := r.Called(ctx)
	return args.Get(0).([]models.ShortLink) //nolint:errcheck
}

type RedirectorMock struct {
	mock.Mock
}

func (r *RedirectorMock) ResolveForRedirect(
	ctx context.Context,
	shortcode string,
	info services.ClickInfo,
) services.Redirect {
	args := r.Called(ctx, shortcode, info)
	return args.Get(0).(services.Redirect) //nolint:errcheck
}

type EventsMock struct {
	mock.Mock
}

func (e *EventsMock) List(ctx context.Context) []models.Event {
	args := e.Called(ctx)
	return args.Get(0).([]models.Event) //nolint:errcheck
}

type PingMock struct {
	mock.Mock
}

func (p *PingMock) CheckConnection(ctx context.Context) error {
	return p.Called(ctx).Error(0) //nolint:wrapcheck
}
