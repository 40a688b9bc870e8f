package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/services"
)

// StatsController статистика переходов. Истекшие записи тоже показываются.
type StatsController struct {
	registry LinkRegistry
	clock    services.Clock
	baseURL  string
}

func NewStatsController(registry LinkRegistry, clock services.Clock, baseURL string) *StatsController {
	return &StatsController{registry: registry, clock: clock, baseURL: baseURL}
}

type linkStats struct {
	Shortcode  string         `json:"shortcode"`
	ShortURL   string         `json:"shortUrl"`
	URL        string         `json:"url"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpireAt   time.Time      `json:"expireAt"`
	Expired    bool           `json:"expired"`
	ClickCount int            `json:"clickCount"`
	Clicks     []models.Click `json:"clicks"`
}

// Statistics обрабатывает GET /api/statistics.
func (s *StatsController) Statistics(ctx *gin.Context) {
	now := s.clock.Now()
	links := s.registry.List(ctx.Request.Context())
	result := make([]linkStats, len(links))
	for i, link := range links {
		result[i] = s.toStats(ctx.Request, link, now)
	}
	ctx.JSON(http.StatusOK, result)
}

// StatisticsByCode обрабатывает GET /api/statistics/:shortcode.
//
// В случае ошибки возвращает:
//   - HTTP 404 если записи нет
//   - HTTP 500 прочие ошибки
func (s *StatsController) StatisticsByCode(ctx *gin.Context) {
	link, err := s.registry.Resolve(ctx.Request.Context(), ctx.Param("shortcode"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse{Error: ErrRecordNotFound.Error()})
			return
		}
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: ErrInternal.Error()})
		return
	}
	ctx.JSON(http.StatusOK, s.toStats(ctx.Request, *link, s.clock.Now()))
}

func (s *StatsController) toStats(r *http.Request, link models.ShortLink, now time.Time) linkStats {
	clicks := link.Clicks
	if clicks == nil {
		clicks = []models.Click{}
	}
	return linkStats{
		Shortcode:  link.Shortcode,
		ShortURL:   shortURL(r, s.baseURL, link.Shortcode),
		URL:        link.LongURL,
		CreatedAt:  link.CreatedAt,
		ExpireAt:   link.ExpireAt,
		Expired:    !link.IsLive(now),
		ClickCount: len(link.Clicks),
		Clicks:     clicks,
	}
}
