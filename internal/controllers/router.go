package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/controllers/middlewares"
	"github.com/fsdevblog/shortlinks/internal/services"
)

// RouterParams зависимости роутера.
type RouterParams struct {
	Registry      LinkRegistry
	Redirector    Redirector
	Events        EventLister
	PingService   ConnectionChecker
	Clock         services.Clock
	BaseURL       string         // Может быть пустым, тогда берется хост запроса
	RedirectDelay time.Duration  // 0 - немедленный редирект
	Location      *time.Location // Часовой пояс сервера
	Logger        *logrus.Logger
}

// SetupRouter создает gin роутер со всеми маршрутами приложения.
func SetupRouter(params RouterParams) *gin.Engine {
	if params.Clock == nil {
		params.Clock = services.RealClock{}
	}
	if params.Location == nil {
		params.Location = time.Local
	}

	r := gin.New()
	r.Use(middlewares.LoggerMiddleware(params.Logger))
	r.Use(gin.Recovery())
	r.Use(middlewares.GzipMiddleware())
	r.SetHTMLTemplate(htmlTemplates)

	shortLinks := NewShortLinkController(params.Registry, params.Clock, params.BaseURL)
	stats := NewStatsController(params.Registry, params.Clock, params.BaseURL)
	redirects := NewRedirectController(params.Redirector, params.RedirectDelay, params.Location)
	events := NewEventsController(params.Events)
	ping := NewPingController(params.PingService)

	r.GET("/", shortLinks.Home)
	r.POST("/", shortLinks.CreateShortURL)
	r.GET("/ping", ping.Ping)
	r.GET("/:shortcode", redirects.Redirect)

	api := r.Group("/api")
	api.POST("/shorten", shortLinks.Shorten)
	api.GET("/urls", shortLinks.List)
	api.GET("/statistics", stats.Statistics)
	api.GET("/statistics/:shortcode", stats.StatisticsByCode)
	api.GET("/events", events.List)
	return r
}
