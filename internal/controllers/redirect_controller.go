package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RedirectController переход по короткой ссылке.
type RedirectController struct {
	redirector Redirector
	delay      time.Duration
	location   *time.Location
}

// NewRedirectController создает новый экземпляр RedirectController.
//
// Параметры:
//   - redirector: сервис разрешения короткого кода
//   - delay: задержка перед переходом; 0 означает немедленный 307 редирект
//   - location: часовой пояс сервера для кликов без X-Timezone
//
// Возвращает:
//   - *RedirectController: новый экземпляр контроллера
func NewRedirectController(redirector Redirector, delay time.Duration, location *time.Location) *RedirectController {
	return &RedirectController{redirector: redirector, delay: delay, location: location}
}

// Redirect обрабатывает GET /:shortcode.
//
// Живая запись:
//   - HTTP 307 Temporary Redirect на длинный URL
//   - HTTP 200 страница с meta refresh, если задана задержка
//
// Неизвестный, невалидный или истекший код:
//   - HTTP 302 Found на главную страницу
func (r *RedirectController) Redirect(ctx *gin.Context) {
	res := r.redirector.ResolveForRedirect(
		ctx.Request.Context(),
		ctx.Param("shortcode"),
		clickInfo(ctx.Request, r.location),
	)

	if res.Fallback {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	if r.delay <= 0 {
		ctx.Redirect(http.StatusTemporaryRedirect, res.Target)
		return
	}

	ctx.HTML(http.StatusOK, redirectTemplate, gin.H{
		"Target":  res.Target,
		"Seconds": int(math.Ceil(r.delay.Seconds())),
	})
}
