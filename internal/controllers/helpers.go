package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlinks/internal/services"
)

const (
	DefaultRequestTimeout = 3 * time.Second
)

// TimezoneHeader заголовок, в котором клиент может передать свою IANA зону.
const TimezoneHeader = "X-Timezone"

// isJSONRequest Определяет тип запроса (json или нет) по заголовку Content-Type.
func isJSONRequest(ctx *gin.Context) bool {
	ct := ctx.Request.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/json")
}

// shortURL собирает короткую ссылку. Без baseURL используется Scheme://Host запроса.
func shortURL(r *http.Request, baseURL, shortcode string) string {
	if baseURL != "" {
		return fmt.Sprintf("%s/%s", baseURL, shortcode)
	}
	var scheme = "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, r.Host, shortcode)
}

// clickInfo грубая локаль и часовой пояс посетителя.
func clickInfo(r *http.Request, loc *time.Location) services.ClickInfo {
	return services.ClickInfo{
		Locale:   services.CoarseLocale(r.Header.Get("Accept-Language")),
		Timezone: services.ZoneName(r.Header.Get(TimezoneHeader), loc),
	}
}
