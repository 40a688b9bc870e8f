package controllers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/services"
)

// ShortLinkController создание и просмотр коротких ссылок.
type ShortLinkController struct {
	registry LinkRegistry
	clock    services.Clock
	baseURL  string
}

// NewShortLinkController создает новый экземпляр ShortLinkController.
//
// Параметры:
//   - registry: реестр ссылок
//   - clock: источник текущего времени для признака expired
//   - baseURL: базовый адрес коротких ссылок, может быть пустым
//
// Возвращает:
//   - *ShortLinkController: новый экземпляр контроллера
func NewShortLinkController(registry LinkRegistry, clock services.Clock, baseURL string) *ShortLinkController {
	return &ShortLinkController{registry: registry, clock: clock, baseURL: baseURL}
}

type shortenRow struct {
	URL       string       `json:"url"`
	Validity  flexValidity `json:"validity"`
	Shortcode string       `json:"shortcode"`
}

// shortenRequest тело POST /api/shorten. Тело без "urls" считается пакетом из одной строки.
type shortenRequest struct {
	shortenRow
	URLs []shortenRow `json:"urls"`
}

type createdLink struct {
	ID        string    `json:"id"`
	Shortcode string    `json:"shortcode"`
	ShortURL  string    `json:"shortUrl"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	ExpireAt  time.Time `json:"expireAt"`
}

type listedLink struct {
	Shortcode string    `json:"shortcode"`
	ShortURL  string    `json:"shortUrl"`
	URL       string    `json:"url"`
	ExpireAt  time.Time `json:"expireAt"`
	Expired   bool      `json:"expired"`
}

// Shorten обрабатывает POST /api/shorten.
//
// Тело: {"urls":[{"url":"...","validity":15,"shortcode":"abc"}]}.
//
// В случае успеха возвращает:
//   - HTTP 201 Created с {"result":[...]} в порядке строк запроса
//
// В случае ошибки возвращает:
//   - HTTP 400 если тело не разобрано или размер пакета неверный
//   - HTTP 409 если желаемый код занят
//   - HTTP 422 {"error","row"} если строка невалидна
func (s *ShortLinkController) Shorten(ctx *gin.Context) {
	body, readErr := io.ReadAll(ctx.Request.Body)
	if readErr != nil {
		s.abort(ctx, errors.Wrap(readErr, "read request body"))
		return
	}

	var req shortenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		_ = ctx.Error(errors.Wrap(err, "decode shorten request"))
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: ErrBadRequest.Error()})
		return
	}

	rows := req.URLs
	if rows == nil {
		rows = []shortenRow{req.shortenRow}
	}

	reqs := make([]services.CreateRequest, len(rows))
	for i, row := range rows {
		reqs[i] = services.CreateRequest{
			LongURL:   row.URL,
			Validity:  string(row.Validity),
			Shortcode: row.Shortcode,
		}
	}

	links, err := s.registry.CreateBatch(ctx.Request.Context(), reqs)
	if err != nil {
		s.abort(ctx, err)
		return
	}

	result := make([]createdLink, len(links))
	for i, link := range links {
		result[i] = createdLink{
			ID:        link.ID,
			Shortcode: link.Shortcode,
			ShortURL:  shortURL(ctx.Request, s.baseURL, link.Shortcode),
			URL:       link.LongURL,
			CreatedAt: link.CreatedAt,
			ExpireAt:  link.ExpireAt,
		}
	}
	ctx.JSON(http.StatusCreated, gin.H{"result": result})
}

// CreateShortURL принимаем plain запрос со ссылкой, срок жизни по умолчанию.
func (s *ShortLinkController) CreateShortURL(ctx *gin.Context) {
	if isJSONRequest(ctx) {
		s.Shorten(ctx)
		return
	}

	body, readErr := io.ReadAll(ctx.Request.Body)
	if readErr != nil {
		ctx.String(http.StatusInternalServerError, ErrInternal.Error())
		return
	}
	rawURL := strings.TrimSpace(string(body))
	if rawURL == "" {
		ctx.String(http.StatusBadRequest, ErrEmptyURL.Error())
		return
	}

	link, err := s.registry.Create(ctx.Request.Context(), services.CreateRequest{LongURL: rawURL})
	if err != nil {
		status, resp := newErrorResponse(err)
		_ = ctx.Error(err)
		ctx.String(status, resp.Error)
		return
	}

	ctx.String(http.StatusCreated, shortURL(ctx.Request, s.baseURL, link.Shortcode))
}

// List обрабатывает GET /api/urls: все записи, новые первыми.
func (s *ShortLinkController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.listing(ctx))
}

// Home главная страница со списком ссылок.
func (s *ShortLinkController) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, homeTemplate, gin.H{"Links": s.listing(ctx)})
}

func (s *ShortLinkController) listing(ctx *gin.Context) []listedLink {
	now := s.clock.Now()
	links := s.registry.List(ctx.Request.Context())
	result := make([]listedLink, len(links))
	for i, link := range links {
		result[i] = toListedLink(ctx.Request, s.baseURL, link, now)
	}
	return result
}

func toListedLink(r *http.Request, baseURL string, link models.ShortLink, now time.Time) listedLink {
	return listedLink{
		Shortcode: link.Shortcode,
		ShortURL:  shortURL(r, baseURL, link.Shortcode),
		URL:       link.LongURL,
		ExpireAt:  link.ExpireAt,
		Expired:   !link.IsLive(now),
	}
}

func (s *ShortLinkController) abort(ctx *gin.Context, err error) {
	status, resp := newErrorResponse(err)
	_ = ctx.Error(err)
	ctx.JSON(status, resp)
}
