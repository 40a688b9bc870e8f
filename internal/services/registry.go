package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/models"
)

// Значения по умолчанию.
const (
	DefaultValidity            = 30 * time.Minute
	DefaultMaxBatchSize        = 5
	DefaultMaxGenerateAttempts = 100
)

// DocumentStore хранилище документа со ссылками. Документ читается и пишется целиком.
type DocumentStore interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// CreateRequest строка формы создания ссылки. Validity - срок жизни в минутах
// в том виде, в котором его ввел пользователь; пустые поля означают "не задано".
type CreateRequest struct {
	LongURL   string
	Validity  string
	Shortcode string
}

// RegistryOptions настройки реестра.
type RegistryOptions struct {
	Clock               Clock
	Generator           CodeGenerator
	Events              EventRecorder
	Logger              *logrus.Logger
	DefaultValidity     time.Duration
	MaxBatchSize        int
	MaxGenerateAttempts int
}

// Registry реестр коротких ссылок.
//
// Каждая операция читает документ целиком, изменяет копию и записывает документ обратно.
// Сбои хранилища не прерывают операции: при ошибке чтения используется последняя удачная
// копия из памяти, при ошибке записи изменения остаются в памяти. Пока документ ни разу
// не прочитан, запись не выполняется. Последний сбой доступен через StorageErr.
type Registry struct {
	store     DocumentStore
	clock     Clock
	generator CodeGenerator
	events    EventRecorder
	logger    *logrus.Entry

	defaultValidity     time.Duration
	maxBatchSize        int
	maxGenerateAttempts int

	mu         sync.Mutex
	cache      models.Document
	loaded     bool // документ хотя бы раз прочитан из хранилища
	storageErr error
}

// NewRegistry создает реестр.
//
// Параметры:
//   - store: хранилище документа
//   - opts: функции настройки (часы, генератор кодов, журнал событий, логгер, лимиты)
//
// Возвращает:
//   - *Registry: реестр
func NewRegistry(store DocumentStore, opts ...func(*RegistryOptions)) *Registry {
	options := RegistryOptions{
		Clock:               RealClock{},
		Events:              noopRecorder{},
		Logger:              logrus.StandardLogger(),
		DefaultValidity:     DefaultValidity,
		MaxBatchSize:        DefaultMaxBatchSize,
		MaxGenerateAttempts: DefaultMaxGenerateAttempts,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Generator == nil {
		options.Generator = NewGenerator()
	}
	return &Registry{
		store:               store,
		clock:               options.Clock,
		generator:           options.Generator,
		events:              options.Events,
		logger:              options.Logger.WithField("module", "services/registry"),
		defaultValidity:     options.DefaultValidity,
		maxBatchSize:        options.MaxBatchSize,
		maxGenerateAttempts: options.MaxGenerateAttempts,
	}
}

// Create создает одну ссылку. Ошибки валидации возвращаются без RowError.
func (r *Registry) Create(ctx context.Context, req CreateRequest) (*models.ShortLink, error) {
	links, err := r.CreateBatch(ctx, []CreateRequest{req})
	if err != nil {
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			return nil, rowErr.Err
		}
		return nil, err
	}
	return &links[0], nil
}

// CreateBatch создает пакет ссылок по принципу "все или ничего".
//
// Сначала проверяются все строки: URL, срок жизни, формат кода, коллизии с существующими
// кодами и с другими строками пакета. Первая невалидная строка отменяет весь пакет
// и возвращается как *RowError. Затем генерируются коды для строк без кода,
// записи добавляются в начало списка и документ сохраняется один раз.
//
// Параметры:
//   - ctx: контекст выполнения
//   - reqs: строки формы, от 1 до MaxBatchSize
//
// Возвращает:
//   - []models.ShortLink: созданные записи в порядке строк
//   - error: ErrEmptyBatch, ErrBatchTooLarge, *RowError или ErrGenerateExhausted
func (r *Registry) CreateBatch(ctx context.Context, reqs []CreateRequest) ([]models.ShortLink, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > r.maxBatchSize {
		return nil, pkgerrors.Wrapf(ErrBatchTooLarge, "got %d rows, max %d", len(reqs), r.maxBatchSize)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	taken := make(map[string]struct{}, len(doc.Items)+len(reqs)+len(ReservedShortcodes))
	for _, code := range ReservedShortcodes {
		taken[code] = struct{}{}
	}
	for _, item := range doc.Items {
		taken[item.Shortcode] = struct{}{}
	}

	now := r.clock.Now().UTC()
	prepared := make([]models.ShortLink, len(reqs))
	for i, req := range reqs {
		link, err := r.prepare(req, now, taken)
		if err != nil {
			rowErr := &RowError{Row: i + 1, Err: err}
			r.events.Append(ctx, EventBatchRejected, map[string]any{
				"row":   rowErr.Row,
				"rows":  len(reqs),
				"error": err.Error(),
			})
			return nil, rowErr
		}
		if link.Shortcode != "" {
			taken[link.Shortcode] = struct{}{}
		}
		prepared[i] = link
	}

	for i := range prepared {
		if prepared[i].Shortcode != "" {
			continue
		}
		code, err := r.generateCode(taken)
		if err != nil {
			return nil, err
		}
		taken[code] = struct{}{}
		prepared[i].Shortcode = code
	}

	items := make([]models.ShortLink, 0, len(prepared)+len(doc.Items))
	for i := len(prepared) - 1; i >= 0; i-- {
		items = append(items, prepared[i])
	}
	doc.Items = append(items, doc.Items...)
	r.persist(ctx, &doc)

	result := make([]models.ShortLink, len(prepared))
	for i := range prepared {
		result[i] = prepared[i].Clone()
		r.events.Append(ctx, EventLinkCreated, map[string]any{
			"shortcode": prepared[i].Shortcode,
			"longUrl":   prepared[i].LongURL,
			"expireAt":  prepared[i].ExpireAt,
		})
	}
	r.logger.WithField("count", len(result)).Debug("links created")
	return result, nil
}

// prepare проверяет строку и собирает запись. Код остается пустым, если его нужно сгенерировать.
func (r *Registry) prepare(req CreateRequest, now time.Time, taken map[string]struct{}) (models.ShortLink, error) {
	longURL, err := validateURL(req.LongURL)
	if err != nil {
		return models.ShortLink{}, err
	}
	validity, err := parseValidity(req.Validity, r.defaultValidity)
	if err != nil {
		return models.ShortLink{}, err
	}

	code := ""
	if desired := req.Shortcode; desired != "" {
		if err := ValidateShortcode(desired); err != nil {
			return models.ShortLink{}, err
		}
		if slices.Contains(ReservedShortcodes, desired) {
			return models.ShortLink{}, pkgerrors.Wrapf(ErrShortcodeCollision, "shortcode %s is reserved", desired)
		}
		if _, exists := taken[desired]; exists {
			return models.ShortLink{}, pkgerrors.Wrapf(ErrShortcodeCollision, "shortcode %s", desired)
		}
		code = desired
	}

	return models.ShortLink{
		ID:        uuid.NewString(),
		Shortcode: code,
		LongURL:   longURL,
		CreatedAt: now,
		ExpireAt:  now.Add(validity),
		Clicks:    []models.Click{},
	}, nil
}

func (r *Registry) generateCode(taken map[string]struct{}) (string, error) {
	for range r.maxGenerateAttempts {
		code := r.generator.Generate()
		if _, exists := taken[code]; !exists {
			return code, nil
		}
	}
	return "", pkgerrors.Wrapf(ErrGenerateExhausted, "%d attempts", r.maxGenerateAttempts)
}

// Resolve возвращает запись независимо от срока жизни.
func (r *Registry) Resolve(ctx context.Context, shortcode string) (*models.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	idx := doc.Find(shortcode)
	if idx < 0 {
		return nil, pkgerrors.Wrapf(ErrNotFound, "shortcode %s", shortcode)
	}
	link := doc.Items[idx].Clone()
	return &link, nil
}

// ResolveLive возвращает запись, только если она еще жива. Ровно в момент ExpireAt запись истекла.
func (r *Registry) ResolveLive(ctx context.Context, shortcode string) (*models.ShortLink, error) {
	link, err := r.Resolve(ctx, shortcode)
	if err != nil {
		return nil, err
	}
	if !link.IsLive(r.clock.Now()) {
		return nil, pkgerrors.Wrapf(ErrExpired, "shortcode %s expired at %s", shortcode, link.ExpireAt.Format(time.RFC3339))
	}
	return link, nil
}

// RecordClick добавляет клик к записи. Если записи нет, ничего не делает и возвращает false.
func (r *Registry) RecordClick(ctx context.Context, shortcode string, info ClickInfo) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	idx := doc.Find(shortcode)
	if idx < 0 {
		return false
	}
	click := models.Click{
		Timestamp: r.clock.Now().UTC(),
		Locale:    info.Locale,
		Timezone:  info.Timezone,
	}
	doc.Items[idx].Clicks = append(doc.Items[idx].Clicks, click)
	r.persist(ctx, &doc)

	r.events.Append(ctx, EventClickRecorded, map[string]any{
		"shortcode": shortcode,
		"locale":    click.Locale,
		"timezone":  click.Timezone,
	})
	return true
}

// List возвращает все записи, новые в начале.
func (r *Registry) List(ctx context.Context) []models.ShortLink {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	return doc.Items
}

// StorageErr возвращает последний сбой хранилища (ErrStorageUnavailable) или nil,
// если последнее обращение к хранилищу прошло успешно.
func (r *Registry) StorageErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.storageErr
}

// load читает документ из хранилища. Возвращаемая копия принадлежит вызывающему.
func (r *Registry) load(ctx context.Context) models.Document {
	doc, err := r.store.Load(ctx)
	if err != nil {
		r.markStorageErr(ctx, "load", err)
		return r.cache.Clone()
	}
	r.storageErr = nil
	r.loaded = true
	r.cache = doc.Clone()
	return *doc
}

// persist сохраняет документ. doc после вызова принадлежит реестру.
// Пока документ ни разу не был прочитан, запись пропускается: иначе пустая копия
// из памяти затерла бы сохраненные данные.
func (r *Registry) persist(ctx context.Context, doc *models.Document) {
	r.cache = *doc
	if !r.loaded {
		r.markStorageErr(ctx, "save", errNeverLoaded)
		return
	}
	if err := r.store.Save(ctx, doc); err != nil {
		r.markStorageErr(ctx, "save", err)
		return
	}
	r.storageErr = nil
}

func (r *Registry) markStorageErr(ctx context.Context, op string, err error) {
	r.storageErr = fmt.Errorf("%w: %s: %s", ErrStorageUnavailable, op, err.Error())
	r.logger.WithError(err).WithField("op", op).Warn("storage unavailable, using in-memory state")
	r.events.Append(ctx, EventStorageUnavailable, map[string]any{
		"op":    op,
		"error": err.Error(),
	})
}
