package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/shortlinks/internal/db/memory"
	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/repositories/blobstore"
)

type RegistrySuite struct {
	suite.Suite
	clock    *MockClock
	store    *flakyStore
	events   *EventLog
	registry *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.clock = NewMockClock(time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	s.store = new(flakyStore)
	s.events = NewEventLog(new(memEventStore), func(o *EventLogOptions) {
		o.Clock = s.clock
		o.Logger = silentLogger()
	})
	s.registry = NewRegistry(s.store, func(o *RegistryOptions) {
		o.Clock = s.clock
		o.Events = s.events
		o.Logger = silentLogger()
	})
}

func (s *RegistrySuite) TestCreate_Defaults() {
	longURL := gofakeit.URL()

	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: longURL})
	s.Require().NoError(err)

	s.Equal(longURL, link.LongURL)
	s.Len(link.Shortcode, models.GeneratedShortcodeLength)
	s.NoError(ValidateShortcode(link.Shortcode))
	s.NotEmpty(link.ID)
	s.Equal(s.clock.Now(), link.CreatedAt)
	s.Equal(s.clock.Now().Add(30*time.Minute), link.ExpireAt)
	s.True(link.ExpireAt.After(link.CreatedAt))
	s.Empty(link.Clicks)

	s.Len(s.registry.List(s.T().Context()), 1)
	s.Equal(1, s.store.saveCalls)
}

func (s *RegistrySuite) TestCreate_CustomShortcodeAndValidity() {
	link, err := s.registry.Create(s.T().Context(), CreateRequest{
		LongURL:   "https://example.com/path?q=1",
		Validity:  "15",
		Shortcode: "Promo2025",
	})
	s.Require().NoError(err)
	s.Equal("Promo2025", link.Shortcode)
	s.Equal(15*time.Minute, link.ExpireAt.Sub(link.CreatedAt))
}

func (s *RegistrySuite) TestCreate_ValidationErrors() {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{name: "not a url", req: CreateRequest{LongURL: "not-a-url"}, wantErr: ErrInvalidURL},
		{name: "empty url", req: CreateRequest{LongURL: "   "}, wantErr: ErrInvalidURL},
		{name: "ftp scheme", req: CreateRequest{LongURL: "ftp://example.com"}, wantErr: ErrInvalidURL},
		{name: "no host", req: CreateRequest{LongURL: "https://"}, wantErr: ErrInvalidURL},
		{name: "space in host", req: CreateRequest{LongURL: "https://exa mple.com"}, wantErr: ErrInvalidURL},
		{name: "zero validity", req: CreateRequest{LongURL: "https://example.com", Validity: "0"}, wantErr: ErrInvalidValidity},
		{name: "negative validity", req: CreateRequest{LongURL: "https://example.com", Validity: "-5"}, wantErr: ErrInvalidValidity},
		{name: "fractional validity", req: CreateRequest{LongURL: "https://example.com", Validity: "1.5"}, wantErr: ErrInvalidValidity},
		{name: "text validity", req: CreateRequest{LongURL: "https://example.com", Validity: "abc"}, wantErr: ErrInvalidValidity},
		{name: "huge validity", req: CreateRequest{LongURL: "https://example.com", Validity: "999999999999"}, wantErr: ErrInvalidValidity},
		{name: "short shortcode", req: CreateRequest{LongURL: "https://example.com", Shortcode: "ab"}, wantErr: ErrInvalidShortcode},
		{name: "long shortcode", req: CreateRequest{LongURL: "https://example.com", Shortcode: strings.Repeat("a", 16)}, wantErr: ErrInvalidShortcode},
		{name: "symbols in shortcode", req: CreateRequest{LongURL: "https://example.com", Shortcode: "ab-cd"}, wantErr: ErrInvalidShortcode},
		{name: "url checked first", req: CreateRequest{LongURL: "bad", Validity: "-1", Shortcode: "x"}, wantErr: ErrInvalidURL},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.registry.Create(s.T().Context(), tt.req)
			s.Require().ErrorIs(err, tt.wantErr)

			var rowErr *RowError
			s.False(errors.As(err, &rowErr), "single create must not return RowError")
		})
	}
	s.Empty(s.registry.List(s.T().Context()))
	s.Zero(s.store.saveCalls)
}

func (s *RegistrySuite) TestCreate_CollisionDoesNotMutate() {
	_, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://a.example.com", Shortcode: "taken"})
	s.Require().NoError(err)
	before := s.registry.List(s.T().Context())

	_, err = s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://b.example.com", Shortcode: "taken"})
	s.Require().ErrorIs(err, ErrShortcodeCollision)

	s.Equal(before, s.registry.List(s.T().Context()))
	s.Equal(1, s.store.saveCalls)
}

func (s *RegistrySuite) TestCreate_ReservedShortcodes() {
	for _, code := range ReservedShortcodes {
		s.Run(code, func() {
			_, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/" + code, Shortcode: code})
			s.Require().ErrorIs(err, ErrShortcodeCollision)
		})
	}
	s.Empty(s.registry.List(s.T().Context()))

	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com", Shortcode: "Ping"})
	s.Require().NoError(err, "route matching is case sensitive")
	s.Equal("Ping", link.Shortcode)
}

func (s *RegistrySuite) TestCreate_GeneratedCodeSkipsReserved() {
	gen := &sequenceGenerator{codes: []string{"ping", "api", "Zz00000"}}
	s.registry = NewRegistry(s.store, func(o *RegistryOptions) {
		o.Clock = s.clock
		o.Generator = gen
		o.Logger = silentLogger()
	})

	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com"})
	s.Require().NoError(err)
	s.Equal("Zz00000", link.Shortcode)
}

func (s *RegistrySuite) TestCreate_GeneratedCodeResamplesOnCollision() {
	gen := &sequenceGenerator{codes: []string{"AAAAAAA", "AAAAAAA", "BBBBBBB"}}
	s.registry = NewRegistry(s.store, func(o *RegistryOptions) {
		o.Clock = s.clock
		o.Generator = gen
		o.Logger = silentLogger()
	})

	first, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/1"})
	s.Require().NoError(err)
	s.Equal("AAAAAAA", first.Shortcode)

	second, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/2"})
	s.Require().NoError(err)
	s.Equal("BBBBBBB", second.Shortcode)
	s.Equal(3, gen.calls)
}

func (s *RegistrySuite) TestCreate_GenerateExhausted() {
	s.registry = NewRegistry(s.store, func(o *RegistryOptions) {
		o.Clock = s.clock
		o.Generator = &sequenceGenerator{codes: []string{"SAMECODE"}}
		o.Logger = silentLogger()
		o.MaxGenerateAttempts = 3
	})

	_, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/1"})
	s.Require().NoError(err)

	_, err = s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/2"})
	s.Require().ErrorIs(err, ErrGenerateExhausted)
	s.Len(s.registry.List(s.T().Context()), 1)
}

func (s *RegistrySuite) TestCreate_GeneratedCodesAreUnique() {
	seen := make(map[string]struct{})
	for range 200 {
		link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: gofakeit.URL()})
		s.Require().NoError(err)
		_, dup := seen[link.Shortcode]
		s.Require().False(dup, "duplicate shortcode %s", link.Shortcode)
		seen[link.Shortcode] = struct{}{}
	}
}

func (s *RegistrySuite) TestList_MostRecentFirst() {
	for i := range 3 {
		_, err := s.registry.Create(s.T().Context(), CreateRequest{
			LongURL:   fmt.Sprintf("https://example.com/%d", i),
			Shortcode: fmt.Sprintf("code%d", i),
		})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	list := s.registry.List(s.T().Context())
	s.Require().Len(list, 3)
	s.Equal([]string{"code2", "code1", "code0"}, []string{list[0].Shortcode, list[1].Shortcode, list[2].Shortcode})
}

func (s *RegistrySuite) TestCreateBatch_AllOrNothing() {
	_, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com", Shortcode: "exists"})
	s.Require().NoError(err)

	tests := []struct {
		name    string
		rows    []CreateRequest
		wantRow int
		wantErr error
	}{
		{
			name: "invalid url in the middle",
			rows: []CreateRequest{
				{LongURL: "https://one.example.com"},
				{LongURL: "nope"},
				{LongURL: "https://three.example.com"},
			},
			wantRow: 2,
			wantErr: ErrInvalidURL,
		},
		{
			name: "collision with existing",
			rows: []CreateRequest{
				{LongURL: "https://one.example.com", Shortcode: "fresh"},
				{LongURL: "https://two.example.com", Shortcode: "exists"},
			},
			wantRow: 2,
			wantErr: ErrShortcodeCollision,
		},
		{
			name: "collision inside batch",
			rows: []CreateRequest{
				{LongURL: "https://one.example.com", Shortcode: "twice"},
				{LongURL: "https://two.example.com", Shortcode: "twice"},
			},
			wantRow: 2,
			wantErr: ErrShortcodeCollision,
		},
		{
			name: "first row invalid validity",
			rows: []CreateRequest{
				{LongURL: "https://one.example.com", Validity: "0"},
				{LongURL: "https://two.example.com"},
			},
			wantRow: 1,
			wantErr: ErrInvalidValidity,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			saves := s.store.saveCalls
			_, err := s.registry.CreateBatch(s.T().Context(), tt.rows)

			var rowErr *RowError
			s.Require().ErrorAs(err, &rowErr)
			s.Equal(tt.wantRow, rowErr.Row)
			s.Require().ErrorIs(err, tt.wantErr)

			s.Len(s.registry.List(s.T().Context()), 1)
			s.Equal(saves, s.store.saveCalls)
		})
	}
}

func (s *RegistrySuite) TestCreateBatch_Success() {
	gen := &sequenceGenerator{codes: []string{"manual1", "GEN0001", "GEN0002"}}
	s.registry = NewRegistry(s.store, func(o *RegistryOptions) {
		o.Clock = s.clock
		o.Generator = gen
		o.Logger = silentLogger()
	})

	links, err := s.registry.CreateBatch(s.T().Context(), []CreateRequest{
		{LongURL: "https://one.example.com"},
		{LongURL: "https://two.example.com", Shortcode: "manual1"},
		{LongURL: "https://three.example.com", Validity: "60"},
	})
	s.Require().NoError(err)
	s.Require().Len(links, 3)

	// generated code never reuses a code desired by another row of the same batch
	s.Equal("GEN0001", links[0].Shortcode)
	s.Equal("manual1", links[1].Shortcode)
	s.Equal("GEN0002", links[2].Shortcode)
	s.Equal(time.Hour, links[2].ExpireAt.Sub(links[2].CreatedAt))

	list := s.registry.List(s.T().Context())
	s.Equal([]string{"GEN0002", "manual1", "GEN0001"},
		[]string{list[0].Shortcode, list[1].Shortcode, list[2].Shortcode})
	s.Equal(1, s.store.saveCalls)
}

func (s *RegistrySuite) TestCreateBatch_Size() {
	_, err := s.registry.CreateBatch(s.T().Context(), nil)
	s.ErrorIs(err, ErrEmptyBatch)

	rows := make([]CreateRequest, DefaultMaxBatchSize+1)
	for i := range rows {
		rows[i] = CreateRequest{LongURL: gofakeit.URL()}
	}
	_, err = s.registry.CreateBatch(s.T().Context(), rows)
	s.ErrorIs(err, ErrBatchTooLarge)

	links, err := s.registry.CreateBatch(s.T().Context(), rows[:DefaultMaxBatchSize])
	s.Require().NoError(err)
	s.Len(links, DefaultMaxBatchSize)
}

func (s *RegistrySuite) TestResolveLive_Expiry() {
	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com", Validity: "1"})
	s.Require().NoError(err)

	got, err := s.registry.ResolveLive(s.T().Context(), link.Shortcode)
	s.Require().NoError(err)
	s.Equal(link.LongURL, got.LongURL)

	s.clock.Advance(time.Minute - time.Nanosecond)
	_, err = s.registry.ResolveLive(s.T().Context(), link.Shortcode)
	s.Require().NoError(err, "one nanosecond before expiry is still live")

	s.clock.Set(link.ExpireAt)
	_, err = s.registry.ResolveLive(s.T().Context(), link.Shortcode)
	s.Require().ErrorIs(err, ErrExpired, "exactly at expiry is expired")

	s.clock.Advance(time.Minute)
	_, err = s.registry.ResolveLive(s.T().Context(), link.Shortcode)
	s.Require().ErrorIs(err, ErrExpired)

	stats, err := s.registry.Resolve(s.T().Context(), link.Shortcode)
	s.Require().NoError(err)
	s.Equal(link.Shortcode, stats.Shortcode)
	s.Len(s.registry.List(s.T().Context()), 1, "expired records are never removed")
}

func (s *RegistrySuite) TestResolve_NotFound() {
	_, err := s.registry.Resolve(s.T().Context(), "missing")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.registry.ResolveLive(s.T().Context(), "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RegistrySuite) TestRecordClick() {
	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com", Shortcode: "clicky"})
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Second)
	s.True(s.registry.RecordClick(s.T().Context(), "clicky", ClickInfo{Locale: "en-US", Timezone: "UTC"}))
	s.clock.Advance(5 * time.Second)
	s.True(s.registry.RecordClick(s.T().Context(), "clicky", ClickInfo{Locale: "ru-RU", Timezone: "Europe/Moscow"}))
	s.False(s.registry.RecordClick(s.T().Context(), "nobody", ClickInfo{}))

	got, err := s.registry.Resolve(s.T().Context(), link.Shortcode)
	s.Require().NoError(err)
	s.Require().Len(got.Clicks, 2)
	s.Equal("en-US", got.Clicks[0].Locale)
	s.Equal("ru-RU", got.Clicks[1].Locale)
	s.Equal(link.CreatedAt.Add(10*time.Second), got.Clicks[1].Timestamp)
	s.Equal(link.ExpireAt, got.ExpireAt, "clicks do not change other fields")
}

func (s *RegistrySuite) TestStorageUnavailable_SaveFails() {
	s.store.set(func(fs *flakyStore) { fs.failSave = true })

	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com"})
	s.Require().NoError(err, "storage failures are not propagated")
	s.Require().ErrorIs(s.registry.StorageErr(), ErrStorageUnavailable)

	// load works but returns the old (empty) document, the new record only lives in memory
	s.store.set(func(fs *flakyStore) { fs.failSave = false; fs.failLoad = true })
	got, err := s.registry.Resolve(s.T().Context(), link.Shortcode)
	s.Require().NoError(err)
	s.Equal(link.LongURL, got.LongURL)
	s.ErrorIs(s.registry.StorageErr(), ErrStorageUnavailable)

	events := s.events.List(s.T().Context())
	s.Require().NotEmpty(events)
	s.Equal(EventStorageUnavailable, events[0].Event)
}

func (s *RegistrySuite) TestStorageUnavailable_Recovers() {
	s.store.set(func(fs *flakyStore) { fs.failLoad = true })
	s.Empty(s.registry.List(s.T().Context()))
	s.Require().ErrorIs(s.registry.StorageErr(), ErrStorageUnavailable)

	s.store.set(func(fs *flakyStore) { fs.failLoad = false })
	s.Empty(s.registry.List(s.T().Context()))
	s.NoError(s.registry.StorageErr())
}

func (s *RegistrySuite) TestStorageUnavailable_NoSaveBeforeFirstLoad() {
	existing := models.ShortLink{
		ID:        "old",
		Shortcode: "keepme",
		LongURL:   "https://example.com/old",
		CreatedAt: s.clock.Now(),
		ExpireAt:  s.clock.Now().Add(time.Hour),
	}
	s.store.set(func(fs *flakyStore) {
		fs.doc = models.Document{Items: []models.ShortLink{existing}}
		fs.failLoad = true
	})

	link, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/new"})
	s.Require().NoError(err)
	s.Zero(s.store.saveCalls, "the empty fallback document must not overwrite stored data")
	s.ErrorIs(s.registry.StorageErr(), ErrStorageUnavailable)

	got, err := s.registry.Resolve(s.T().Context(), link.Shortcode)
	s.Require().NoError(err, "the new record stays in memory")
	s.Equal("https://example.com/new", got.LongURL)

	s.store.set(func(fs *flakyStore) { fs.failLoad = false })
	_, err = s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com/later"})
	s.Require().NoError(err)
	s.NoError(s.registry.StorageErr())

	codes := make([]string, 0, 2)
	for _, item := range s.store.doc.Items {
		codes = append(codes, item.Shortcode)
	}
	s.Contains(codes, "keepme")
	s.Len(codes, 2)
}

func (s *RegistrySuite) TestEventsRecorded() {
	_, err := s.registry.Create(s.T().Context(), CreateRequest{LongURL: "https://example.com", Shortcode: "evt"})
	s.Require().NoError(err)
	_, err = s.registry.CreateBatch(s.T().Context(), []CreateRequest{{LongURL: "bad"}})
	s.Require().Error(err)

	events := s.events.List(s.T().Context())
	s.Require().Len(events, 2)
	s.Equal(EventBatchRejected, events[0].Event)
	s.Equal(1, events[0].Payload["row"])
	s.Equal(EventLinkCreated, events[1].Event)
	s.Equal("evt", events[1].Payload["shortcode"])
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

// TestRegistry_BlobStorage прогоняет реестр поверх настоящего репозитория и хранилища в памяти.
func TestRegistry_BlobStorage(t *testing.T) {
	storage := memory.NewMemStorage()
	clock := NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newRegistry := func() *Registry {
		return NewRegistry(blobstore.NewLinkRepo(storage, "", silentLogger()), func(o *RegistryOptions) {
			o.Clock = clock
			o.Logger = silentLogger()
		})
	}

	link, err := newRegistry().Create(t.Context(), CreateRequest{LongURL: "https://example.com", Validity: "1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// новый экземпляр реестра видит сохраненный документ
	reopened := newRegistry()
	if _, err := reopened.ResolveLive(t.Context(), link.Shortcode); err != nil {
		t.Fatalf("ResolveLive() error = %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := reopened.ResolveLive(t.Context(), link.Shortcode); !errors.Is(err, ErrExpired) {
		t.Fatalf("ResolveLive() error = %v, want ErrExpired", err)
	}
	if _, err := reopened.Resolve(t.Context(), link.Shortcode); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := reopened.StorageErr(); err != nil {
		t.Fatalf("StorageErr() = %v", err)
	}
}
