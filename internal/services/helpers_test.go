package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shortlinks/internal/models"
)

var errDiskFailure = errors.New("disk failure")

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// sequenceGenerator отдает коды из списка по кругу.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code
}

// flakyStore документное хранилище в памяти, которое умеет ломаться по команде.
type flakyStore struct {
	mu        sync.Mutex
	doc       models.Document
	failLoad  bool
	failSave  bool
	saveCalls int
}

func (s *flakyStore) Load(context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad {
		return nil, errDiskFailure
	}
	doc := s.doc.Clone()
	return &doc, nil
}

func (s *flakyStore) Save(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.failSave {
		return errDiskFailure
	}
	s.doc = doc.Clone()
	return nil
}

func (s *flakyStore) set(fn func(s *flakyStore)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// memEventStore журнал событий в памяти.
type memEventStore struct {
	mu      sync.Mutex
	log     models.EventLog
	err     error
	loadErr error
}

func (s *memEventStore) Load(context.Context) (*models.EventLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	log := models.EventLog{Items: append([]models.Event(nil), s.log.Items...)}
	return &log, nil
}

func (s *memEventStore) Save(_ context.Context, log *models.EventLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.log = models.EventLog{Items: append([]models.Event(nil), log.Items...)}
	return nil
}
