package memory

import (
	"context"
	"sync"
)

// MStorage хранилище блобов в памяти. Значения копируются на входе и выходе,
// поэтому вызывающий код не может изменить сохраненные данные.
type MStorage struct {
	data map[string][]byte
	m    sync.RWMutex
}

func NewMemStorage() *MStorage {
	return &MStorage{
		data: make(map[string][]byte),
	}
}

// Get возвращает копию блоба по ключу или ErrNotFound.
func (m *MStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	m.m.RLock()
	defer m.m.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

// Put полностью заменяет блоб по ключу.
func (m *MStorage) Put(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	m.m.Lock()
	defer m.m.Unlock()

	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *MStorage) Ping(ctx context.Context) error {
	return ctx.Err() //nolint:wrapcheck
}

func (m *MStorage) Close() error {
	return nil
}
