// Package filestore хранилище блобов в одном JSON файле.
//
// Файл содержит объект вида {"<ключ>": <документ>, ...}. Каждая запись перезаписывает
// файл целиком через временный файл и rename, поэтому при сбое на диске остается
// либо старая, либо новая версия.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidJSON = errors.New("blob is not valid json")
	ErrCorrupted   = errors.New("storage file is corrupted")
)

const filePerm = 0o600

// Storage файловое хранилище блобов.
type Storage struct {
	path string
	mu   sync.Mutex
}

// New создает хранилище для файла path. Каталог создается при необходимости,
// сам файл появляется при первой записи.
//
// Параметры:
//   - path: путь к JSON файлу
//
// Возвращает:
//   - *Storage: хранилище
//   - error: ошибка создания каталога
func New(path string) (*Storage, error) {
	if path == "" {
		return nil, errors.New("file storage path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create storage dir for `%s`: %w", path, err)
	}
	return &Storage{path: path}, nil
}

// Get возвращает блоб по ключу. Если файла или ключа нет, возвращается ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return nil, err
	}
	val, ok := data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(val), nil
}

// Put заменяет блоб по ключу. Значение обязано быть валидным JSON.
func (s *Storage) Put(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	if !json.Valid(val) {
		return fmt.Errorf("%w: key `%s`", ErrInvalidJSON, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return err
	}
	data[key] = append(json.RawMessage(nil), val...)
	return s.writeAll(data)
}

// Ping проверяет, что файл читается (или еще не создан).
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.readAll()
	return err
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) readAll() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("read storage file `%s`: %w", s.path, err)
	}

	data := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode `%s`: %s", ErrCorrupted, s.path, err.Error())
	}
	return data, nil
}

func (s *Storage) writeAll(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace storage file `%s`: %w", s.path, err)
	}
	return nil
}
