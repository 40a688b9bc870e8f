package db

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// BlobStorage хранилище ключ/значение, где значение это целый JSON документ.
// Запись всегда полностью заменяет значение по ключу.
type BlobStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// GetJSON читает блоб по ключу и декодирует его в T.
// Ошибки хранилища возвращаются как есть (обернутыми), чтобы репозиторий мог их распознать.
func GetJSON[T any](ctx context.Context, s BlobStorage, key string) (*T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get blob by key `%s`", key)
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json by key `%s`: %s", ErrDecode, key, err.Error())
	}
	return &result, nil
}

// PutJSON кодирует val и сохраняет его по ключу.
func PutJSON[T any](ctx context.Context, s BlobStorage, key string, val *T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal json for key `%s`", key)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return errors.Wrapf(err, "failed to put blob by key `%s`", key)
	}
	return nil
}
