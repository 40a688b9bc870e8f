package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/shortlinks/internal/db/filestore"
	"github.com/fsdevblog/shortlinks/internal/db/memory"
)

type StorageType string

const (
	StorageTypeInMemory StorageType = "inMemory"
	StorageTypeFile     StorageType = "file"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypePostgres StorageType = "postgres"
)

type FactoryConfig struct {
	StorageType  StorageType
	FilePath     string
	SQLiteDBPath string
	PostgresDSN  string
}

// NewStorage создает хранилище блобов нужного типа.
//
// Параметры:
//   - ctx: контекст выполнения (используется при подключении к PostgreSQL)
//   - config: тип хранилища и параметры подключения
//
// Возвращает:
//   - BlobStorage: хранилище
//   - error: ошибка подключения или неизвестный тип
func NewStorage(ctx context.Context, config FactoryConfig) (BlobStorage, error) {
	switch config.StorageType {
	case StorageTypeInMemory:
		return memory.NewMemStorage(), nil
	case StorageTypeFile:
		s, err := filestore.New(config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create file storage: %w", err)
		}
		return s, nil
	case StorageTypeSQLite:
		if config.SQLiteDBPath == "" {
			return nil, errors.New("sqlite db path is empty")
		}
		s, err := NewSQLite(config.SQLiteDBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageTypePostgres:
		if config.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is empty")
		}
		s, err := NewPostgres(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.StorageType)
	}
}
