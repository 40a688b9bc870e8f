package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage хранилище блобов поверх PostgreSQL.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresConnection создает новый пул подключений к PostgreSQL.
//
// Параметры:
//   - ctx: контекст выполнения
//   - dsn: строка подключения к базе данных (Data Source Name)
//
// Возвращает:
//   - *pgxpool.Pool: пул подключений к PostgreSQL
//   - error: ошибка создания подключения
func NewPostgresConnection(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, confErr := pgxpool.ParseConfig(dsn)
	if confErr != nil {
		return nil, fmt.Errorf("failed to parse config: %w", confErr)
	}
	pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		return nil, fmt.Errorf("failed to create pool: %w", poolErr)
	}
	return pool, nil
}

// NewPostgres подключается к базе и создает таблицу blobs, если ее нет.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := NewPostgresConnection(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if migrateErr := simpleMigrateSchema(ctx, pool); migrateErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", migrateErr)
	}
	return &PostgresStorage{pool: pool}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS blobs (
    name VARCHAR(128) PRIMARY KEY,
    value BYTEA NOT NULL,
    updated_at timestamp with time zone DEFAULT now()
);
`

func simpleMigrateSchema(ctx context.Context, conn *pgxpool.Pool) error {
	_, err := conn.Exec(ctx, schemaSQL)
	return err //nolint:wrapcheck
}

// Get возвращает блоб. Если ключа нет - pgx.ErrNoRows.
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM blobs WHERE name = $1`, key).Scan(&value)
	if err != nil {
		return nil, fmt.Errorf("select blob `%s`: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStorage) Put(ctx context.Context, key string, val []byte) error {
	const q = `
INSERT INTO blobs (name, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.pool.Exec(ctx, q, key, val); err != nil {
		return fmt.Errorf("upsert blob `%s`: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx) //nolint:wrapcheck
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
