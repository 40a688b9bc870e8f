package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Blob строка таблицы blobs.
type Blob struct {
	Name      string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteStorage хранилище блобов поверх SQLite (gorm).
type SQLiteStorage struct {
	db *gorm.DB
}

func NewSQLite(dbPath string) (*SQLiteStorage, error) {
	conn, connErr := connectSQLite(dbPath)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if migrateErr := migrateSQLite(conn); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	return &SQLiteStorage{db: conn}, nil
}

func connectSQLite(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}
	return db, nil
}

func migrateSQLite(db *gorm.DB) error {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	return nil
}

// Get возвращает блоб. Если ключа нет - gorm.ErrRecordNotFound.
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var blob Blob
	if err := s.db.WithContext(ctx).Where("name = ?", key).First(&blob).Error; err != nil {
		return nil, fmt.Errorf("select blob `%s`: %w", key, err)
	}
	return blob.Value, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, key string, val []byte) error {
	blob := Blob{Name: key, Value: val, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("upsert blob `%s`: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx) //nolint:wrapcheck
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close() //nolint:wrapcheck
}
