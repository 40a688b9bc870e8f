package blobstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlinks/internal/db"
	"github.com/fsdevblog/shortlinks/internal/db/filestore"
	"github.com/fsdevblog/shortlinks/internal/db/memory"
	"github.com/fsdevblog/shortlinks/internal/repositories"
)

// convertErrorType конвертирует специфичные ошибки хранилищ в общие ошибки уровня репозитория.
//
// Параметры:
//   - err: исходная ошибка
//
// Возвращает:
//   - error: преобразованная ошибка или nil, если входная ошибка nil
func convertErrorType(err error) error {
	if err == nil {
		return nil
	}

	var nativeErr error
	switch {
	case errors.Is(err, memory.ErrNotFound),
		errors.Is(err, filestore.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, pgx.ErrNoRows):
		nativeErr = repositories.ErrNotFound
	case errors.Is(err, db.ErrDecode),
		errors.Is(err, filestore.ErrCorrupted):
		nativeErr = repositories.ErrDecode
	default:
		nativeErr = repositories.ErrUnknown
	}

	return fmt.Errorf("%w: %s", nativeErr, err.Error())
}
