package services

import (
	"errors"
	"fmt"
)

// Ошибки валидации.
var (
	ErrInvalidURL         = errors.New("[service]: invalid url")
	ErrInvalidValidity    = errors.New("[service]: validity must be a positive integer number of minutes")
	ErrInvalidShortcode   = errors.New("[service]: shortcode must be 3-15 latin letters or digits")
	ErrShortcodeCollision = errors.New("[service]: shortcode already exists")
	ErrEmptyBatch         = errors.New("[service]: batch is empty")
	ErrBatchTooLarge      = errors.New("[service]: batch is too large")
)

// Ошибки поиска и хранения.
var (
	ErrNotFound           = errors.New("[service]: record not found")
	ErrExpired            = errors.New("[service]: record has expired")
	ErrStorageUnavailable = errors.New("[service]: storage unavailable")
	ErrGenerateExhausted  = errors.New("[service]: failed to generate unique shortcode")
)

// errNeverLoaded запись пропущена, потому что документ еще не читался из хранилища.
var errNeverLoaded = errors.New("document was never loaded, save skipped")

// RowError ошибка конкретной строки пакета. Row считается с единицы.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err.Error())
}

func (e *RowError) Unwrap() error {
	return e.Err
}
