package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/shortlinks/internal/services"
)

// Ошибки.
var (
	ErrRecordNotFound = errors.New("record not found")        // Запись не найдена
	ErrInternal       = errors.New("internal error")          // Прочая ошибка
	ErrBadRequest     = errors.New("malformed request body")  // Тело запроса не разобрано
	ErrEmptyURL       = errors.New("request body has no url") // Пустой запрос
)

// errorResponse тело ответа с ошибкой. Row указывает на строку пакета (с единицы).
type errorResponse struct {
	Error string `json:"error"`
	Row   int    `json:"row,omitempty"`
}

// statusFor сопоставляет ошибку сервисного слоя и HTTP статус.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrShortcodeCollision):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidURL),
		errors.Is(err, services.ErrInvalidValidity),
		errors.Is(err, services.ErrInvalidShortcode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrEmptyBatch),
		errors.Is(err, services.ErrBatchTooLarge),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrEmptyURL):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrGenerateExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicErrors ошибки, текст которых можно показать пользователю.
var publicErrors = []error{
	services.ErrInvalidURL,
	services.ErrInvalidValidity,
	services.ErrInvalidShortcode,
	services.ErrShortcodeCollision,
	services.ErrEmptyBatch,
	services.ErrBatchTooLarge,
	services.ErrNotFound,
	ErrBadRequest,
	ErrEmptyURL,
}

// publicMessage текст ошибки таксономии без служебного префикса и цепочки обёрток.
func publicMessage(err error) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return strings.TrimPrefix(target.Error(), "[service]: ")
		}
	}
	return ErrInternal.Error()
}

// newErrorResponse собирает тело ответа. Внутренние ошибки наружу не отдаются.
func newErrorResponse(err error) (int, errorResponse) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		return status, errorResponse{Error: ErrInternal.Error()}
	}

	resp := errorResponse{Error: publicMessage(err)}
	var rowErr *services.RowError
	if errors.As(err, &rowErr) {
		resp.Row = rowErr.Row
	}
	return status, resp
}
