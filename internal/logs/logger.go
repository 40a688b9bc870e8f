package logs

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// FormatType определяет формат вывода логов.
type FormatType string

// FormatTypeText Форматирование для консоли.
// FormatTypeJSON Форматирование в JSON.
const (
	FormatTypeText FormatType = "text"
	FormatTypeJSON FormatType = "json"
)

// LoggerOptions настройки логгера.
type LoggerOptions struct {
	Level  logrus.Level // Уровень логирования
	Format FormatType   // Формат вывода
}

// IsRelease true, если приложение запущено в продакшн режиме (GIN_MODE=release).
func IsRelease() bool {
	return os.Getenv("GIN_MODE") == "release"
}

// New создает новый логгер. В продакшн режиме по умолчанию JSON и уровень Info,
// в остальных окружениях текст и уровень Debug.
//
// Параметры:
//   - w: куда писать логи
//   - opts: функции для настройки логгера
//
// Возвращает:
//   - *logrus.Logger: настроенный логгер
func New(w io.Writer, opts ...func(*LoggerOptions)) *logrus.Logger {
	options := LoggerOptions{
		Level:  logrus.DebugLevel,
		Format: FormatTypeText,
	}
	if IsRelease() {
		options.Level = logrus.InfoLevel
		options.Format = FormatTypeJSON
	}
	for _, opt := range opts {
		opt(&options)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(options.Level)
	if options.Format == FormatTypeJSON {
		logger.SetFormatter(new(logrus.JSONFormatter))
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// WithLevel задает уровень логирования строкой ("debug", "info", ...).
// Нераспознанное значение игнорируется.
func WithLevel(level string) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.Level = lvl
		}
	}
}
