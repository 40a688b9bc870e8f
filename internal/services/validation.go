package services

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var shortcodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{3,15}$`)

// ReservedShortcodes коды, совпадающие со статическими маршрутами HTTP сервера.
var ReservedShortcodes = []string{"api", "ping"}

// maxValidityMinutes ограничение сверху, чтобы срок жизни помещался в time.Duration.
const maxValidityMinutes = math.MaxInt64 / int64(time.Minute)

// validateURL проверяет, что строка является абсолютным http/https URL с хостом.
func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.Wrap(ErrInvalidURL, "url is empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidURL, "parse %q", rawURL)
	}
	if !parsedURL.IsAbs() || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return "", errors.Wrapf(ErrInvalidURL, "%q must have http or https scheme", rawURL)
	}
	if parsedURL.Host == "" || parsedURL.Hostname() == "" {
		return "", errors.Wrapf(ErrInvalidURL, "%q must have a host", rawURL)
	}
	return rawURL, nil
}

// parseValidity разбирает срок жизни в минутах. Пустая строка означает значение по умолчанию.
func parseValidity(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	minutes, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || minutes <= 0 || minutes > maxValidityMinutes {
		return 0, errors.Wrapf(ErrInvalidValidity, "got %q", raw)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// ValidateShortcode проверяет формат пользовательского кода.
func ValidateShortcode(code string) error {
	if !shortcodeRegex.MatchString(code) {
		return errors.Wrapf(ErrInvalidShortcode, "got %q", code)
	}
	return nil
}
