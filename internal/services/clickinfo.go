package services

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ClickInfo грубые сведения о посетителе, сохраняемые вместе с кликом.
type ClickInfo struct {
	Locale   string
	Timezone string
}

// CoarseLocale сводит значение Accept-Language (или LANG) к языку и региону первого тега,
// например "ru-RU" или "en". Нераспознанное значение дает "und".
func CoarseLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	// LANG вида ru_RU.UTF-8
	if i := strings.IndexByte(raw, '.'); i > 0 && !strings.Contains(raw, ",") {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")

	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 || tags[0].IsRoot() {
		return language.Und.String()
	}
	base, baseConf := tags[0].Base()
	if baseConf == language.No {
		return language.Und.String()
	}
	region, regionConf := tags[0].Region()
	if regionConf != language.Exact {
		return base.String()
	}
	tag, err := language.Compose(base, region)
	if err != nil {
		return base.String()
	}
	return tag.String()
}

// ZoneName возвращает имя IANA зоны, если raw корректно, иначе имя зоны fallback.
func ZoneName(raw string, fallback *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if loc, err := time.LoadLocation(raw); err == nil {
			return loc.String()
		}
	}
	if fallback == nil {
		fallback = time.Local
	}
	return fallback.String()
}
