package models

import "time"

// ShortcodeMinLength минимальная длина пользовательского короткого кода.
// ShortcodeMaxLength максимальная длина пользовательского короткого кода.
// GeneratedShortcodeLength длина сгенерированного кода.
const (
	ShortcodeMinLength       = 3
	ShortcodeMaxLength       = 15
	GeneratedShortcodeLength = 7
)

// ShortLink запись о сокращенной ссылке.
type ShortLink struct {
	ID        string    `json:"id"`
	Shortcode string    `json:"shortcode"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ExpireAt  time.Time `json:"expireAt"`
	Clicks    []Click   `json:"clicks"`
}

// Click переход по короткой ссылке.
type Click struct {
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale"`
	Timezone  string    `json:"timezone"`
}

// IsLive возвращает true, если на момент now ссылка еще не истекла.
// Ровно в момент ExpireAt ссылка считается истекшей.
func (s *ShortLink) IsLive(now time.Time) bool {
	return now.Before(s.ExpireAt)
}

// Clone глубокая копия записи, срез кликов не разделяется с оригиналом.
func (s *ShortLink) Clone() ShortLink {
	c := *s
	if s.Clicks != nil {
		c.Clicks = make([]Click, len(s.Clicks))
		copy(c.Clicks, s.Clicks)
	}
	return c
}

// Document хранимый документ со всеми ссылками. Порядок: новые в начале.
type Document struct {
	Items []ShortLink `json:"items"`
}

// Find ищет запись по короткому коду, возвращает индекс или -1.
func (d *Document) Find(shortcode string) int {
	for i := range d.Items {
		if d.Items[i].Shortcode == shortcode {
			return i
		}
	}
	return -1
}

// Clone глубокая копия документа.
func (d *Document) Clone() Document {
	items := make([]ShortLink, len(d.Items))
	for i := range d.Items {
		items[i] = d.Items[i].Clone()
	}
	return Document{Items: items}
}
