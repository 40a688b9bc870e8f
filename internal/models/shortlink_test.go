package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortLink_IsLive(t *testing.T) {
	expireAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before expiry", now: expireAt.Add(-time.Second), want: true},
		{name: "exactly at expiry", now: expireAt, want: false},
		{name: "after expiry", now: expireAt.Add(time.Minute), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := ShortLink{ExpireAt: expireAt}
			assert.Equal(t, tt.want, link.IsLive(tt.now))
		})
	}
}

func TestDocument_CloneIsIndependent(t *testing.T) {
	doc := Document{Items: []ShortLink{
		{Shortcode: "abc", Clicks: []Click{{Locale: "en-US"}}},
	}}

	clone := doc.Clone()
	clone.Items[0].Clicks = append(clone.Items[0].Clicks, Click{Locale: "de-DE"})
	clone.Items[0].Clicks[0].Locale = "fr-FR"

	assert.Len(t, doc.Items[0].Clicks, 1)
	assert.Equal(t, "en-US", doc.Items[0].Clicks[0].Locale)
	assert.Equal(t, 0, doc.Find("abc"))
	assert.Equal(t, -1, doc.Find("zzz"))
}
