package models

import "time"

// EventLogLimit максимальное количество записей в журнале событий.
const EventLogLimit = 1000

// Event запись диагностического журнала.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// EventLog хранимый журнал событий. Порядок: новые в начале.
type EventLog struct {
	Items []Event `json:"items"`
}
