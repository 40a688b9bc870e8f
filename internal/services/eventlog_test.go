package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/shortlinks/internal/models"
)

func TestEventLog_AppendOrderAndCap(t *testing.T) {
	store := new(memEventStore)
	clock := NewMockClock(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	log := NewEventLog(store, func(o *EventLogOptions) {
		o.Clock = clock
		o.Logger = silentLogger()
		o.Limit = 3
	})

	for i := range 5 {
		log.Append(t.Context(), fmt.Sprintf("event-%d", i), map[string]any{"i": i})
		clock.Advance(time.Second)
	}

	events := log.List(t.Context())
	require.Len(t, events, 3)
	assert.Equal(t, "event-4", events[0].Event)
	assert.Equal(t, "event-3", events[1].Event)
	assert.Equal(t, "event-2", events[2].Event)
	assert.True(t, events[0].Timestamp.After(events[1].Timestamp))
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.Len(t, store.log.Items, 3)
}

func TestEventLog_StorageFailureIsSwallowed(t *testing.T) {
	store := &memEventStore{err: errDiskFailure}
	log := NewEventLog(store, func(o *EventLogOptions) {
		o.Logger = silentLogger()
	})

	log.Append(t.Context(), EventRedirect, nil)
	log.Append(t.Context(), EventRedirectFallback, nil)

	events := log.List(t.Context())
	require.Len(t, events, 2, "in-memory copy is kept while storage is down")
	assert.Equal(t, EventRedirectFallback, events[0].Event)
}

func TestEventLog_NoSaveBeforeFirstLoad(t *testing.T) {
	store := &memEventStore{loadErr: errDiskFailure}
	store.log.Items = []models.Event{{ID: "old", Event: EventLinkCreated}}
	log := NewEventLog(store, func(o *EventLogOptions) {
		o.Logger = silentLogger()
	})

	log.Append(t.Context(), EventRedirect, nil)
	require.Len(t, store.log.Items, 1, "stored log is not overwritten by the in-memory copy")

	store.mu.Lock()
	store.loadErr = nil
	store.mu.Unlock()

	log.Append(t.Context(), EventRedirectFallback, nil)
	events := log.List(t.Context())
	require.Len(t, events, 2)
	assert.Equal(t, EventRedirectFallback, events[0].Event)
	assert.Equal(t, "old", events[1].ID)
}
