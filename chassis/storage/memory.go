package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryJournal keeps entries in process memory.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
	// Err, when set, is returned by every call
	Err error
}

// Record ...
func (j *MemoryJournal) Record(_ context.Context, entry *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	stored := *entry
	stored.ID = len(j.entries) + 1
	if stored.CreatedDt.IsZero() {
		stored.CreatedDt = time.Now().UTC()
	}
	j.entries = append(j.entries, stored)
	return nil
}

// Deliveries ...
func (j *MemoryJournal) Deliveries(_ context.Context, queue, messageID string) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return 0, j.Err
	}
	count := 0
	for _, entry := range j.entries {
		if entry.Queue == queue && entry.MessageID == messageID && entry.Event == RECEIVED {
			count++
		}
	}
	return count, nil
}

// Events lists recorded events in order.
func (j *MemoryJournal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	events := make([]Event, 0, len(j.entries))
	for _, entry := range j.entries {
		events = append(events, entry.Event)
	}
	return events
}

// Entries returns a copy of the recorded entries.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Close ...
func (j *MemoryJournal) Close() {}
