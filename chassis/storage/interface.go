package storage

import (
	"context"
	"time"
)

// Config - ...
type Config struct {
	DSN string
}

// Event - what happened to a message or queue
type Event string

const (
	SENT     Event = "SENT"
	RECEIVED Event = "RECEIVED"
	DELETED  Event = "DELETED"
	KEPT     Event = "KEPT"
	PURGED   Event = "PURGED"
	CREATED  Event = "CREATED"
	REMOVED  Event = "REMOVED"
)

// Entry - one journal line
type Entry struct {
	ID        int
	Queue     string
	MessageID string
	Event     Event
	Payload   map[string]string
	CreatedDt time.Time
}

// Journal - audit trail of what the tools did to a queue
type Journal interface {
	Record(ctx context.Context, entry *Entry) error
	// Deliveries counts RECEIVED entries for a message
	Deliveries(ctx context.Context, queue, messageID string) (int, error)
	Close()
}

// Open returns a PostgreSQL journal when a DSN is configured, a no-op one otherwise.
func Open(ctx context.Context, cfg Config) (Journal, error) {
	if cfg.DSN == "" {
		return NoopJournal{}, nil
	}
	journal, err := InitPGJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return journal, nil
}
