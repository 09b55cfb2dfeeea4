package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithoutDSN(t *testing.T) {
	j, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, NoopJournal{}, j)

	assert.NoError(t, j.Record(context.Background(), &Entry{Queue: "orders", Event: SENT}))
	n, err := j.Deliveries(context.Background(), "orders", "m-1")
	assert.NoError(t, err)
	assert.Zero(t, n)
	j.Close()
}

func TestOpenWithBadDSN(t *testing.T) {
	j, err := Open(context.Background(), Config{DSN: "postgres://scheduler@localhost:notaport/sqslab"})
	assert.Error(t, err)
	assert.Nil(t, j)
}

func TestMemoryJournalDeliveries(t *testing.T) {
	ctx := context.Background()
	j := &MemoryJournal{}
	require.NoError(t, j.Record(ctx, &Entry{Queue: "orders", MessageID: "m-1", Event: RECEIVED}))
	require.NoError(t, j.Record(ctx, &Entry{Queue: "orders", MessageID: "m-1", Event: KEPT}))
	require.NoError(t, j.Record(ctx, &Entry{Queue: "orders", MessageID: "m-1", Event: RECEIVED}))
	require.NoError(t, j.Record(ctx, &Entry{Queue: "other", MessageID: "m-1", Event: RECEIVED}))

	n, err := j.Deliveries(ctx, "orders", "m-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []Event{RECEIVED, KEPT, RECEIVED, RECEIVED}, j.Events())

	entries := j.Entries()
	assert.Equal(t, 4, entries[3].ID)
	assert.False(t, entries[0].CreatedDt.IsZero())
}
