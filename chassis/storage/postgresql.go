package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
create table if not exists t_journal (
	id serial primary key,
	queue text not null,
	message_id text not null default '',
	event text not null,
	payload jsonb not null default '{}',
	created_dt timestamp not null default localtimestamp
);
create index if not exists journal_message_index on t_journal(queue, message_id);
`

// PGJournal - ...
type PGJournal struct {
	pool *pgxpool.Pool
}

// InitPGJournal - ...
func InitPGJournal(ctx context.Context, cfg Config) (*PGJournal, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PGJournal{
		pool: pool,
	}, nil
}

// Record - ...
func (j *PGJournal) Record(ctx context.Context, entry *Entry) error {
	payload := entry.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	var tag pgconn.CommandTag
	query := `insert into t_journal(queue, message_id, event, payload) values ($1, $2, $3, $4)`
	tag, err := j.pool.Exec(ctx, query, entry.Queue, entry.MessageID, string(entry.Event), payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("zero rows affected")
	}
	return nil
}

// Deliveries - ...
func (j *PGJournal) Deliveries(ctx context.Context, queue, messageID string) (int, error) {
	var count int
	query := `select count(*) from t_journal where queue = $1 and message_id = $2 and event = $3`
	err := j.pool.QueryRow(ctx, query, queue, messageID, string(RECEIVED)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close ...
func (j *PGJournal) Close() {
	j.pool.Close()
}
