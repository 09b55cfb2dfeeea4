package maintainer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/freundallein/sqslab/backend/chassis/protocol"
	"github.com/freundallein/sqslab/backend/chassis/queue"
	"github.com/freundallein/sqslab/backend/chassis/storage"
)

// Config ...
type Config struct {
	Command string
	Queue   queue.Client
	Journal storage.Journal
	Printer *protocol.Printer
	Log     *logrus.Entry
}

// Purge drops every message of an existing queue.
func Purge(ctx context.Context, cfg *Config, name string) error {
	url, err := cfg.Queue.GetQueueURL(ctx, name)
	if err != nil {
		return err
	}
	if err := cfg.Queue.PurgeQueue(ctx, url); err != nil {
		return err
	}
	cfg.Log.WithFields(logrus.Fields{
		"event": "queue_purged",
		"queue": name,
	}).Infof("purged queue: %s", url)
	cfg.journal(ctx, name, storage.PURGED, url)
	return cfg.Printer.Print(&protocol.QueueAction{Command: cfg.Command, Action: "purged", QueueURL: url})
}

// Bootstrap makes sure the queue exists, creating it with the configured
// attributes when the lookup reports it missing, then prints its attributes.
func Bootstrap(ctx context.Context, cfg *Config, name string, opts queue.CreateOptions) (string, error) {
	url, err := cfg.Queue.GetQueueURL(ctx, name)
	switch {
	case err == nil:
		cfg.Log.WithFields(logrus.Fields{
			"event": "queue_exists",
			"queue": name,
		}).Infof("queue already exists: %s", url)
	case errors.Is(err, queue.ErrQueueNotFound):
		cfg.Log.WithFields(logrus.Fields{
			"event": "queue_not_found",
			"queue": name,
		}).Warnf("queue not found, creating: %s", name)
		attributes, err := queue.CreateAttributes(name, opts)
		if err != nil {
			return "", err
		}
		url, err = cfg.Queue.CreateQueue(ctx, name, attributes)
		if err != nil {
			return "", err
		}
		cfg.Log.WithFields(logrus.Fields{
			"event": "queue_created",
			"queue": name,
		}).Infof("created queue: %s", url)
		cfg.journal(ctx, name, storage.CREATED, url)
	default:
		return "", err
	}

	attributes, err := cfg.Queue.GetQueueAttributes(ctx, url)
	if err != nil {
		cfg.Log.WithFields(logrus.Fields{
			"event": "get_attributes_failed",
			"queue": name,
		}).Warn(err)
		return url, nil
	}
	return url, cfg.Printer.Print(&protocol.QueueAttributes{Command: cfg.Command, QueueURL: url, Attributes: attributes})
}

// Teardown deletes an existing queue.
func Teardown(ctx context.Context, cfg *Config, name string) error {
	url, err := cfg.Queue.GetQueueURL(ctx, name)
	if err != nil {
		return err
	}
	if err := cfg.Queue.DeleteQueue(ctx, url); err != nil {
		return err
	}
	cfg.Log.WithFields(logrus.Fields{
		"event": "queue_deleted",
		"queue": name,
	}).Infof("deleted queue: %s", url)
	cfg.journal(ctx, name, storage.REMOVED, url)
	return cfg.Printer.Print(&protocol.QueueAction{Command: cfg.Command, Action: "deleted", QueueURL: url})
}

func (cfg *Config) journal(ctx context.Context, name string, event storage.Event, url string) {
	err := cfg.Journal.Record(ctx, &storage.Entry{
		Queue:   name,
		Event:   event,
		Payload: map[string]string{"url": url},
	})
	if err != nil {
		cfg.Log.WithFields(logrus.Fields{
			"event": "journal_failed",
			"queue": name,
		}).Warn(err)
	}
}
