package receiver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/freundallein/sqslab/backend/chassis/metrics"
	"github.com/freundallein/sqslab/backend/chassis/protocol"
	"github.com/freundallein/sqslab/backend/chassis/queue"
	"github.com/freundallein/sqslab/backend/chassis/storage"
)

// Config ...
type Config struct {
	Command string
	Queue   queue.Client
	Journal storage.Journal
	// Optional
	Metrics *metrics.Metrics
	Printer *protocol.Printer
	Log     *logrus.Entry

	QueueName string
	Region    string
	Mode      string
	WaitSecs  int
	NoDelete  bool
	// Print system and user attributes of each message
	WithAttributes bool
}

// Run polls the queue one message at a time until ctx is cancelled.
// A failed receive ends the loop with an error; a failed delete does not.
func Run(ctx context.Context, cfg *Config) error {
	url, err := cfg.Queue.GetQueueURL(ctx, cfg.QueueName)
	if err != nil {
		return err
	}
	err = cfg.Printer.Print(&protocol.Subscription{
		Command:  cfg.Command,
		Region:   cfg.Region,
		Queue:    cfg.QueueName,
		Mode:     cfg.Mode,
		WaitSecs: cfg.WaitSecs,
		Delete:   !cfg.NoDelete,
	})
	if err != nil {
		return err
	}
	req := &queue.ReceiveRequest{
		QueueURL:      url,
		MaxMessages:   1,
		WaitSeconds:   int64(cfg.WaitSecs),
		AllAttributes: cfg.WithAttributes,
	}
	for {
		select {
		case <-ctx.Done():
			cfg.Log.WithFields(logrus.Fields{
				"event": "ctx_canceled",
			}).Info("stop receiving")
			return nil
		default:
		}
		msgs, err := cfg.Queue.ReceiveMessages(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			cfg.Log.WithFields(logrus.Fields{
				"event": "receive_failed",
				"queue": cfg.QueueName,
			}).Error(err)
			return err
		}
		if len(msgs) == 0 {
			cfg.count(func(m *metrics.Metrics) { m.EmptyPolls.WithLabelValues(cfg.QueueName).Inc() })
			continue
		}
		for _, msg := range msgs {
			if err := handle(ctx, cfg, url, msg); err != nil {
				return err
			}
		}
	}
}

func handle(ctx context.Context, cfg *Config, url string, msg *queue.RecvMessage) error {
	cfg.count(func(m *metrics.Metrics) { m.Received.WithLabelValues(cfg.QueueName).Inc() })
	if err := cfg.Printer.Print(delivery(cfg, msg)); err != nil {
		return err
	}
	cfg.journal(ctx, msg.ID, storage.RECEIVED)
	if deliveries, err := cfg.Journal.Deliveries(ctx, cfg.QueueName, msg.ID); err == nil && deliveries > 0 {
		cfg.Log.WithFields(logrus.Fields{
			"event":      "message_received",
			"messageID":  msg.ID,
			"deliveries": deliveries,
		}).Debug("journal delivery count")
	}

	if cfg.NoDelete {
		cfg.Log.WithFields(logrus.Fields{
			"event":     "message_kept",
			"messageID": msg.ID,
		}).Warnf("--no-delete set; not deleting message_id=%s", msg.ID)
		cfg.count(func(m *metrics.Metrics) { m.Kept.WithLabelValues(cfg.QueueName).Inc() })
		cfg.journal(ctx, msg.ID, storage.KEPT)
		return nil
	}
	if msg.Handler == "" {
		cfg.Log.WithFields(logrus.Fields{
			"event":     "missing_receipt_handle",
			"messageID": msg.ID,
		}).Warn("missing receipt handle; cannot delete")
		return nil
	}
	if err := cfg.Queue.DeleteMessage(ctx, url, msg.Handler); err != nil {
		cfg.Log.WithFields(logrus.Fields{
			"event":     "delete_failed",
			"messageID": msg.ID,
		}).Warn(err)
		cfg.count(func(m *metrics.Metrics) { m.DeleteFailures.WithLabelValues(cfg.QueueName).Inc() })
		return nil
	}
	cfg.count(func(m *metrics.Metrics) { m.Deleted.WithLabelValues(cfg.QueueName).Inc() })
	cfg.journal(ctx, msg.ID, storage.DELETED)
	return cfg.Printer.Print(&protocol.MessageAction{
		Command:   cfg.Command,
		Action:    "deleted",
		MessageID: msg.ID,
	})
}

func delivery(cfg *Config, msg *queue.RecvMessage) *protocol.Delivery {
	d := &protocol.Delivery{
		Command:   cfg.Command,
		MessageID: msg.ID,
		Body:      msg.Body,
		Detailed:  cfg.WithAttributes,
	}
	if !cfg.WithAttributes {
		return d
	}
	d.System = msg.Attributes
	if len(msg.MessageAttributes) > 0 {
		d.Attributes = make(map[string]protocol.Attribute, len(msg.MessageAttributes))
		for key, attr := range msg.MessageAttributes {
			d.Attributes[key] = protocol.Attribute{DataType: attr.DataType, StringValue: attr.StringValue}
		}
	}
	return d
}

func (cfg *Config) count(inc func(m *metrics.Metrics)) {
	if cfg.Metrics != nil {
		inc(cfg.Metrics)
	}
}

func (cfg *Config) journal(ctx context.Context, messageID string, event storage.Event) {
	err := cfg.Journal.Record(ctx, &storage.Entry{
		Queue:     cfg.QueueName,
		MessageID: messageID,
		Event:     event,
	})
	if err != nil {
		cfg.Log.WithFields(logrus.Fields{
			"event":     "journal_failed",
			"messageID": messageID,
		}).Warn(err)
	}
}
