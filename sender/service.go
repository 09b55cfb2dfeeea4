package sender

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/freundallein/sqslab/backend/chassis/protocol"
	"github.com/freundallein/sqslab/backend/chassis/queue"
	"github.com/freundallein/sqslab/backend/chassis/storage"
)

// Default bodies when neither --msg nor a positional argument is given
const (
	DefaultBody     = "hello world"
	DefaultFifoBody = "hello"
)

// ErrFifoGroupRequired is returned when a FIFO send has no message group.
var ErrFifoGroupRequired = errors.New("this queue is FIFO; --group <MessageGroupId> is required")

// AttributeParseError - malformed --attr value
type AttributeParseError struct {
	Input  string
	Reason string
}

func (e *AttributeParseError) Error() string {
	return fmt.Sprintf("invalid --attr %q: %s (expected key=value)", e.Input, e.Reason)
}

// Config ...
type Config struct {
	Command string
	Queue   queue.Client
	Journal storage.Journal
	Printer *protocol.Printer
	Log     *logrus.Entry
}

// Message - what to send and where
type Message struct {
	QueueName  string
	Body       string
	Attributes map[string]string
	GroupID    string
	DedupID    string
}

// Body picks the explicit flag, then the first positional argument, then fallback.
func Body(msg *string, args []string, fallback string) string {
	if msg != nil {
		return *msg
	}
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

// ParseAttr splits "key=value" on the first '='.
func ParseAttr(kv string) (string, string, error) {
	idx := strings.Index(kv, "=")
	if idx < 0 {
		return "", "", &AttributeParseError{Input: kv, Reason: "missing '='"}
	}
	key := strings.TrimSpace(kv[:idx])
	if key == "" {
		return "", "", &AttributeParseError{Input: kv, Reason: "empty key"}
	}
	return key, kv[idx+1:], nil
}

// ParseAttrs parses repeated --attr values; later keys win.
func ParseAttrs(kvs []string) (map[string]string, error) {
	attributes := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		key, value, err := ParseAttr(kv)
		if err != nil {
			return nil, err
		}
		attributes[key] = value
	}
	return attributes, nil
}

// Send - plain send to a standard queue
func Send(ctx context.Context, cfg *Config, msg *Message) (*queue.SendResult, error) {
	url, err := cfg.Queue.GetQueueURL(ctx, msg.QueueName)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, cfg, msg, &queue.SendRequest{QueueURL: url, Body: msg.Body}, withMD5)
}

// SendFifo - send with a message group and optional deduplication id
func SendFifo(ctx context.Context, cfg *Config, msg *Message) (*queue.SendResult, error) {
	if err := queue.RequireFifoName(msg.QueueName); err != nil {
		return nil, err
	}
	if msg.GroupID == "" {
		return nil, ErrFifoGroupRequired
	}
	url, err := cfg.Queue.GetQueueURL(ctx, msg.QueueName)
	if err != nil {
		return nil, err
	}
	req := &queue.SendRequest{
		QueueURL:        url,
		Body:            msg.Body,
		GroupID:         msg.GroupID,
		DeduplicationID: msg.DedupID,
	}
	return deliver(ctx, cfg, msg, req, withSequence)
}

// SendAttrs - send with user attributes. FIFO is decided by the name or
// the configured flag; on a standard queue group and dedup are dropped.
func SendAttrs(ctx context.Context, cfg *Config, msg *Message, fifoFlag *bool) (*queue.SendResult, error) {
	fifo := queue.IsFifo(msg.QueueName, fifoFlag)
	if fifo && msg.GroupID == "" {
		return nil, ErrFifoGroupRequired
	}
	url, err := cfg.Queue.GetQueueURL(ctx, msg.QueueName)
	if err != nil {
		return nil, err
	}
	req := &queue.SendRequest{
		QueueURL:   url,
		Body:       msg.Body,
		Attributes: msg.Attributes,
	}
	if fifo {
		req.GroupID = msg.GroupID
		req.DeduplicationID = msg.DedupID
	} else if msg.GroupID != "" || msg.DedupID != "" {
		cfg.Log.WithFields(logrus.Fields{
			"event": "fifo_params_ignored",
			"queue": msg.QueueName,
		}).Warnf("--group/--dedup ignored because %s is a standard queue", msg.QueueName)
	}
	return deliver(ctx, cfg, msg, req, bare)
}

// what a receipt shows besides the message id
type receiptStyle int

const (
	bare receiptStyle = iota
	withMD5
	withSequence
)

func deliver(ctx context.Context, cfg *Config, msg *Message, req *queue.SendRequest, style receiptStyle) (*queue.SendResult, error) {
	result, err := cfg.Queue.SendMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	cfg.Log.WithFields(logrus.Fields{
		"event":     "message_sent",
		"queue":     msg.QueueName,
		"messageID": result.MessageID,
		"attrs":     len(req.Attributes),
	}).Info("message sent")

	payload := map[string]string{"body": req.Body}
	if req.GroupID != "" {
		payload["group"] = req.GroupID
	}
	if result.SequenceNumber != "" {
		payload["sequence"] = result.SequenceNumber
	}
	err = cfg.Journal.Record(ctx, &storage.Entry{
		Queue:     msg.QueueName,
		MessageID: result.MessageID,
		Event:     storage.SENT,
		Payload:   payload,
	})
	if err != nil {
		cfg.Log.WithFields(logrus.Fields{
			"event":     "journal_failed",
			"messageID": result.MessageID,
		}).Warn(err)
	}

	receipt := &protocol.SendReceipt{
		Command:   cfg.Command,
		MessageID: result.MessageID,
	}
	switch style {
	case withMD5:
		receipt.MD5 = result.MD5
		if receipt.MD5 == "" {
			receipt.MD5 = "unknown"
		}
	case withSequence:
		receipt.Fifo = true
		receipt.SequenceNumber = result.SequenceNumber
	}
	if err := cfg.Printer.Print(receipt); err != nil {
		return nil, err
	}
	return result, nil
}
