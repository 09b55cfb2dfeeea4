// Package queuetest provides an in-memory queue.Client for handler tests.
package queuetest

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/freundallein/sqslab/backend/chassis/queue"
)

// Operation names used as keys of Fake.Errs
const (
	OpGetQueueURL        = "GetQueueURL"
	OpCreateQueue        = "CreateQueue"
	OpDeleteQueue        = "DeleteQueue"
	OpSendMessage        = "SendMessage"
	OpReceiveMessages    = "ReceiveMessages"
	OpDeleteMessage      = "DeleteMessage"
	OpPurgeQueue         = "PurgeQueue"
	OpGetQueueAttributes = "GetQueueAttributes"
)

// Fake - queue.Client backed by maps, records every call
type Fake struct {
	mu sync.Mutex

	URLs       map[string]string
	Attributes map[string]map[string]string
	Errs       map[string]error

	// Messages are handed out one per receive call
	Inbox []*queue.RecvMessage
	// OnEmpty runs when a receive finds the inbox empty
	OnEmpty func()

	Calls    []string
	Created  map[string]map[string]string
	Sent     []*queue.SendRequest
	Receives []*queue.ReceiveRequest
	Deleted  []string
	Purged   []string
	Removed  []string
}

// New returns a fake knowing the given name -> URL pairs.
func New(urls map[string]string) *Fake {
	if urls == nil {
		urls = map[string]string{}
	}
	return &Fake{
		URLs:       urls,
		Attributes: map[string]map[string]string{},
		Errs:       map[string]error{},
		Created:    map[string]map[string]string{},
	}
}

// Called reports whether op was invoked at least once.
func (f *Fake) Called(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.Calls {
		if call == op {
			return true
		}
	}
	return false
}

func (f *Fake) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, op)
	return f.Errs[op]
}

// GetQueueURL ...
func (f *Fake) GetQueueURL(_ context.Context, name string) (string, error) {
	if err := f.enter(OpGetQueueURL); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url, ok := f.URLs[name]
	if !ok {
		return "", errors.Wrapf(queue.ErrQueueNotFound, "get_queue_url %s", name)
	}
	return url, nil
}

// CreateQueue ...
func (f *Fake) CreateQueue(_ context.Context, name string, attributes map[string]string) (string, error) {
	if err := f.enter(OpCreateQueue); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "http://localhost:4566/000000000000/" + name
	f.URLs[name] = url
	f.Created[name] = attributes
	stored := map[string]string{"QueueArn": "arn:aws:sqs:us-east-1:000000000000:" + name}
	for key, value := range attributes {
		stored[key] = value
	}
	f.Attributes[url] = stored
	return url, nil
}

// DeleteQueue ...
func (f *Fake) DeleteQueue(_ context.Context, queueURL string) error {
	if err := f.enter(OpDeleteQueue); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Removed = append(f.Removed, queueURL)
	for name, url := range f.URLs {
		if url == queueURL {
			delete(f.URLs, name)
		}
	}
	return nil
}

// SendMessage ...
func (f *Fake) SendMessage(_ context.Context, req *queue.SendRequest) (*queue.SendResult, error) {
	if err := f.enter(OpSendMessage); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, req)
	result := &queue.SendResult{
		MessageID: "m-" + strconv.Itoa(len(f.Sent)),
		MD5:       "5d41402abc4b2a76b9719d911017c592",
	}
	if req.GroupID != "" {
		result.SequenceNumber = strconv.Itoa(1000 + len(f.Sent))
	}
	return result, nil
}

// ReceiveMessages ...
func (f *Fake) ReceiveMessages(_ context.Context, req *queue.ReceiveRequest) ([]*queue.RecvMessage, error) {
	if err := f.enter(OpReceiveMessages); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Receives = append(f.Receives, req)
	if len(f.Inbox) == 0 {
		onEmpty := f.OnEmpty
		f.mu.Unlock()
		if onEmpty != nil {
			onEmpty()
		}
		return nil, nil
	}
	msg := f.Inbox[0]
	f.Inbox = f.Inbox[1:]
	f.mu.Unlock()
	return []*queue.RecvMessage{msg}, nil
}

// DeleteMessage ...
func (f *Fake) DeleteMessage(_ context.Context, _ string, handler string) error {
	if err := f.enter(OpDeleteMessage); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, handler)
	return nil
}

// PurgeQueue ...
func (f *Fake) PurgeQueue(_ context.Context, queueURL string) error {
	if err := f.enter(OpPurgeQueue); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Purged = append(f.Purged, queueURL)
	return nil
}

// GetQueueAttributes ...
func (f *Fake) GetQueueAttributes(_ context.Context, queueURL string) (map[string]string, error) {
	if err := f.enter(OpGetQueueAttributes); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Attributes[queueURL], nil
}

var _ queue.Client = (*Fake)(nil)
