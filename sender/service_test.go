package sender

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freundallein/sqslab/backend/chassis/protocol"
	"github.com/freundallein/sqslab/backend/chassis/queue"
	"github.com/freundallein/sqslab/backend/chassis/queue/queuetest"
	"github.com/freundallein/sqslab/backend/chassis/storage"
)

type fixture struct {
	cfg     *Config
	fake    *queuetest.Fake
	journal *storage.MemoryJournal
	out     *bytes.Buffer
	hook    *test.Hook
}

func newFixture(command string) *fixture {
	fake := queuetest.New(map[string]string{
		"orders":      "http://localhost:4566/000000000000/orders",
		"orders.fifo": "http://localhost:4566/000000000000/orders.fifo",
	})
	logger, hook := test.NewNullLogger()
	journal := &storage.MemoryJournal{}
	out := &bytes.Buffer{}
	return &fixture{
		cfg: &Config{
			Command: command,
			Queue:   fake,
			Journal: journal,
			Printer: protocol.NewPrinter(out, protocol.Text),
			Log:     logger.WithField("module", command),
		},
		fake:    fake,
		journal: journal,
		out:     out,
		hook:    hook,
	}
}

func TestBody(t *testing.T) {
	explicit := "from flag"
	empty := ""
	assert.Equal(t, "from flag", Body(&explicit, []string{"positional"}, DefaultBody))
	assert.Equal(t, "", Body(&empty, []string{"positional"}, DefaultBody))
	assert.Equal(t, "positional", Body(nil, []string{"positional", "extra"}, DefaultBody))
	assert.Equal(t, "hello world", Body(nil, nil, DefaultBody))
	assert.Equal(t, "hello", Body(nil, nil, DefaultFifoBody))
}

func TestParseAttr(t *testing.T) {
	key, value, err := ParseAttr("color=red")
	require.NoError(t, err)
	assert.Equal(t, "color", key)
	assert.Equal(t, "red", value)

	key, value, err = ParseAttr("expr=a=b")
	require.NoError(t, err)
	assert.Equal(t, "expr", key)
	assert.Equal(t, "a=b", value)

	key, value, err = ParseAttr("empty=")
	require.NoError(t, err)
	assert.Equal(t, "empty", key)
	assert.Equal(t, "", value)

	var parseErr *AttributeParseError
	_, _, err = ParseAttr("noequals")
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "missing '='", parseErr.Reason)

	_, _, err = ParseAttr("=value")
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "empty key", parseErr.Reason)
}

func TestParseAttrs(t *testing.T) {
	attrs, err := ParseAttrs([]string{"a=1", "b=2", "a=3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, attrs)

	_, err = ParseAttrs([]string{"a=1", "broken"})
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	f := newFixture("send")
	result, err := Send(context.Background(), f.cfg, &Message{QueueName: "orders", Body: "hello world"})
	require.NoError(t, err)

	assert.Equal(t, "m-1", result.MessageID)
	require.Len(t, f.fake.Sent, 1)
	assert.Equal(t, "http://localhost:4566/000000000000/orders", f.fake.Sent[0].QueueURL)
	assert.Equal(t, "hello world", f.fake.Sent[0].Body)
	assert.Equal(t, "[send] sent message_id=m-1 md5=5d41402abc4b2a76b9719d911017c592\n", f.out.String())
	assert.Equal(t, []storage.Event{storage.SENT}, f.journal.Events())
}

func TestSendQueueNotFound(t *testing.T) {
	f := newFixture("send")
	_, err := Send(context.Background(), f.cfg, &Message{QueueName: "missing", Body: "x"})
	assert.True(t, errors.Is(err, queue.ErrQueueNotFound))
	assert.False(t, f.fake.Called(queuetest.OpSendMessage))
	assert.Empty(t, f.out.String())
}

func TestSendJournalFailureIsWarning(t *testing.T) {
	f := newFixture("send")
	f.journal.Err = errors.New("connection refused")

	_, err := Send(context.Background(), f.cfg, &Message{QueueName: "orders", Body: "x"})
	require.NoError(t, err)
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
	assert.Equal(t, "journal_failed", f.hook.LastEntry().Data["event"])
}

func TestSendFifoRequiresSuffixBeforeNetwork(t *testing.T) {
	f := newFixture("send_fifo")
	_, err := SendFifo(context.Background(), f.cfg, &Message{QueueName: "orders", Body: "hello", GroupID: "g1"})
	assert.True(t, errors.Is(err, queue.ErrFifoMismatch))
	assert.Empty(t, f.fake.Calls)
}

func TestSendFifo(t *testing.T) {
	f := newFixture("send_fifo")
	_, err := SendFifo(context.Background(), f.cfg, &Message{QueueName: "orders.fifo", Body: "hello", GroupID: "g1", DedupID: "d1"})
	require.NoError(t, err)

	require.Len(t, f.fake.Sent, 1)
	assert.Equal(t, "g1", f.fake.Sent[0].GroupID)
	assert.Equal(t, "d1", f.fake.Sent[0].DeduplicationID)
	assert.Equal(t, "[send_fifo] sent message_id=m-1 sequence=1001\n", f.out.String())

	entries := f.journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "g1", entries[0].Payload["group"])
	assert.Equal(t, "1001", entries[0].Payload["sequence"])
}

func TestSendFifoRequiresGroup(t *testing.T) {
	f := newFixture("send_fifo")
	_, err := SendFifo(context.Background(), f.cfg, &Message{QueueName: "orders.fifo", Body: "hello"})
	assert.True(t, errors.Is(err, ErrFifoGroupRequired))
	assert.Empty(t, f.fake.Calls)
}

func TestSendAttrsStandardIgnoresFifoParams(t *testing.T) {
	f := newFixture("send_attrs")
	msg := &Message{
		QueueName:  "orders",
		Body:       "hello",
		Attributes: map[string]string{"color": "red"},
		GroupID:    "g1",
		DedupID:    "d1",
	}
	_, err := SendAttrs(context.Background(), f.cfg, msg, nil)
	require.NoError(t, err)

	require.Len(t, f.fake.Sent, 1)
	assert.Empty(t, f.fake.Sent[0].GroupID)
	assert.Empty(t, f.fake.Sent[0].DeduplicationID)
	assert.Equal(t, map[string]string{"color": "red"}, f.fake.Sent[0].Attributes)
	assert.Equal(t, "[send_attrs] sent message_id=m-1\n", f.out.String())

	warned := false
	for _, entry := range f.hook.AllEntries() {
		if entry.Data["event"] == "fifo_params_ignored" {
			warned = true
			assert.Equal(t, logrus.WarnLevel, entry.Level)
		}
	}
	assert.True(t, warned)
}

func TestSendAttrsFifoByConfigFlag(t *testing.T) {
	f := newFixture("send_attrs")
	f.fake.URLs["events"] = "http://localhost:4566/000000000000/events"
	flag := true

	_, err := SendAttrs(context.Background(), f.cfg, &Message{QueueName: "events", Body: "hello"}, &flag)
	assert.True(t, errors.Is(err, ErrFifoGroupRequired))
	assert.False(t, f.fake.Called(queuetest.OpSendMessage))

	_, err = SendAttrs(context.Background(), f.cfg, &Message{QueueName: "events", Body: "hello", GroupID: "g1"}, &flag)
	require.NoError(t, err)
	assert.Equal(t, "g1", f.fake.Sent[0].GroupID)
}

func TestSendAttrsFifoByName(t *testing.T) {
	f := newFixture("send_attrs")
	_, err := SendAttrs(context.Background(), f.cfg, &Message{QueueName: "orders.fifo", Body: "hello", GroupID: "g1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "g1", f.fake.Sent[0].GroupID)
	assert.Empty(t, f.fake.Sent[0].DeduplicationID)
}

func TestSendServiceFailure(t *testing.T) {
	f := newFixture("send")
	f.fake.Errs[queuetest.OpSendMessage] = &queue.ServiceError{Op: "send_message orders", Err: errors.New("throttled")}

	_, err := Send(context.Background(), f.cfg, &Message{QueueName: "orders", Body: "x"})
	var svcErr *queue.ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Empty(t, f.journal.Events())
}
