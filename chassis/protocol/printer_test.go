package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, expected := range map[string]Format{"": Text, "TEXT": Text, "json": JSON, "yml": YAML, "yaml": YAML} {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, expected, f)
	}
	_, err := ParseFormat("table")
	assert.EqualError(t, err, "unknown output format: table (supported: text, json, yaml)")
}

func TestSendReceiptText(t *testing.T) {
	assert.Equal(t, "[send] sent message_id=m-1 md5=abc", (&SendReceipt{Command: "send", MessageID: "m-1", MD5: "abc"}).String())
	assert.Equal(t, "[send_fifo] sent message_id=m-1 sequence=-", (&SendReceipt{Command: "send_fifo", MessageID: "m-1", Fifo: true}).String())
	assert.Equal(t, "[send_attrs] sent message_id=unknown", (&SendReceipt{Command: "send_attrs"}).String())
}

func TestDeliveryText(t *testing.T) {
	plain := &Delivery{Command: "recv", MessageID: "m-1", Body: "hi"}
	assert.Equal(t, `[recv] received: message_id=m-1 body="hi"`, plain.String())

	tenant := "acme"
	detailed := &Delivery{
		Command:   "recv_attrs",
		MessageID: "m-2",
		Body:      "hi",
		System:    map[string]string{"SequenceNumber": "7", "MessageGroupId": "g1"},
		Attributes: map[string]Attribute{
			"tenant": {DataType: "String", StringValue: &tenant},
			"blob":   {DataType: "Binary"},
		},
		Detailed: true,
	}
	expected := `[recv_attrs] received: message_id=m-2 body="hi"
[recv_attrs] system: MessageGroupId=g1
[recv_attrs] system: SequenceNumber=7
[recv_attrs] attrs: blob(Binary)
[recv_attrs] attrs: tenant(String)="acme"`
	assert.Equal(t, expected, detailed.String())

	empty := &Delivery{Command: "recv_attrs", MessageID: "m-3", Detailed: true}
	assert.Equal(t, `[recv_attrs] received: message_id=m-3 body=""
[recv_attrs] system: (none)
[recv_attrs] attrs: (none)`, empty.String())
}

func TestPrinter(t *testing.T) {
	receipt := &SendReceipt{Command: "send_fifo", MessageID: "m-1", SequenceNumber: "9", Fifo: true}

	buf := &bytes.Buffer{}
	require.NoError(t, NewPrinter(buf, Text).Print(receipt))
	assert.Equal(t, "[send_fifo] sent message_id=m-1 sequence=9\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(buf, JSON).Print(receipt))
	assert.JSONEq(t, `{"command":"send_fifo","message_id":"m-1","sequence_number":"9","fifo":true}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(buf, YAML).Print(&QueueAttributes{Command: "bootstrap", QueueURL: "http://q", Attributes: map[string]string{"FifoQueue": "true"}}))
	assert.Equal(t, "---\ncommand: bootstrap\nqueue_url: http://q\nattributes:\n  FifoQueue: \"true\"\n", buf.String())
}

func TestQueueAttributesText(t *testing.T) {
	r := &QueueAttributes{Attributes: map[string]string{"VisibilityTimeout": "30", "FifoQueue": "true"}}
	assert.Equal(t, "[attr] FifoQueue = true\n[attr] VisibilityTimeout = 30", r.String())
}

func TestMessageActionText(t *testing.T) {
	assert.Equal(t, "[recv] deleted message_id=m-1", (&MessageAction{Command: "recv", Action: "deleted", MessageID: "m-1"}).String())

	buf := &bytes.Buffer{}
	require.NoError(t, NewPrinter(buf, JSON).Print(&MessageAction{Command: "recv", Action: "kept"}))
	assert.JSONEq(t, `{"command":"recv","action":"kept","message_id":""}`, buf.String())
}
