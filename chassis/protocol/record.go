package protocol

import (
	"fmt"
	"sort"
	"strings"
)

const none = "(none)"

// Record - anything a command prints as its result
type Record interface {
	String() string
}

// SendReceipt - result of a single send call
type SendReceipt struct {
	Command        string `json:"command" yaml:"command"`
	MessageID      string `json:"message_id" yaml:"message_id"`
	MD5            string `json:"md5,omitempty" yaml:"md5,omitempty"`
	SequenceNumber string `json:"sequence_number,omitempty" yaml:"sequence_number,omitempty"`
	Fifo           bool   `json:"fifo" yaml:"fifo"`
}

// String representation
func (r *SendReceipt) String() string {
	line := fmt.Sprintf("[%s] sent message_id=%s", r.Command, orUnknown(r.MessageID))
	if r.MD5 != "" {
		line += " md5=" + r.MD5
	}
	if r.Fifo {
		seq := r.SequenceNumber
		if seq == "" {
			seq = "-"
		}
		line += " sequence=" + seq
	}
	return line
}

// Subscription - printed once when a receive loop starts
type Subscription struct {
	Command  string `json:"command" yaml:"command"`
	Region   string `json:"region" yaml:"region"`
	Queue    string `json:"queue" yaml:"queue"`
	Mode     string `json:"mode" yaml:"mode"`
	WaitSecs int    `json:"wait_secs" yaml:"wait_secs"`
	Delete   bool   `json:"delete" yaml:"delete"`
}

// String representation
func (r *Subscription) String() string {
	return fmt.Sprintf("[%s] region=%s queue=%s mode=%s wait=%ds delete=%t\n[%s] waiting for messages... (Ctrl+C to stop)",
		r.Command, r.Region, r.Queue, r.Mode, r.WaitSecs, r.Delete, r.Command)
}

// Attribute - user attribute as printed
type Attribute struct {
	DataType    string  `json:"data_type" yaml:"data_type"`
	StringValue *string `json:"string_value,omitempty" yaml:"string_value,omitempty"`
}

// Delivery - one received message
type Delivery struct {
	Command    string               `json:"command" yaml:"command"`
	MessageID  string               `json:"message_id" yaml:"message_id"`
	Body       string               `json:"body" yaml:"body"`
	System     map[string]string    `json:"system,omitempty" yaml:"system,omitempty"`
	Attributes map[string]Attribute `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Print system and user attributes in text mode, even when empty
	Detailed bool `json:"-" yaml:"-"`
}

// String representation
func (r *Delivery) String() string {
	lines := []string{fmt.Sprintf("[%s] received: message_id=%s body=%q", r.Command, orUnknown(r.MessageID), r.Body)}
	if !r.Detailed {
		return lines[0]
	}
	if len(r.System) == 0 {
		lines = append(lines, fmt.Sprintf("[%s] system: %s", r.Command, none))
	}
	for _, key := range sortedKeys(r.System) {
		lines = append(lines, fmt.Sprintf("[%s] system: %s=%s", r.Command, key, r.System[key]))
	}
	if len(r.Attributes) == 0 {
		lines = append(lines, fmt.Sprintf("[%s] attrs: %s", r.Command, none))
	}
	keys := make([]string, 0, len(r.Attributes))
	for key := range r.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attr := r.Attributes[key]
		if attr.StringValue != nil {
			lines = append(lines, fmt.Sprintf("[%s] attrs: %s(%s)=%q", r.Command, key, attr.DataType, *attr.StringValue))
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] attrs: %s(%s)", r.Command, key, attr.DataType))
	}
	return strings.Join(lines, "\n")
}

// QueueAttributes - attribute dump for operator verification
type QueueAttributes struct {
	Command    string            `json:"command" yaml:"command"`
	QueueURL   string            `json:"queue_url" yaml:"queue_url"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

// String representation
func (r *QueueAttributes) String() string {
	lines := make([]string, 0, len(r.Attributes))
	for _, key := range sortedKeys(r.Attributes) {
		lines = append(lines, fmt.Sprintf("[attr] %s = %s", key, r.Attributes[key]))
	}
	return strings.Join(lines, "\n")
}

// QueueAction - outcome of a maintenance call
type QueueAction struct {
	Command  string `json:"command" yaml:"command"`
	Action   string `json:"action" yaml:"action"`
	QueueURL string `json:"queue_url" yaml:"queue_url"`
}

// String representation
func (r *QueueAction) String() string {
	return fmt.Sprintf("[%s] %s queue: %s", r.Command, r.Action, r.QueueURL)
}

// MessageAction - what the receive loop did to a message after printing it
type MessageAction struct {
	Command   string `json:"command" yaml:"command"`
	Action    string `json:"action" yaml:"action"`
	MessageID string `json:"message_id" yaml:"message_id"`
}

// String representation
func (r *MessageAction) String() string {
	return fmt.Sprintf("[%s] %s message_id=%s", r.Command, r.Action, orUnknown(r.MessageID))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
