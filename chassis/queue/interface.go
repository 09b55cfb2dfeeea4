package queue

import "context"

// Config - unified configuration for queue service
type Config struct {
	Region   string
	Endpoint string

	// Static "test" credentials for LocalStack
	StaticCredentials bool

	//AWS specified
	CredentialsFile    string
	CredentialsProfile string
	Retries            *int
}

// RecvMessage unified presentation for queue message
type RecvMessage struct {
	ID      string
	Body    string
	Handler string

	// System attributes (SequenceNumber, MessageGroupId, ApproximateReceiveCount, ...)
	Attributes map[string]string
	// User attributes
	MessageAttributes map[string]MessageAttribute
}

// MessageAttribute - typed user attribute
type MessageAttribute struct {
	DataType    string
	StringValue *string
	BinaryValue []byte
}

// SendRequest ...
type SendRequest struct {
	QueueURL        string
	Body            string
	Attributes      map[string]string
	GroupID         string
	DeduplicationID string
}

// SendResult ...
type SendResult struct {
	MessageID      string
	SequenceNumber string
	MD5            string
}

// ReceiveRequest ...
type ReceiveRequest struct {
	QueueURL    string
	MaxMessages int64
	WaitSeconds int64
	// Ask for every system and user attribute
	AllAttributes bool
}

// Client interface for queue interaction (SQS Based)
type Client interface {
	GetQueueURL(ctx context.Context, name string) (string, error)
	CreateQueue(ctx context.Context, name string, attributes map[string]string) (string, error)
	DeleteQueue(ctx context.Context, queueURL string) error
	SendMessage(ctx context.Context, req *SendRequest) (*SendResult, error)
	ReceiveMessages(ctx context.Context, req *ReceiveRequest) ([]*RecvMessage, error)
	DeleteMessage(ctx context.Context, queueURL, handler string) error
	PurgeQueue(ctx context.Context, queueURL string) error
	GetQueueAttributes(ctx context.Context, queueURL string) (map[string]string, error)
}
