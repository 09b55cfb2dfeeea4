package queue

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
)

const (
	allAttributes   = "All"
	stringDataType  = "String"
	localAccessKey  = "test"
	localSecretKey  = "test"
	defaultMessages = 1
)

// AWSQueue implementation
type AWSQueue struct {
	queue sqsiface.SQSAPI
}

// InitAWSQueue ...
func InitAWSQueue(cfg Config) (*AWSQueue, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	switch {
	case cfg.StaticCredentials:
		awsCfg.Credentials = credentials.NewStaticCredentials(localAccessKey, localSecretKey, "")
	case cfg.CredentialsProfile != "" || cfg.CredentialsFile != "":
		awsCfg.Credentials = credentials.NewSharedCredentials(cfg.CredentialsFile, cfg.CredentialsProfile)
	}
	if cfg.Retries != nil {
		awsCfg.MaxRetries = aws.Int(*cfg.Retries)
	}
	ssn, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return NewAWSQueue(sqs.New(ssn)), nil
}

// NewAWSQueue wraps an existing SQS API client.
func NewAWSQueue(api sqsiface.SQSAPI) *AWSQueue {
	return &AWSQueue{queue: api}
}

// GetQueueURL ...
func (q *AWSQueue) GetQueueURL(ctx context.Context, name string) (string, error) {
	out, err := q.queue.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		return "", wrapErr("getting queue url for", name, err)
	}
	if out.QueueUrl == nil {
		return "", &ServiceError{Op: "getting queue url for " + name, Err: errors.New("queue url missing in response")}
	}
	return *out.QueueUrl, nil
}

// CreateQueue ...
func (q *AWSQueue) CreateQueue(ctx context.Context, name string, attributes map[string]string) (string, error) {
	input := &sqs.CreateQueueInput{
		QueueName: aws.String(name),
	}
	if len(attributes) > 0 {
		input.Attributes = aws.StringMap(attributes)
	}
	out, err := q.queue.CreateQueueWithContext(ctx, input)
	if err != nil {
		return "", wrapErr("creating queue", name, err)
	}
	if out.QueueUrl == nil {
		return "", &ServiceError{Op: "creating queue " + name, Err: errors.New("queue url missing after create")}
	}
	return *out.QueueUrl, nil
}

// DeleteQueue ...
func (q *AWSQueue) DeleteQueue(ctx context.Context, queueURL string) error {
	_, err := q.queue.DeleteQueueWithContext(ctx, &sqs.DeleteQueueInput{
		QueueUrl: aws.String(queueURL),
	})
	if err != nil {
		return wrapErr("deleting queue", queueURL, err)
	}
	return nil
}

// SendMessage ...
func (q *AWSQueue) SendMessage(ctx context.Context, req *SendRequest) (*SendResult, error) {
	msg := &sqs.SendMessageInput{
		MessageBody: aws.String(req.Body),     // Required
		QueueUrl:    aws.String(req.QueueURL), // Required
	}
	if len(req.Attributes) > 0 {
		msg.MessageAttributes = make(map[string]*sqs.MessageAttributeValue, len(req.Attributes))
		for key, value := range req.Attributes {
			msg.MessageAttributes[key] = &sqs.MessageAttributeValue{
				DataType:    aws.String(stringDataType),
				StringValue: aws.String(value),
			}
		}
	}
	if req.GroupID != "" {
		msg.MessageGroupId = aws.String(req.GroupID)
	}
	if req.DeduplicationID != "" {
		msg.MessageDeduplicationId = aws.String(req.DeduplicationID)
	}
	sendResponse, err := q.queue.SendMessageWithContext(ctx, msg)
	if err != nil {
		return nil, wrapErr("sending message to", req.QueueURL, err)
	}
	return &SendResult{
		MessageID:      aws.StringValue(sendResponse.MessageId),
		SequenceNumber: aws.StringValue(sendResponse.SequenceNumber),
		MD5:            aws.StringValue(sendResponse.MD5OfMessageBody),
	}, nil
}

// ReceiveMessages ...
func (q *AWSQueue) ReceiveMessages(ctx context.Context, req *ReceiveRequest) ([]*RecvMessage, error) {
	maxMessages := req.MaxMessages
	if maxMessages <= 0 {
		maxMessages = defaultMessages
	}
	receivedMsg := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(req.QueueURL),
		MaxNumberOfMessages: aws.Int64(maxMessages),
		WaitTimeSeconds:     aws.Int64(req.WaitSeconds),
	}
	if req.AllAttributes {
		receivedMsg.AttributeNames = aws.StringSlice([]string{allAttributes})
		receivedMsg.MessageAttributeNames = aws.StringSlice([]string{allAttributes})
	}
	receiveResponse, err := q.queue.ReceiveMessageWithContext(ctx, receivedMsg)
	if err != nil {
		return nil, wrapErr("receiving from", req.QueueURL, err)
	}
	messages := make([]*RecvMessage, 0, len(receiveResponse.Messages))
	for _, m := range receiveResponse.Messages {
		messages = append(messages, convert(m))
	}
	return messages, nil
}

func convert(m *sqs.Message) *RecvMessage {
	msg := &RecvMessage{
		ID:         aws.StringValue(m.MessageId),
		Body:       aws.StringValue(m.Body),
		Handler:    aws.StringValue(m.ReceiptHandle),
		Attributes: aws.StringValueMap(m.Attributes),
	}
	if m.MessageAttributes != nil {
		msg.MessageAttributes = make(map[string]MessageAttribute, len(m.MessageAttributes))
		for key, value := range m.MessageAttributes {
			if value == nil {
				continue
			}
			msg.MessageAttributes[key] = MessageAttribute{
				DataType:    aws.StringValue(value.DataType),
				StringValue: value.StringValue,
				BinaryValue: value.BinaryValue,
			}
		}
	}
	return msg
}

// DeleteMessage ...
func (q *AWSQueue) DeleteMessage(ctx context.Context, queueURL, handler string) error {
	_, err := q.queue.DeleteMessageWithContext(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(handler),
	})
	if err != nil {
		return wrapErr("deleting message from", queueURL, err)
	}
	return nil
}

// PurgeQueue ...
func (q *AWSQueue) PurgeQueue(ctx context.Context, queueURL string) error {
	_, err := q.queue.PurgeQueueWithContext(ctx, &sqs.PurgeQueueInput{
		QueueUrl: aws.String(queueURL),
	})
	if err != nil {
		return wrapErr("purging queue", queueURL, err)
	}
	return nil
}

// GetQueueAttributes ...
func (q *AWSQueue) GetQueueAttributes(ctx context.Context, queueURL string) (map[string]string, error) {
	out, err := q.queue.GetQueueAttributesWithContext(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueURL),
		AttributeNames: aws.StringSlice([]string{allAttributes}),
	})
	if err != nil {
		return nil, wrapErr("getting attributes of", queueURL, err)
	}
	return aws.StringValueMap(out.Attributes), nil
}
