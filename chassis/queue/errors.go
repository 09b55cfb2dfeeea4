package queue

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
)

var (
	// ErrQueueNotFound is returned when the service has no queue with the given name or URL.
	ErrQueueNotFound = errors.New("queue not found")
	// ErrFifoMismatch is returned when a queue name and the fifo flag disagree.
	ErrFifoMismatch = errors.New("fifo mismatch")
)

// ServiceError wraps any failure returned by the queue service.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap ...
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return aerr.Code() == sqs.ErrCodeQueueDoesNotExist
	}
	return false
}

func wrapErr(op, target string, err error) error {
	if isNotFound(err) {
		return errors.Wrapf(ErrQueueNotFound, "%s %s", op, target)
	}
	return &ServiceError{Op: fmt.Sprintf("%s %s", op, target), Err: err}
}
