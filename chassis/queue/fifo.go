package queue

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FifoSuffix - FIFO queue names must end with it
const FifoSuffix = ".fifo"

// Queue attribute names used on creation
const (
	AttrFifoQueue                 = "FifoQueue"
	AttrContentBasedDeduplication = "ContentBasedDeduplication"
	AttrVisibilityTimeout         = "VisibilityTimeout"
)

// CreateOptions - configured attributes for a new queue
type CreateOptions struct {
	Fifo                  *bool
	ContentBasedDedup     *bool
	VisibilityTimeoutSecs *int
}

// IsFifoName ...
func IsFifoName(name string) bool {
	return strings.HasSuffix(name, FifoSuffix)
}

// IsFifo treats a queue as FIFO when its name says so or the config flags it.
func IsFifo(name string, flag *bool) bool {
	return IsFifoName(name) || (flag != nil && *flag)
}

// RequireFifoName fails unless name carries the .fifo suffix.
func RequireFifoName(name string) error {
	if !IsFifoName(name) {
		return errors.Wrapf(ErrFifoMismatch, "a FIFO queue is required (name must end with %s). Current: %s", FifoSuffix, name)
	}
	return nil
}

// CreateAttributes validates that the name and the fifo flag agree and
// builds the CreateQueue attributes. An unset flag follows the name.
func CreateAttributes(name string, opts CreateOptions) (map[string]string, error) {
	nameIsFifo := IsFifoName(name)
	fifo := nameIsFifo
	if opts.Fifo != nil {
		fifo = *opts.Fifo
	}
	attributes := map[string]string{}
	switch {
	case fifo && !nameIsFifo:
		return nil, errors.Wrapf(ErrFifoMismatch, "fifo=true requires the queue name to end with %s (got: %s)", FifoSuffix, name)
	case !fifo && nameIsFifo:
		return nil, errors.Wrapf(ErrFifoMismatch, "queue name %s ends with %s but fifo=false in config. Either set fifo=true or rename the queue", name, FifoSuffix)
	case fifo:
		attributes[AttrFifoQueue] = "true"
		if opts.ContentBasedDedup != nil && *opts.ContentBasedDedup {
			attributes[AttrContentBasedDeduplication] = "true"
		}
	}
	if opts.VisibilityTimeoutSecs != nil {
		attributes[AttrVisibilityTimeout] = strconv.Itoa(*opts.VisibilityTimeoutSecs)
	}
	return attributes, nil
}
