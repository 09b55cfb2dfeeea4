package queue

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFifo(t *testing.T) {
	tests := []struct {
		name     string
		flag     *bool
		expected bool
	}{
		{"orders.fifo", nil, true},
		{"orders", aws.Bool(true), true},
		{"orders", aws.Bool(false), false},
		{"orders", nil, false},
		{"orders.fifo", aws.Bool(false), true},
		{"orders.FIFO", nil, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, IsFifo(test.name, test.flag), test.name)
	}
}

func TestRequireFifoName(t *testing.T) {
	assert.NoError(t, RequireFifoName("orders.fifo"))

	err := RequireFifoName("orders")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFifoMismatch))
	assert.Contains(t, err.Error(), "orders")
}

func TestCreateAttributes(t *testing.T) {
	tests := []struct {
		desc     string
		name     string
		opts     CreateOptions
		expected map[string]string
		mismatch bool
	}{
		{
			desc:     "standard queue with unset flag",
			name:     "orders",
			expected: map[string]string{},
		},
		{
			desc:     "suffix with unset flag is fifo",
			name:     "orders.fifo",
			expected: map[string]string{AttrFifoQueue: "true"},
		},
		{
			desc:     "fifo with content based dedup and visibility timeout",
			name:     "orders.fifo",
			opts:     CreateOptions{Fifo: aws.Bool(true), ContentBasedDedup: aws.Bool(true), VisibilityTimeoutSecs: aws.Int(45)},
			expected: map[string]string{AttrFifoQueue: "true", AttrContentBasedDeduplication: "true", AttrVisibilityTimeout: "45"},
		},
		{
			desc:     "content based dedup is ignored for standard queues",
			name:     "orders",
			opts:     CreateOptions{ContentBasedDedup: aws.Bool(true)},
			expected: map[string]string{},
		},
		{
			desc:     "fifo flag without suffix",
			name:     "orders",
			opts:     CreateOptions{Fifo: aws.Bool(true)},
			mismatch: true,
		},
		{
			desc:     "suffix with fifo explicitly disabled",
			name:     "orders.fifo",
			opts:     CreateOptions{Fifo: aws.Bool(false)},
			mismatch: true,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			attrs, err := CreateAttributes(test.name, test.opts)
			if test.mismatch {
				assert.Nil(t, attrs)
				assert.True(t, errors.Is(err, ErrFifoMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, attrs)
		})
	}
}
