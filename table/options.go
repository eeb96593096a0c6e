package table

import "go.uber.org/zap"

// BatchSize is the default number of rows per batch, per §4.8.
const BatchSize = 8192

type options struct {
	batchSize int
	logger    *zap.Logger
}

// Option configures a [Table] or a [Plan].
type Option func(*options)

// WithBatchSize overrides the default 8192-row batch size.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithLogger injects a structured logger for segment-open, schema-mismatch,
// and scan-partition lifecycle events. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func resolveOptions(opts []Option) options {
	o := options{batchSize: BatchSize, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
