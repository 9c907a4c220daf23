package pincache

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	flushConcurrency int64
}

// Option configures Cache constructor behavior.
type Option func(*options)

// WithLogger configures structured logging.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pincache.BasicMetricsCollector{}
//	c, _ := pincache.New(64, store, pincache.WithMetricsCollector(metrics))
//	...
//	fmt.Println(metrics.EvictionCount.Load())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithFlushConcurrency limits the number of concurrent write-backs during
// Close. Defaults to 16 if not set or <= 0.
func WithFlushConcurrency(n int64) Option {
	return func(o *options) {
		o.flushConcurrency = n
	}
}
