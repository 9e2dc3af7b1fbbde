package metrics

// Config holds exporter settings loaded from the environment.
type Config struct {
	Namespace       string    `env:"SEQQUEUE_METRICS_NAMESPACE" envDefault:"seqqueue"`
	DurationBuckets []float64 `env:"SEQQUEUE_METRICS_BUCKETS" envSeparator:","`
}
