package seqqueue

import "time"

// Config holds queue settings loaded from the environment.
type Config struct {
	Name    string        `env:"SEQQUEUE_NAME" envDefault:"default"`
	Timeout time.Duration `env:"SEQQUEUE_TIMEOUT" envDefault:"3s"`
}

// NewFromConfig creates a queue from cfg. Explicit options win over cfg.
func NewFromConfig(cfg Config, opts ...Option) *Queue {
	base := []Option{WithName(cfg.Name), WithTimeout(cfg.Timeout)}
	return New(append(base, opts...)...)
}
