package redis

import "time"

// Config holds connection and event stream settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	EventStream    string        `env:"SEQQUEUE_EVENT_STREAM" envDefault:"seqqueue:events"`
	EventMaxLen    int64         `env:"SEQQUEUE_EVENT_MAXLEN" envDefault:"10000"` // 0 disables trimming
	PublishTimeout time.Duration `env:"SEQQUEUE_EVENT_PUBLISH_TIMEOUT" envDefault:"2s"`
}

// PublisherOptions converts the stream settings of cfg into publisher options.
func (cfg Config) PublisherOptions() []PublisherOption {
	return []PublisherOption{
		WithStream(cfg.EventStream),
		WithMaxLen(cfg.EventMaxLen),
		WithPublishTimeout(cfg.PublishTimeout),
	}
}
