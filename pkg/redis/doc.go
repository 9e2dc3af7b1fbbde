// Package redis connects to Redis and publishes sequential queue events to a
// Redis stream.
//
// The package wraps the go-redis client and adds:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - `EventPublisher` which turns queue notifications into XADD entries.
//   - Health-check helpers for liveness / readiness probes.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
// Mirror queue notifications into the event stream:
//
//	pub := redis.NewEventPublisher(client, cfg.PublisherOptions()...)
//	pub.Attach(q)
//
// Every entry carries the fields event, queue, task_id, timeout_ms and error.
// The last three are empty when they do not apply. With a positive max length
// the stream is trimmed approximately on each write.
//
// Register a health-check in your observability stack:
//
//	checker := redis.Healthcheck(client)
//	if err := checker(ctx); err != nil {
//	    // redis is not healthy
//	}
//
// # Errors
//
// The package defines sentinel errors (e.g. ErrRedisNotReady, ErrPublishFailed)
// that wrap the underlying go-redis errors using errors.Join. A failed publish
// is logged by the listener and never affects the queue.
package redis
