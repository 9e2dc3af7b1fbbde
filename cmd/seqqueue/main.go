// Command seqqueue reads "key payload" lines from stdin and processes them on
// one sequential queue per key. Queue metrics are served for Prometheus and
// queue events can be mirrored into a Redis stream.
package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/seqqueue/pkg/config"
	"github.com/dmitrymomot/seqqueue/pkg/logger"
	"github.com/dmitrymomot/seqqueue/pkg/metrics"
	"github.com/dmitrymomot/seqqueue/pkg/redis"
	"github.com/dmitrymomot/seqqueue/pkg/seqqueue"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	MetricsAddr     string        `env:"METRICS_ADDR" envDefault:":2112"`
	PublishEvents   bool          `env:"SEQQUEUE_PUBLISH_EVENTS" envDefault:"false"`
	WorkDuration    time.Duration `env:"SEQQUEUE_WORK_DURATION" envDefault:"50ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	var (
		app     appConfig
		queue   seqqueue.Config
		metrCfg metrics.Config
	)
	config.MustLoad(&app)
	config.MustLoad(&queue)
	config.MustLoad(&metrCfg)

	log := logger.New(
		logger.WithEnvironment(app.Env, "seqqueue"),
		logger.WithContextExtractors(seqqueue.LogExtractor),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, app, queue, metrCfg); err != nil {
		log.Error("seqqueue stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, app appConfig, queue seqqueue.Config, metrCfg metrics.Config) error {
	reg := prometheus.NewRegistry()
	exporter, err := metrics.NewFromConfig(metrCfg, reg)
	if err != nil {
		return err
	}

	opts := []seqqueue.ManagerOption{
		seqqueue.WithManagerTimeout(queue.Timeout),
		seqqueue.WithManagerLogger(log),
		seqqueue.WithManagerMetrics(exporter),
	}

	var checks []func(context.Context) error
	if app.PublishEvents {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		checks = append(checks, redis.Healthcheck(client))

		pub := redis.NewEventPublisher(client, append(redisCfg.PublisherOptions(), redis.WithPublisherLogger(log))...)
		opts = append(opts, seqqueue.WithQueueHook(pub.Attach))
		log.Info("publishing queue events", slog.String("stream", redisCfg.EventStream))
	}

	manager := seqqueue.NewManager(opts...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", healthz(log, checks...))

	server := &http.Server{
		Addr:              app.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", logger.Error(err))
		}
	}()
	log.Info("metrics endpoint is up", slog.String("addr", app.MetricsAddr))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			key, payload, _ := strings.Cut(strings.TrimSpace(line), " ")
			if key == "" {
				continue
			}
			if !manager.Push(key, process(log, payload, app.WorkDuration)) {
				log.Warn("task rejected", logger.Queue(key))
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()

	// An interrupt aborts pending work, end of input lets it finish.
	err = manager.Shutdown(shutdownCtx, ctx.Err() != nil)
	return errors.Join(err, server.Shutdown(shutdownCtx))
}

// healthz reports 503 when any dependency check fails.
func healthz(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "health check failed", logger.Error(err))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func process(log *slog.Logger, payload string, work time.Duration) seqqueue.TaskFunc {
	return func(ctx context.Context, t *seqqueue.Task) error {
		defer t.Done()

		select {
		case <-time.After(work):
		case <-ctx.Done():
			return context.Cause(ctx)
		}
		log.InfoContext(ctx, "processed", slog.String("payload", payload))
		return nil
	}
}
