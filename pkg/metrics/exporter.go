package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/seqqueue/pkg/seqqueue"
)

// DefaultNamespace prefixes every collector when no namespace is given.
const DefaultNamespace = "seqqueue"

var statuses = []seqqueue.Status{
	seqqueue.StatusIdle,
	seqqueue.StatusBusy,
	seqqueue.StatusClosed,
	seqqueue.StatusDrained,
}

// Options controls collector configuration.
type Options struct {
	DurationBuckets []float64
}

// Exporter records queue measurements into Prometheus collectors.
type Exporter struct {
	taskDuration  *prometheus.HistogramVec
	timeoutsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	backlog       *prometheus.GaugeVec
	status        *prometheus.GaugeVec
}

var _ seqqueue.Metrics = (*Exporter)(nil)

// NewExporter creates the collectors and registers them with reg. Collectors
// already registered under the same names are reused, so several exporters
// sharing a registry report into the same series.
func NewExporter(namespace string, reg prometheus.Registerer, opts Options) (*Exporter, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	durationVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Time from task start to completion or timeout.",
		Buckets:   buckets,
	}, []string{"queue"})
	timeoutsVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_timeouts_total",
		Help:      "Total number of tasks completed by their timeout.",
	}, []string{"queue"})
	errorsVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_errors_total",
		Help:      "Total number of tasks that returned an error or panicked.",
	}, []string{"queue"})
	rejectedVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of tasks refused at admission.",
	}, []string{"queue"})
	backlogVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backlog",
		Help:      "Tasks waiting behind the active one.",
	}, []string{"queue"})
	statusVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "status",
		Help:      "Current queue status, 1 for the active status and 0 otherwise.",
	}, []string{"queue", "status"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if timeoutsVec, err = registerCollector(reg, timeoutsVec); err != nil {
		return nil, err
	}
	if errorsVec, err = registerCollector(reg, errorsVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if backlogVec, err = registerCollector(reg, backlogVec); err != nil {
		return nil, err
	}
	if statusVec, err = registerCollector(reg, statusVec); err != nil {
		return nil, err
	}

	return &Exporter{
		taskDuration:  durationVec,
		timeoutsTotal: timeoutsVec,
		errorsTotal:   errorsVec,
		rejectedTotal: rejectedVec,
		backlog:       backlogVec,
		status:        statusVec,
	}, nil
}

// NewFromConfig creates an exporter registered with reg using cfg.
func NewFromConfig(cfg Config, reg prometheus.Registerer) (*Exporter, error) {
	return NewExporter(cfg.Namespace, reg, Options{DurationBuckets: cfg.DurationBuckets})
}

// RecordTaskDuration observes how long a task held the queue.
func (e *Exporter) RecordTaskDuration(queue string, d time.Duration) {
	if e == nil {
		return
	}
	e.taskDuration.WithLabelValues(queueLabel(queue)).Observe(d.Seconds())
}

// RecordTimeout counts a timed out task.
func (e *Exporter) RecordTimeout(queue string) {
	if e == nil {
		return
	}
	e.timeoutsTotal.WithLabelValues(queueLabel(queue)).Inc()
}

// RecordError counts a failed task.
func (e *Exporter) RecordError(queue string) {
	if e == nil {
		return
	}
	e.errorsTotal.WithLabelValues(queueLabel(queue)).Inc()
}

// RecordRejected counts a refused push.
func (e *Exporter) RecordRejected(queue string) {
	if e == nil {
		return
	}
	e.rejectedTotal.WithLabelValues(queueLabel(queue)).Inc()
}

// RecordBacklog sets the backlog depth.
func (e *Exporter) RecordBacklog(queue string, depth int) {
	if e == nil {
		return
	}
	e.backlog.WithLabelValues(queueLabel(queue)).Set(float64(depth))
}

// RecordStatus flips the status gauge of the queue to s.
func (e *Exporter) RecordStatus(queue string, s seqqueue.Status) {
	if e == nil {
		return
	}
	name := queueLabel(queue)
	for _, st := range statuses {
		v := 0.0
		if st == s {
			v = 1
		}
		e.status.WithLabelValues(name, string(st)).Set(v)
	}
}

func queueLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("%w: %T", ErrCollectorMismatch, collector)
		}
		return existing, nil
	}

	return collector, errors.Join(ErrRegisterCollector, err)
}
