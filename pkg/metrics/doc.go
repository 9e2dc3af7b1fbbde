// Package metrics exports sequential queue measurements to Prometheus.
//
// Exporter implements seqqueue.Metrics and is plugged into a queue with
// seqqueue.WithMetrics or into a manager with seqqueue.WithManagerMetrics:
//
//	exp, err := metrics.NewExporter("", prometheus.DefaultRegisterer, metrics.Options{})
//	if err != nil {
//		return err
//	}
//	q := seqqueue.New(seqqueue.WithName("billing"), seqqueue.WithMetrics(exp))
//
// Collectors, all labelled by queue name:
//
//   - <namespace>_task_duration_seconds (histogram)
//   - <namespace>_task_timeouts_total, _task_errors_total, _task_rejected_total (counters)
//   - <namespace>_backlog (gauge)
//   - <namespace>_status (gauge, additionally labelled by status)
//
// Registering a second exporter with the same namespace on the same registry
// reuses the existing collectors instead of failing.
package metrics
