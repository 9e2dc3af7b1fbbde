// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New creates a *slog.Logger configured by Option functions:
//
//   - WithOutput redirects records.
//   - WithContextExtractors injects attributes pulled from the context every
//     time a record is handled.
//   - WithEnvironment picks format and level for development, staging or
//     production and tags records with the service name.
//
// The attribute helpers in attr.go (Queue, TaskID, Status, Backlog, Duration,
// Timeout, Error, ...) keep key names consistent across the queue packages.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "ingest"),
//		logger.WithContextExtractors(seqqueue.LogExtractor),
//	)
//	q := seqqueue.New(seqqueue.WithLogger(log))
//
// Records written from inside a task with the task's context then carry the
// queue name and task id automatically.
//
// Error and Errors return an empty Attr for nil errors, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
