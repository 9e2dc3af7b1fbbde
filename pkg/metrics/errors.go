package metrics

import "errors"

var (
	ErrCollectorMismatch = errors.New("metrics: registered collector has a different type")
	ErrRegisterCollector = errors.New("metrics: failed to register collector")
)
