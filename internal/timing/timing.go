// Package timing provides a wall-clock measurement wrapper for arbitrary
// operations. Measurement is observability only: the wrapped function's
// result and error pass through untouched, and a slow call is not a failure.
package timing

import (
	"time"

	"go.uber.org/zap"
)

// Timed runs fn, logs its duration under the given operation name, and
// returns fn's result and error unchanged. The duration is logged even when
// fn fails.
func Timed[T any](log *zap.SugaredLogger, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	log.Infow("execution time", "operation", operation, "elapsed", time.Since(start))
	return result, err
}
