// Package backoff computes retry delays for failed jobs.
package backoff

import (
	"math"
	"time"
)

// Delay returns base^attempt seconds: the retry delay after a job's
// attempt'th failure. Callers pass the post-increment attempt count.
// Uncapped; operators who need a ceiling should cap the configured
// backoff_base instead, since no separate maximum is part of the
// queue's config surface.
func Delay(base uint32, attempt uint32) time.Duration {
	seconds := math.Pow(float64(base), float64(attempt))
	return time.Duration(seconds * float64(time.Second))
}
