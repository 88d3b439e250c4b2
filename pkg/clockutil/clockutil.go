// Package clockutil provides the clock used by services so tests can
// substitute a fixed time.
package clockutil

import "time"

// System is the wall clock. Now returns the current UTC time truncated to
// microseconds, matching PostgreSQL timestamp precision.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
