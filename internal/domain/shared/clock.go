package shared

import "time"

// Clock supplies the current time to services
type Clock func() time.Time

// SystemClock returns the wall-clock time
func SystemClock() time.Time {
	return time.Now()
}
