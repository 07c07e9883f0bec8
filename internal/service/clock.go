package service

import "time"

// Clock supplies the current time. Services stamp every accepted mutation
// through a Clock so tests can pin timestamps.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time {
	return time.Now().UTC()
}
