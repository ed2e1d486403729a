package service

import "time"

// Services carry an injectable clock so lifecycle timestamps and the
// derived durations built from them are testable.
func defaultNow() time.Time {
	return time.Now().UTC()
}
