package commands

import "time"

// SetNow replaces the clock used to stamp new tasks until restore is called.
func SetNow(f func() time.Time) (restore func()) {
	old := now
	now = f
	return func() { now = old }
}
