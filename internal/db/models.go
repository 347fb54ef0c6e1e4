package db

import "time"

// Slot is one key/value row. The value is opaque to this package.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Age reports how long ago the slot was last written
func (s Slot) Age() time.Duration {
	return time.Since(s.UpdatedAt)
}
