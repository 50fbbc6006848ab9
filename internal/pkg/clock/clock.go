package clock

import "time"

// Clock abstracts time.Now so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reports the current time in Location.
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
