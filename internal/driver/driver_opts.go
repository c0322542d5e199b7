package driver

import "time"

type DriverOpt func(*Driver)

// WithTickLength sets how often the driver checks for due tasks.
func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

// WithClock replaces the time source used when scheduling tasks.
func WithClock(now func() time.Time) DriverOpt {
	return func(d *Driver) {
		d.now = now
	}
}
