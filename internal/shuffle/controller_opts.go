package shuffle

import (
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-blockshuffle/internal/progress"
)

type ControllerOpt func(*Controller)

// WithRoundDuration sets the number of ticks in a round.
func WithRoundDuration(ticks int) ControllerOpt {
	return func(c *Controller) {
		c.roundDuration = ticks
	}
}

// WithTickInterval sets how often the round timer ticks.
func WithTickInterval(d time.Duration) ControllerOpt {
	return func(c *Controller) {
		c.tickInterval = d
	}
}

// WithReporter replaces the default tip based countdown.
func WithReporter(r progress.Reporter) ControllerOpt {
	return func(c *Controller) {
		c.reporter = r
	}
}

// WithIndicator sets the shared progress display.
func WithIndicator(ind progress.Indicator) ControllerOpt {
	return func(c *Controller) {
		c.indicator = ind
	}
}

// WithMessages overrides announcements. Empty fields keep their defaults.
func WithMessages(m Messages) ControllerOpt {
	return func(c *Controller) {
		c.messages = m.Merge(DefaultMessages())
	}
}

// WithRand sets the random source used for assignments.
func WithRand(rng *rand.Rand) ControllerOpt {
	return func(c *Controller) {
		c.rng = rng
	}
}

// WithResults records every game that ends with a winner.
func WithResults(rs ResultSaver) ControllerOpt {
	return func(c *Controller) {
		c.results = rs
	}
}
