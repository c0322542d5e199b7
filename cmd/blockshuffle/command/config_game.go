package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-blockshuffle/internal/driver"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/messaging"
	"github.com/pixil98/go-blockshuffle/internal/progress"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
	"github.com/pixil98/go-errors"
)

type GameConfig struct {
	// Arena is the id of the arena asset players spawn into.
	Arena string `json:"arena"`
	// RoundDuration is counted in round ticks.
	RoundDuration int    `json:"round_duration"`
	TickInterval  string `json:"tick_interval"`
	// TickLength is how often the driver checks for due tasks.
	TickLength  string            `json:"tick_length"`
	ProgressBar bool              `json:"progress_bar"`
	BarWidth    int               `json:"bar_width"`
	Messages    *shuffle.Messages `json:"messages,omitempty"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if c.Arena == "" {
		el.Add(fmt.Errorf("arena is required"))
	}
	if c.RoundDuration < 0 {
		el.Add(fmt.Errorf("round_duration must not be negative"))
	}
	if c.BarWidth < 0 {
		el.Add(fmt.Errorf("bar_width must not be negative"))
	}

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tick_interval must be positive"))
		}
	}

	if c.TickLength != "" {
		d, err := time.ParseDuration(c.TickLength)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_length: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tick_length must be positive"))
		}
	}

	if c.Messages != nil {
		if err := c.Messages.Merge(shuffle.DefaultMessages()).Validate(); err != nil {
			el.Add(fmt.Errorf("messages: %w", err))
		}
	}

	return el.Err()
}

func (c *GameConfig) buildDriver() (*driver.Driver, error) {
	var opts []driver.DriverOpt
	if c.TickLength != "" {
		d, err := time.ParseDuration(c.TickLength)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_length: %w", err)
		}
		opts = append(opts, driver.WithTickLength(d))
	}
	return driver.NewDriver(opts...), nil
}

func (c *GameConfig) buildController(
	world *game.WorldState,
	pub *messaging.NatsPublisher,
	sched shuffle.Scheduler,
	results shuffle.ResultSaver,
) (*shuffle.Controller, error) {
	opts := []shuffle.ControllerOpt{
		shuffle.WithResults(results),
	}

	if c.RoundDuration != 0 {
		opts = append(opts, shuffle.WithRoundDuration(c.RoundDuration))
	}
	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		opts = append(opts, shuffle.WithTickInterval(d))
	}
	if c.ProgressBar {
		bar := progress.NewBar(pub, progress.WithWidth(c.BarWidth))
		opts = append(opts,
			shuffle.WithIndicator(bar),
			shuffle.WithReporter(progress.NewBarReporter(bar)),
		)
	}
	if c.Messages != nil {
		opts = append(opts, shuffle.WithMessages(*c.Messages))
	}

	return shuffle.NewController(world, pub, sched, opts...)
}
