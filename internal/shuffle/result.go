package shuffle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
)

// Result is the record of a game that ran to a winner.
type Result struct {
	Winner       string    `json:"winner"`
	Rounds       int       `json:"rounds"`
	Participants []string  `json:"participants"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
}

func (r *Result) Validate() error {
	el := errors.NewErrorList()

	if r.Winner == "" {
		el.Add(fmt.Errorf("winner is required"))
	}
	if r.Rounds < 0 {
		el.Add(fmt.Errorf("rounds must not be negative"))
	}
	if r.EndedAt.Before(r.StartedAt) {
		el.Add(fmt.Errorf("ended_at is before started_at"))
	}

	return el.Err()
}

// ResultSaver persists finished games keyed by session id.
type ResultSaver interface {
	Save(id string, r *Result) error
}

func (c *Controller) record(ctx context.Context, s *session, winner string) {
	if c.results == nil {
		return
	}

	r := &Result{
		Winner:       winner,
		Rounds:       s.round,
		Participants: s.entrants,
		StartedAt:    s.startedAt,
		EndedAt:      time.Now(),
	}
	if err := c.results.Save(s.id.String(), r); err != nil {
		slog.WarnContext(ctx, "saving game result", "session", s.id, "error", err)
	}
}
