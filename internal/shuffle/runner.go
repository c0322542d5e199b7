package shuffle

import (
	"context"

	"github.com/pixil98/go-blockshuffle/internal/round"
)

// Executor runs a function on the goroutine that owns the controller.
type Executor interface {
	Do(ctx context.Context, fn func(context.Context) error) error
}

// Runner is the concurrency safe face of a Controller. Sessions, the admin
// API and connection hooks call it from their own goroutines.
type Runner struct {
	ctrl *Controller
	exec Executor
}

func NewRunner(ctrl *Controller, exec Executor) *Runner {
	return &Runner{ctrl: ctrl, exec: exec}
}

func (r *Runner) Start(ctx context.Context) error {
	return r.exec.Do(ctx, r.ctrl.Start)
}

func (r *Runner) Stop(ctx context.Context) error {
	return r.exec.Do(ctx, r.ctrl.Stop)
}

func (r *Runner) Status(ctx context.Context) (Status, error) {
	var st Status
	err := r.exec.Do(ctx, func(context.Context) error {
		st = r.ctrl.Status()
		return nil
	})
	return st, err
}

// Ready clears the spectator flag of name if no game is running.
func (r *Runner) Ready(ctx context.Context, name string) error {
	return r.exec.Do(ctx, func(ctx context.Context) error {
		return r.ctrl.Ready(ctx, name)
	})
}

// Targets returns the blocks assigned to name in the current round.
func (r *Runner) Targets(ctx context.Context, name string) (round.TargetSet, bool, error) {
	var ts round.TargetSet
	var ok bool
	err := r.exec.Do(ctx, func(context.Context) error {
		ts, ok = r.ctrl.Targets(name)
		return nil
	})
	return ts, ok, err
}

func (r *Runner) Joined(ctx context.Context, name string) error {
	return r.exec.Do(ctx, func(context.Context) error {
		r.ctrl.Joined(name)
		return nil
	})
}

func (r *Runner) Left(ctx context.Context, name string) error {
	return r.exec.Do(ctx, func(context.Context) error {
		r.ctrl.Left(name)
		return nil
	})
}
