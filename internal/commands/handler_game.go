package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-blockshuffle/internal/round"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

// Runner is the game as commands see it.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (shuffle.Status, error)
	Targets(ctx context.Context, name string) (round.TargetSet, bool, error)
	Ready(ctx context.Context, name string) error
}

// GameHandlerFactory creates handlers that start or stop the game.
// Config:
//   - action (required): start or stop
type GameHandlerFactory struct {
	runner Runner
}

func NewGameHandlerFactory(runner Runner) *GameHandlerFactory {
	return &GameHandlerFactory{runner: runner}
}

func (f *GameHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "action", Required: true},
		},
	}
}

func (f *GameHandlerFactory) ValidateConfig(config map[string]any) error {
	switch config["action"] {
	case "start", "stop":
		return nil
	}
	return fmt.Errorf("action must be start or stop, got %v", config["action"])
}

func (f *GameHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		var err error
		switch cmdCtx.Config["action"] {
		case "start":
			err = f.runner.Start(ctx)
		case "stop":
			err = f.runner.Stop(ctx)
		default:
			return fmt.Errorf("unknown action %q", cmdCtx.Config["action"])
		}
		return asUserError(err)
	}, nil
}
