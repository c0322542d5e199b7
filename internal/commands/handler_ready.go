package commands

import (
	"context"

	"github.com/pixil98/go-blockshuffle/internal/game"
)

// ReadyHandlerFactory creates handlers that bring a spectator back into play
// between games.
type ReadyHandlerFactory struct {
	world  *game.WorldState
	runner Runner
	msgr   Messenger
}

func NewReadyHandlerFactory(world *game.WorldState, runner Runner, msgr Messenger) *ReadyHandlerFactory {
	return &ReadyHandlerFactory{world: world, runner: runner, msgr: msgr}
}

func (f *ReadyHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *ReadyHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *ReadyHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if !f.world.IsSpectator(cmdCtx.Actor) {
			return NewUserError("You are already playing.")
		}

		if err := f.runner.Ready(ctx, cmdCtx.Actor); err != nil {
			return asUserError(err)
		}
		return f.msgr.SendMessage(cmdCtx.Actor, "You are ready to play.")
	}, nil
}
