package commands

import (
	"context"
	"fmt"
	"strings"
)

// BlocksHandlerFactory creates handlers that remind a player of their targets.
type BlocksHandlerFactory struct {
	runner Runner
	msgr   Messenger
}

func NewBlocksHandlerFactory(runner Runner, msgr Messenger) *BlocksHandlerFactory {
	return &BlocksHandlerFactory{runner: runner, msgr: msgr}
}

func (f *BlocksHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *BlocksHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *BlocksHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		st, err := f.runner.Status(ctx)
		if err != nil {
			return fmt.Errorf("reading game status: %w", err)
		}

		for _, p := range st.Participants {
			if !strings.EqualFold(p.Name, cmdCtx.Actor) {
				continue
			}
			msg := "Your blocks: " + strings.Join(p.Targets, " | ")
			if p.Completed {
				msg += "\nYou have already found one this round."
			}
			return f.msgr.SendMessage(cmdCtx.Actor, msg)
		}

		return NewUserError("You have no blocks this round.")
	}, nil
}
