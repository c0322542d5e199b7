package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/game"
)

// WhoHandlerFactory creates handlers that list online players.
type WhoHandlerFactory struct {
	world *game.WorldState
	msgr  Messenger
}

// NewWhoHandlerFactory creates a new WhoHandlerFactory.
func NewWhoHandlerFactory(world *game.WorldState, msgr Messenger) *WhoHandlerFactory {
	return &WhoHandlerFactory{world: world, msgr: msgr}
}

func (f *WhoHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *WhoHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *WhoHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		lines := []string{"Players Online:"}
		count := 0

		f.world.ForEachPlayer(func(ps *game.PlayerState) {
			count++
			line := "  " + ps.Name
			if ps.Spectator {
				line += " (spectating)"
			}
			lines = append(lines, line)
		})
		lines = append(lines, fmt.Sprintf("%d player(s) online.", count))

		return f.msgr.SendMessage(cmdCtx.Actor, strings.Join(lines, "\n"))
	}, nil
}
