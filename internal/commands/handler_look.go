package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

var lookDirections = []game.Direction{game.North, game.South, game.East, game.West}

// LookHandlerFactory creates handlers that describe the blocks around a player.
type LookHandlerFactory struct {
	world *game.WorldState
	msgr  Messenger
}

func NewLookHandlerFactory(world *game.WorldState, msgr Messenger) *LookHandlerFactory {
	return &LookHandlerFactory{world: world, msgr: msgr}
}

func (f *LookHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *LookHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *LookHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		var self *shuffle.Participant
		for _, p := range f.world.OnlineParticipants() {
			if strings.EqualFold(p.Name, cmdCtx.Actor) {
				self = &p
				break
			}
		}
		if self == nil {
			return fmt.Errorf("player %q is not in the world", cmdCtx.Actor)
		}

		return f.msgr.SendMessage(cmdCtx.Actor, f.describe(*self))
	}, nil
}

func (f *LookHandlerFactory) describe(p shuffle.Participant) string {
	arena := f.world.Arena()
	below := p.Position.BlockBelow()

	lines := []string{
		fmt.Sprintf("%s (%d, %d)", arena.Name, below.X, below.Z),
		fmt.Sprintf("You are standing on %s.", blockName(f.world, below)),
	}
	for _, d := range lookDirections {
		dx, dz, _ := d.Offset()
		next := shuffle.BlockPos{X: below.X + dx, Y: below.Y, Z: below.Z + dz}
		if !arena.InBounds(next.X, next.Z) {
			lines = append(lines, fmt.Sprintf("  %-6s the edge of the arena", display.Capitalize(string(d))+":"))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-6s %s", display.Capitalize(string(d))+":", blockName(f.world, next)))
	}
	if p.Spectator {
		lines = append(lines, "You are spectating.")
	}

	return strings.Join(lines, "\n")
}

func blockName(world *game.WorldState, pos shuffle.BlockPos) string {
	return display.Humanize(world.BlockAt(pos).String())
}
