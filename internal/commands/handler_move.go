package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-blockshuffle/internal/game"
)

// MoveHandlerFactory creates handlers that step players across the arena.
// Config:
//   - direction (required): north, south, east or west
type MoveHandlerFactory struct {
	world *game.WorldState
	msgr  Messenger
}

// NewMoveHandlerFactory creates a new MoveHandlerFactory with access to world state.
func NewMoveHandlerFactory(world *game.WorldState, msgr Messenger) *MoveHandlerFactory {
	return &MoveHandlerFactory{world: world, msgr: msgr}
}

func (f *MoveHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "direction", Required: true},
		},
	}
}

func (f *MoveHandlerFactory) ValidateConfig(config map[string]any) error {
	direction, ok := config["direction"].(string)
	if !ok || direction == "" {
		return fmt.Errorf("direction is required")
	}
	if _, _, ok := game.Direction(strings.ToLower(direction)).Offset(); !ok {
		return fmt.Errorf("unknown direction %q", direction)
	}
	return nil
}

func (f *MoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		dir := game.Direction(strings.ToLower(cmdCtx.Config["direction"]))

		pos, err := f.world.Move(cmdCtx.Actor, dir)
		if errors.Is(err, game.ErrOutOfBounds) {
			return UserErrorf("You cannot go %s from here.", dir)
		}
		if err != nil {
			return fmt.Errorf("moving %s: %w", dir, err)
		}

		below := f.world.BlockAt(pos.BlockBelow())
		msg := fmt.Sprintf("You step %s onto %s.", dir, display.Humanize(below.String()))
		return f.msgr.SendMessage(cmdCtx.Actor, msg)
	}, nil
}
