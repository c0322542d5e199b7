package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pixil98/go-blockshuffle/internal/commands"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/messaging"
	"github.com/pixil98/go-blockshuffle/internal/round"
)

const (
	msgBufferSize = 100
	hookTimeout   = 5 * time.Second
)

// Runner is the game as sessions see it.
type Runner interface {
	Joined(ctx context.Context, name string) error
	Left(ctx context.Context, name string) error
	Targets(ctx context.Context, name string) (round.TargetSet, bool, error)
}

type PlayerManager struct {
	cmdHandler *commands.Handler
	world      *game.WorldState
	runner     Runner

	loginFlow *loginFlow
}

func NewPlayerManager(cmd *commands.Handler, world *game.WorldState, runner Runner) *PlayerManager {
	return &PlayerManager{
		cmdHandler: cmd,
		world:      world,
		runner:     runner,
		loginFlow:  &loginFlow{world: world},
	}
}

// RunSession logs a connection in and plays until it quits or drops.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	msgs := make(chan game.Delivery, msgBufferSize)

	ps, err := m.loginFlow.Run(conn, msgs)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	slog.InfoContext(ctx, "player joined", "player", ps.Name)
	defer m.endSession(ctx, ps)

	subs := []struct {
		subject string
		kind    game.DeliveryKind
	}{
		{messaging.PlayerSubject(ps.Name), game.DeliveryMessage},
		{messaging.BroadcastSubject, game.DeliveryMessage},
		{messaging.TipSubject(ps.Name), game.DeliveryTip},
		{messaging.BarSubject(ps.Name), game.DeliveryBar},
	}
	for _, s := range subs {
		if err := ps.Subscribe(s.subject, s.kind); err != nil {
			return err
		}
	}

	if err := m.runner.Joined(ctx, ps.Name); err != nil {
		slog.WarnContext(ctx, "announcing join to game", "player", ps.Name, "error", err)
	}

	p := &Player{
		conn:       conn,
		session:    ps,
		world:      m.world,
		cmdHandler: m.cmdHandler,
		runner:     m.runner,
		msgs:       msgs,
	}
	return p.Play(ctx)
}

func (m *PlayerManager) endSession(ctx context.Context, ps *game.PlayerState) {
	ps.Kick()
	ps.UnsubscribeAll()

	if err := m.world.RemovePlayer(ps.Name); err != nil {
		slog.WarnContext(ctx, "removing player", "player", ps.Name, "error", err)
	}

	// The session context may already be cancelled during shutdown.
	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hookTimeout)
	defer cancel()
	if err := m.runner.Left(hookCtx, ps.Name); err != nil {
		slog.WarnContext(ctx, "announcing leave to game", "player", ps.Name, "error", err)
	}

	slog.InfoContext(ctx, "player left", "player", ps.Name)
}
