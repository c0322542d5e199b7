package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/pixil98/go-blockshuffle/internal/player"
)

// SessionRunner plays one connection from login to disconnect.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

var _ SessionRunner = (*player.PlayerManager)(nil)

type ConnectionManager struct {
	pm SessionRunner
}

func NewConnectionManager(pm SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.pm.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
