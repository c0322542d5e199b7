package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/iammegalith/telnet"
)

// TelnetListener accepts plain telnet connections and hands each one to the
// connection manager.
type TelnetListener struct {
	addr string
	cm   *ConnectionManager
}

func NewTelnetListener(addr string, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		addr: addr,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	sessions := newTelnetSessions(l.cm)

	svr := telnet.NewServer(l.addr, sessions)
	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr)

	returned := make(chan struct{})
	defer close(returned)

	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			sessions.closeAll()
			slog.InfoContext(ctx, "telnet listener stopped", "addr", l.addr)
		case <-returned:
		}
	}()

	if err := svr.ListenAndServe(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("address %s is already in use (another server running?)", l.addr)
		}
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
	return nil
}

// telnetSessions tracks live telnet sessions. They share one context that is
// cancelled when the listener stops, independent of the Start context.
type telnetSessions struct {
	cm     *ConnectionManager
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active atomic.Int64
}

func newTelnetSessions(cm *ConnectionManager) *telnetSessions {
	ctx, cancel := context.WithCancel(context.Background())
	return &telnetSessions{cm: cm, ctx: ctx, cancel: cancel}
}

func (s *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	s.wg.Add(1)
	defer s.wg.Done()

	n := s.active.Add(1)
	slog.DebugContext(s.ctx, "telnet session opened", "active", n)
	defer func() {
		n := s.active.Add(-1)
		if err := conn.Close(); err != nil {
			slog.ErrorContext(s.ctx, "closing telnet connection", "error", err)
		}
		slog.DebugContext(s.ctx, "telnet session closed", "active", n)
	}()

	s.cm.AcceptConnection(s.ctx, conn)
}

func (s *telnetSessions) closeAll() {
	s.cancel()
	s.wg.Wait()
}
