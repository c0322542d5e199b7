// Package shuffle implements the block shuffle game: participants race to
// stand on one of their assigned blocks before the round timer runs out, and
// anyone who fails becomes a spectator until one participant is left.
package shuffle

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-blockshuffle/internal/driver"
	"github.com/pixil98/go-blockshuffle/internal/material"
	"github.com/pixil98/go-blockshuffle/internal/progress"
	"github.com/pixil98/go-blockshuffle/internal/round"
)

const (
	DefaultRoundDuration = 300
	DefaultTickInterval  = time.Second

	noWinner = "No one"
)

// Controller owns the game session. It is not safe for concurrent use: every
// method and every scheduled tick must run on the same goroutine, which the
// driver guarantees.
type Controller struct {
	host      Host
	msgr      Messenger
	sched     Scheduler
	reporter  progress.Reporter
	indicator progress.Indicator
	messages  Messages
	msgs      *messageSet
	rng       *rand.Rand
	pool      []material.Material
	results   ResultSaver

	roundDuration int
	tickInterval  time.Duration

	session *session
}

// session exists only while a game is running.
type session struct {
	id        uuid.UUID
	round     int
	state     *round.State
	remaining int
	task      driver.TaskHandle
	startedAt time.Time
	entrants  []string
}

func NewController(host Host, msgr Messenger, sched Scheduler, opts ...ControllerOpt) (*Controller, error) {
	c := &Controller{
		host:          host,
		msgr:          msgr,
		sched:         sched,
		indicator:     progress.Nop{},
		messages:      DefaultMessages(),
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		pool:          material.Pool(),
		roundDuration: DefaultRoundDuration,
		tickInterval:  DefaultTickInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.reporter == nil {
		c.reporter = progress.NewTipReporter(tipSender{host: host, msgr: msgr})
	}
	if c.roundDuration <= 0 {
		return nil, fmt.Errorf("round duration must be positive, got %d", c.roundDuration)
	}

	msgs, err := c.messages.compile()
	if err != nil {
		return nil, fmt.Errorf("compiling messages: %w", err)
	}
	c.msgs = msgs

	return c, nil
}

// Running reports whether a game is in progress.
func (c *Controller) Running() bool {
	return c.session != nil
}

// Start begins a new game.
func (c *Controller) Start(ctx context.Context) error {
	if c.session != nil {
		return c.stateError(ctx, "start", "already_running")
	}

	c.session = &session{id: uuid.New(), startedAt: time.Now()}
	slog.InfoContext(ctx, "block shuffle started", "session", c.session.id)

	c.broadcast(ctx, "started", messageData{})

	c.indicator.RemoveAllViewers()
	for _, p := range c.host.OnlineParticipants() {
		c.indicator.AddViewer(p.Name)
	}

	c.nextRound(ctx)
	return nil
}

// Stop ends the running game and announces it.
func (c *Controller) Stop(ctx context.Context) error {
	if c.session == nil {
		return c.stateError(ctx, "stop", "not_running")
	}
	c.stop(ctx, true)
	return nil
}

// Shutdown ends any running game without an announcement.
func (c *Controller) Shutdown(ctx context.Context) {
	if c.session != nil {
		c.stop(ctx, false)
	}
}

// Ready returns a spectator to play for the next game. It is refused while a
// game is running.
func (c *Controller) Ready(ctx context.Context, name string) error {
	if c.session != nil {
		return c.stateError(ctx, "ready", "wait_for_end")
	}
	if err := c.host.ClearSpectator(name); err != nil {
		return fmt.Errorf("clearing spectator %s: %w", name, err)
	}
	return nil
}

// Joined adds a participant who came online to the progress audience.
func (c *Controller) Joined(name string) {
	if c.session != nil {
		c.indicator.AddViewer(name)
	}
}

// Left removes a participant who went offline from the progress audience.
// Their round entry stays until the next round.
func (c *Controller) Left(name string) {
	if c.session != nil {
		c.indicator.RemoveViewer(name)
	}
}

// Targets returns the blocks assigned to name in the current round.
func (c *Controller) Targets(name string) (round.TargetSet, bool) {
	if c.session == nil || c.session.state == nil {
		return round.TargetSet{}, false
	}
	return c.session.state.Targets(name)
}

func (c *Controller) stop(ctx context.Context, announce bool) {
	s := c.session
	c.session = nil

	if s.task != 0 {
		c.sched.Cancel(s.task)
	}
	c.indicator.RemoveAllViewers()

	if announce {
		c.broadcast(ctx, "ended", messageData{Session: s.id.String(), Round: s.round})
	}
	slog.InfoContext(ctx, "block shuffle stopped", "session", s.id, "rounds", s.round)
}

func (c *Controller) nextRound(ctx context.Context) {
	s := c.session

	var names []string
	for _, p := range c.host.OnlineParticipants() {
		if !p.Spectator {
			names = append(names, p.Name)
		}
	}

	if len(names) <= 1 {
		winner := noWinner
		if len(names) == 1 {
			winner = names[0]
		}
		slog.InfoContext(ctx, "block shuffle game over", "session", s.id, "winner", winner)
		c.broadcast(ctx, "game_over", messageData{Name: winner, Round: s.round})
		c.record(ctx, s, winner)
		c.stop(ctx, true)
		return
	}

	if s.task != 0 {
		c.sched.Cancel(s.task)
		s.task = 0
	}

	s.round++
	if s.round == 1 {
		s.entrants = names
	}
	s.state = round.Assign(names, c.pool, c.rng)
	for _, name := range s.state.Participants() {
		ts, _ := s.state.Targets(name)
		c.send(ctx, name, "assigned", messageData{Name: name, Blocks: ts.Names(), Round: s.round})
	}

	s.remaining = c.roundDuration
	c.indicator.SetTitle(progress.TimeLeft(s.remaining))
	c.indicator.SetProgress(1)
	s.task = c.sched.ScheduleRepeating(c.tick, c.tickInterval)

	slog.InfoContext(ctx, "round started", "session", s.id, "round", s.round, "participants", len(names))
}

// tick runs once per tick interval while a round is active.
func (c *Controller) tick(ctx context.Context, h driver.TaskHandle) {
	s := c.session
	if s == nil || s.task != h {
		c.sched.Cancel(h)
		return
	}

	c.reporter.Update(max(s.remaining, 0), c.roundDuration)

	online := c.host.OnlineParticipants()
	for _, p := range online {
		if !s.state.Has(p.Name) || s.state.Completed(p.Name) {
			continue
		}
		ts, _ := s.state.Targets(p.Name)
		if !ts.Contains(c.host.BlockAt(p.Position.BlockBelow())) {
			continue
		}
		s.state.MarkCompleted(p.Name)
		slog.InfoContext(ctx, "participant found block", "session", s.id, "round", s.round, "player", p.Name)
		c.broadcast(ctx, "found", messageData{Name: p.Name, Round: s.round})
		c.send(ctx, p.Name, "found_self", messageData{Name: p.Name, Round: s.round})
	}

	if s.state.AllCompleted() {
		c.broadcast(ctx, "all_completed", messageData{Round: s.round})
		c.sched.Cancel(h)
		s.task = 0
		c.nextRound(ctx)
		return
	}

	s.remaining--
	if s.remaining >= 0 {
		return
	}

	for _, p := range online {
		if !s.state.Has(p.Name) || s.state.Completed(p.Name) {
			continue
		}
		if err := c.host.SetSpectator(p.Name); err != nil {
			slog.WarnContext(ctx, "marking participant as spectator", "player", p.Name, "error", err)
		}
		slog.InfoContext(ctx, "participant eliminated", "session", s.id, "round", s.round, "player", p.Name)
		c.send(ctx, p.Name, "eliminated_self", messageData{Name: p.Name, Round: s.round})
		c.broadcast(ctx, "eliminated", messageData{Name: p.Name, Round: s.round})
	}

	c.sched.Cancel(h)
	s.task = 0
	c.nextRound(ctx)
}

func (c *Controller) stateError(ctx context.Context, op, key string) error {
	return &StateError{Op: op, Message: c.msgs.render(ctx, key, messageData{})}
}

func (c *Controller) broadcast(ctx context.Context, key string, data messageData) {
	if err := c.msgr.Broadcast(c.msgs.render(ctx, key, data)); err != nil {
		slog.WarnContext(ctx, "broadcasting message", "message", key, "error", err)
	}
}

func (c *Controller) send(ctx context.Context, name, key string, data messageData) {
	if err := c.msgr.SendMessage(name, c.msgs.render(ctx, key, data)); err != nil {
		slog.WarnContext(ctx, "sending message", "message", key, "player", name, "error", err)
	}
}
