package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-blockshuffle/internal/material"
	"github.com/pixil98/go-blockshuffle/internal/round"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

// Direction is a horizontal step across the arena floor.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Offset returns the x and z change for one step in d.
func (d Direction) Offset() (dx, dz int, ok bool) {
	switch d {
	case North:
		return 0, -1, true
	case South:
		return 0, 1, true
	case East:
		return 1, 0, true
	case West:
		return -1, 0, true
	}
	return 0, 0, false
}

// WorldState is the single source of truth for all mutable player state.
// All access must go through its methods to ensure thread-safety.
type WorldState struct {
	mu         sync.RWMutex
	subscriber Subscriber
	arena      *Arena
	players    map[string]*PlayerState
	order      []string
}

// NewWorldState creates a new WorldState over a resolved arena.
func NewWorldState(sub Subscriber, arena *Arena) *WorldState {
	return &WorldState{
		subscriber: sub,
		arena:      arena,
		players:    make(map[string]*PlayerState),
	}
}

// Arena returns the arena players are standing in.
func (w *WorldState) Arena() *Arena {
	return w.arena
}

func playerKey(name string) string {
	return round.Key(name)
}

// GetPlayer returns the player state. Returns nil if player not found.
func (w *WorldState) GetPlayer(name string) *PlayerState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.players[playerKey(name)]
}

// AddPlayer registers a new player at the arena spawn.
func (w *WorldState) AddPlayer(name string, msgs chan Delivery) (*PlayerState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := playerKey(name)
	if _, exists := w.players[key]; exists {
		return nil, ErrPlayerExists
	}

	ps := &PlayerState{
		subscriber: w.subscriber,
		subs:       make(map[string]func()),
		msgs:       msgs,
		done:       make(chan struct{}),
		Name:       name,
		Position:   w.arena.SpawnPosition(),
		JoinedAt:   time.Now(),
	}
	w.players[key] = ps
	w.order = append(w.order, key)
	return ps, nil
}

// RemovePlayer removes a player from the world state.
func (w *WorldState) RemovePlayer(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := playerKey(name)
	if _, exists := w.players[key]; !exists {
		return ErrPlayerNotFound
	}

	delete(w.players, key)
	for i, k := range w.order {
		if k == key {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Move steps a player one block in dir. Players cannot leave the floor.
func (w *WorldState) Move(name string, dir Direction) (shuffle.Position, error) {
	dx, dz, ok := dir.Offset()
	if !ok {
		return shuffle.Position{}, fmt.Errorf("unknown direction %q", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ps, exists := w.players[playerKey(name)]
	if !exists {
		return shuffle.Position{}, ErrPlayerNotFound
	}

	below := ps.Position.BlockBelow()
	x, z := below.X+dx, below.Z+dz
	if !w.arena.InBounds(x, z) {
		return ps.Position, ErrOutOfBounds
	}

	ps.Position = standingAt(x, z)
	return ps.Position, nil
}

// SetSpectator marks a player as a spectator.
func (w *WorldState) SetSpectator(name string) error {
	return w.setSpectator(name, true)
}

// ClearSpectator returns a spectator to play.
func (w *WorldState) ClearSpectator(name string) error {
	return w.setSpectator(name, false)
}

func (w *WorldState) setSpectator(name string, spectator bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ps, exists := w.players[playerKey(name)]
	if !exists {
		return ErrPlayerNotFound
	}
	ps.Spectator = spectator
	return nil
}

// IsSpectator reports whether the named player is spectating.
func (w *WorldState) IsSpectator(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ps, ok := w.players[playerKey(name)]
	return ok && ps.Spectator
}

// OnlineParticipants returns every connected player in join order.
func (w *WorldState) OnlineParticipants() []shuffle.Participant {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]shuffle.Participant, 0, len(w.order))
	for _, key := range w.order {
		ps := w.players[key]
		out = append(out, shuffle.Participant{
			Name:      ps.Name,
			Spectator: ps.Spectator,
			Position:  ps.Position,
		})
	}
	return out
}

// OnlineNames returns the names of every connected player in join order.
func (w *WorldState) OnlineNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, w.players[key].Name)
	}
	return out
}

// BlockAt returns the arena block at pos.
func (w *WorldState) BlockAt(pos shuffle.BlockPos) material.Material {
	return w.arena.BlockAt(pos)
}

// ForEachPlayer calls fn for each player in join order while holding the lock.
func (w *WorldState) ForEachPlayer(fn func(*PlayerState)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, key := range w.order {
		fn(w.players[key])
	}
}

// PlayerState holds all mutable state for an active player.
type PlayerState struct {
	subscriber Subscriber
	msgs       chan Delivery

	// Subscriptions
	subs map[string]func()

	// Closed when the session should end.
	done chan struct{}
	once sync.Once

	Name      string
	Position  shuffle.Position
	Spectator bool
	JoinedAt  time.Time

	// Quit signals the player wants to disconnect
	Quit bool
}

// Done returns the channel that is closed when this session is kicked.
func (p *PlayerState) Done() <-chan struct{} {
	return p.done
}

// Kick closes the done channel, signaling the active session to exit.
// It is safe to call multiple times.
func (p *PlayerState) Kick() {
	p.once.Do(func() { close(p.done) })
}

// Subscribe adds a new subscription whose data is delivered as kind.
func (p *PlayerState) Subscribe(subject string, kind DeliveryKind) error {
	if p.subscriber == nil {
		return fmt.Errorf("subscriber is nil")
	}

	unsub, err := p.subscriber.Subscribe(subject, func(data []byte) {
		select {
		case p.msgs <- Delivery{Kind: kind, Data: data}:
		case <-p.done:
		}
	})

	// If we some how are subscribing to a channel we already think we have
	// unsubscribe from the existing one.
	if old, ok := p.subs[subject]; ok {
		old()
		delete(p.subs, subject)
	}

	if err != nil {
		return fmt.Errorf("subscribing to channel '%s': %w", subject, err)
	}
	p.subs[subject] = unsub
	return nil
}

// Unsubscribe removes a subscription by name
func (p *PlayerState) Unsubscribe(subject string) {
	if unsub, ok := p.subs[subject]; ok {
		unsub()
		delete(p.subs, subject)
	}
}

// UnsubscribeAll removes all subscriptions
func (p *PlayerState) UnsubscribeAll() {
	for name, unsub := range p.subs {
		unsub()
		delete(p.subs, name)
	}
}
