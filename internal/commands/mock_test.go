package commands

import (
	"context"
	"sort"
	"testing"

	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/round"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

type mockStore struct {
	records map[string]*Command
}

func (m *mockStore) Save(id string, c *Command) error {
	m.records[id] = c
	return nil
}

func (m *mockStore) Get(id string) *Command {
	return m.records[id]
}

func (m *mockStore) GetAll() map[string]*Command {
	out := make(map[string]*Command, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out
}

func (m *mockStore) Keys() []string {
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type mockMessenger struct {
	sent map[string][]string
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{sent: map[string][]string{}}
}

func (m *mockMessenger) SendMessage(name, msg string) error {
	m.sent[name] = append(m.sent[name], msg)
	return nil
}

func (m *mockMessenger) last(name string) string {
	msgs := m.sent[name]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type mockPublisher struct {
	published map[string][]string
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	if m.published == nil {
		m.published = map[string][]string{}
	}
	m.published[subject] = append(m.published[subject], string(data))
	return nil
}

type mockRunner struct {
	status   shuffle.Status
	startErr error
	stopErr  error
	started  int
	stopped  int
	world    *game.WorldState
}

func (m *mockRunner) Start(ctx context.Context) error {
	m.started++
	return m.startErr
}

func (m *mockRunner) Stop(ctx context.Context) error {
	m.stopped++
	return m.stopErr
}

func (m *mockRunner) Status(ctx context.Context) (shuffle.Status, error) {
	return m.status, nil
}

func (m *mockRunner) Targets(ctx context.Context, name string) (round.TargetSet, bool, error) {
	return round.TargetSet{}, false, nil
}

// Ready mirrors shuffle.Controller.Ready against the test world.
func (m *mockRunner) Ready(ctx context.Context, name string) error {
	if m.status.Running {
		return &shuffle.StateError{Op: "ready", Message: "Wait for the current game to end."}
	}
	return m.world.ClearSpectator(name)
}

// newTestWorld builds a 3x3 arena with alice at the center.
func newTestWorld(t *testing.T, names ...string) *game.WorldState {
	t.Helper()
	arena := &game.Arena{
		Name:    "Test Arena",
		Palette: map[string]string{"s": "STONE", "d": "DIRT", "o": "DARK_OAK_PLANKS"},
		Floor: []string{
			"sss",
			"sdo",
			"sss",
		},
		Spawn: game.Spawn{X: 1, Z: 1},
	}
	if err := arena.Validate(); err != nil {
		t.Fatalf("validating arena: %v", err)
	}
	if err := arena.Resolve(); err != nil {
		t.Fatalf("resolving arena: %v", err)
	}

	w := game.NewWorldState(nil, arena)
	for _, n := range names {
		if _, err := w.AddPlayer(n, make(chan game.Delivery, 1)); err != nil {
			t.Fatalf("adding player: %v", err)
		}
	}
	return w
}
