package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-blockshuffle/internal/commands"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/material"
	"github.com/pixil98/go-blockshuffle/internal/messaging"
	"github.com/pixil98/go-blockshuffle/internal/round"
	"github.com/pixil98/go-testutil"
)

// memBus delivers published data synchronously to subscribers.
type memBus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func([]byte)
}

func newMemBus() *memBus {
	return &memBus{subs: map[string]map[int]func([]byte){}}
}

func (b *memBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	if b.subs[subject] == nil {
		b.subs[subject] = map[int]func([]byte){}
	}
	b.subs[subject][id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
	}, nil
}

func (b *memBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	var handlers []func([]byte)
	for _, h := range b.subs[subject] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *memBus) subscribers(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[subject])
}

type mockRunner struct {
	mu      sync.Mutex
	joined  []string
	left    []string
	targets map[string]round.TargetSet
}

func (m *mockRunner) Joined(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joined = append(m.joined, name)
	return nil
}

func (m *mockRunner) Left(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.left = append(m.left, name)
	return nil
}

func (m *mockRunner) Targets(ctx context.Context, name string) (round.TargetSet, bool, error) {
	ts, ok := m.targets[name]
	return ts, ok, nil
}

type mockStore struct {
	records map[string]*commands.Command
}

func (m *mockStore) Save(id string, c *commands.Command) error { m.records[id] = c; return nil }
func (m *mockStore) Get(id string) *commands.Command           { return m.records[id] }
func (m *mockStore) GetAll() map[string]*commands.Command      { return m.records }
func (m *mockStore) Keys() []string {
	var keys []string
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type testConn struct {
	in  io.Reader
	out bytes.Buffer
}

func (c *testConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *testConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func newTestWorld(t *testing.T, bus *memBus) *game.WorldState {
	t.Helper()
	arena := &game.Arena{
		Name:    "Test Arena",
		Palette: map[string]string{"s": "STONE"},
		Floor:   []string{"sss", "sss"},
		Spawn:   game.Spawn{X: 1, Z: 1},
	}
	if err := arena.Validate(); err != nil {
		t.Fatalf("validating arena: %v", err)
	}
	if err := arena.Resolve(); err != nil {
		t.Fatalf("resolving arena: %v", err)
	}
	return game.NewWorldState(bus, arena)
}

func newTestManager(t *testing.T) (*PlayerManager, *game.WorldState, *memBus, *mockRunner) {
	t.Helper()
	bus := newMemBus()
	world := newTestWorld(t, bus)
	runner := &mockRunner{}
	msgr := messaging.NewNatsPublisher(bus)

	h := commands.NewHandler(&mockStore{records: map[string]*commands.Command{
		"look": {Handler: "look"},
		"who":  {Handler: "who"},
		"quit": {Handler: "quit"},
	}})
	for name, f := range map[string]commands.HandlerFactory{
		"look": commands.NewLookHandlerFactory(world, msgr),
		"who":  commands.NewWhoHandlerFactory(world, msgr),
		"quit": &commands.QuitHandlerFactory{},
	} {
		if err := h.RegisterFactory(name, f); err != nil {
			t.Fatalf("registering %s: %v", name, err)
		}
	}
	if err := h.CompileAll(); err != nil {
		t.Fatalf("compiling: %v", err)
	}

	return NewPlayerManager(h, world, runner), world, bus, runner
}

func TestPlayerManager_RunSession(t *testing.T) {
	pm, world, bus, runner := newTestManager(t)

	conn := &testConn{in: strings.NewReader("alice\ny\nwho\nbogus\nquit\n")}
	if err := pm.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := conn.out.String()
	for _, exp := range []string{
		"Welcome to BlockShuffle!",
		"Did I get that right, alice (Y/N)? ",
		"You are standing on Stone.",
		"Players Online:\n  alice\n1 player(s) online.",
		"Unknown command: bogus",
		"Goodbye!",
	} {
		if !strings.Contains(out, exp) {
			t.Errorf("output missing %q:\n%s", exp, out)
		}
	}

	testutil.AssertEqual(t, "removed", world.GetPlayer("alice") == nil, true)
	testutil.AssertEqual(t, "joined", runner.joined, []string{"alice"})
	testutil.AssertEqual(t, "left", runner.left, []string{"alice"})
	testutil.AssertEqual(t, "player subs", bus.subscribers(messaging.PlayerSubject("alice")), 0)
	testutil.AssertEqual(t, "broadcast subs", bus.subscribers(messaging.BroadcastSubject), 0)
}

func TestPlayerManager_RunSession_Disconnect(t *testing.T) {
	pm, world, _, runner := newTestManager(t)

	conn := &testConn{in: strings.NewReader("alice\nyes\n")}
	if err := pm.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "removed", world.GetPlayer("alice") == nil, true)
	testutil.AssertEqual(t, "left", runner.left, []string{"alice"})
}

func TestLoginFlow(t *testing.T) {
	tests := map[string]struct {
		input    string
		existing []string
		expName  string
		expOut   []string
		expErr   bool
	}{
		"valid name": {
			input:   "Alice\ny\n",
			expName: "Alice",
		},
		"rejected then accepted": {
			input:   "a\n1abc\nbob\nn\ncarol\ny\n",
			expName: "carol",
			expOut:  []string{"Names are 2 to 16 letters or digits and start with a letter."},
		},
		"name taken": {
			input:    "ALICE\nbob\ny\n",
			existing: []string{"alice"},
			expName:  "bob",
			expOut:   []string{"That name is already playing, please try another."},
		},
		"too many tries": {
			input:  "!\n!\n!\n!\n!\n",
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			world := newTestWorld(t, newMemBus())
			for _, n := range tt.existing {
				if _, err := world.AddPlayer(n, make(chan game.Delivery, 1)); err != nil {
					t.Fatalf("adding player: %v", err)
				}
			}

			conn := &testConn{in: strings.NewReader(tt.input)}
			ps, err := (&loginFlow{world: world}).Run(conn, make(chan game.Delivery, 1))
			if tt.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "name", ps.Name, tt.expName)
			for _, exp := range tt.expOut {
				if !strings.Contains(conn.out.String(), exp) {
					t.Errorf("output missing %q", exp)
				}
			}
		})
	}
}

func TestPlayer_promptText(t *testing.T) {
	targets := round.TargetSet{material.Stone, material.Dirt, material.Clay}

	tests := map[string]struct {
		inRound    bool
		spectating bool
		tip        string
		bar        string
		exp        string
		expTip     string
	}{
		"idle": {
			exp: "> ",
		},
		"stale tip dropped": {
			tip: "Time Left: 3s",
			exp: "> ",
		},
		"in round with tip": {
			inRound: true,
			tip:     "Time Left: 42s",
			exp:     "[STONE | DIRT | CLAY] Time Left: 42s > ",
			expTip:  "Time Left: 42s",
		},
		"bar wins over tip": {
			inRound: true,
			tip:     "Time Left: 42s",
			bar:     "[#####-----] Time Left: 42s",
			exp:     "[STONE | DIRT | CLAY] [#####-----] Time Left: 42s > ",
			expTip:  "Time Left: 42s",
		},
		"spectating": {
			spectating: true,
			exp:        "(spectating) > ",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			world := newTestWorld(t, newMemBus())
			ps, err := world.AddPlayer("alice", make(chan game.Delivery, 1))
			if err != nil {
				t.Fatalf("adding player: %v", err)
			}
			if tt.spectating {
				if err := world.SetSpectator("alice"); err != nil {
					t.Fatalf("spectating: %v", err)
				}
			}

			runner := &mockRunner{targets: map[string]round.TargetSet{}}
			if tt.inRound {
				runner.targets["alice"] = targets
			}

			p := &Player{session: ps, world: world, runner: runner, tip: tt.tip, bar: tt.bar}
			testutil.AssertEqual(t, "prompt", p.promptText(context.Background()), tt.exp)
			testutil.AssertEqual(t, "tip", p.tip, tt.expTip)
		})
	}
}

func TestPlayer_deliver(t *testing.T) {
	conn := &testConn{in: strings.NewReader("")}
	p := &Player{conn: conn}

	printed, err := p.deliver(game.Delivery{Kind: game.DeliveryTip, Data: []byte("Time Left: 9s")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "tip printed", printed, false)
	testutil.AssertEqual(t, "tip", p.tip, "Time Left: 9s")

	if _, err := p.deliver(game.Delivery{Kind: game.DeliveryBar, Data: []byte("[##]")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "bar", p.bar, "[##]")

	if _, err := p.deliver(game.Delivery{Kind: game.DeliveryBar}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "bar cleared", p.bar, "")

	printed, err = p.deliver(game.Delivery{Kind: game.DeliveryMessage, Data: []byte("BlockShuffle has started!")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "message printed", printed, true)
	testutil.AssertEqual(t, "output", conn.out.String(), "\nBlockShuffle has started!\n")
}

func TestPlayer_handleDelivery(t *testing.T) {
	world := newTestWorld(t, newMemBus())
	ps, err := world.AddPlayer("alice", make(chan game.Delivery, 1))
	if err != nil {
		t.Fatalf("adding player: %v", err)
	}
	runner := &mockRunner{targets: map[string]round.TargetSet{
		"alice": {material.Stone, material.Dirt, material.Clay},
	}}
	conn := &testConn{in: strings.NewReader("")}
	p := &Player{conn: conn, session: ps, world: world, runner: runner}
	ctx := context.Background()

	if err := p.prompt(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []struct {
		d   game.Delivery
		exp string
	}{
		{
			d:   game.Delivery{Kind: game.DeliveryTip, Data: []byte("Time Left: 9s")},
			exp: "\r\x1b[K[STONE | DIRT | CLAY] Time Left: 9s > ",
		},
		{
			d:   game.Delivery{Kind: game.DeliveryTip, Data: []byte("Time Left: 9s")},
			exp: "",
		},
		{
			d:   game.Delivery{Kind: game.DeliveryTip, Data: []byte("Time Left: 8s")},
			exp: "\r\x1b[K[STONE | DIRT | CLAY] Time Left: 8s > ",
		},
		{
			d:   game.Delivery{Kind: game.DeliveryMessage, Data: []byte("bob found one of their blocks!")},
			exp: "\nbob found one of their blocks!\n[STONE | DIRT | CLAY] Time Left: 8s > ",
		},
	}

	for i, step := range steps {
		conn.out.Reset()
		if err := p.handleDelivery(ctx, step.d); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		testutil.AssertEqual(t, fmt.Sprintf("step %d output", i), conn.out.String(), step.exp)
	}
}
