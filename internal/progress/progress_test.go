package progress

import (
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockBarPublisher struct {
	sent map[string][]string
	err  error
}

func (m *mockBarPublisher) SendBar(name string, data []byte) error {
	if m.sent == nil {
		m.sent = map[string][]string{}
	}
	m.sent[name] = append(m.sent[name], string(data))
	return m.err
}

func (m *mockBarPublisher) last(name string) string {
	msgs := m.sent[name]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type mockIndicator struct {
	title    string
	fraction float64
}

func (m *mockIndicator) SetTitle(title string)        { m.title = title }
func (m *mockIndicator) SetProgress(fraction float64) { m.fraction = fraction }
func (m *mockIndicator) AddViewer(string)             {}
func (m *mockIndicator) RemoveViewer(string)          {}
func (m *mockIndicator) RemoveAllViewers()            {}

type mockTips struct {
	online []string
	tips   map[string]string
}

func (m *mockTips) OnlineNames() []string { return m.online }

func (m *mockTips) SendTip(name, msg string) error {
	if m.tips == nil {
		m.tips = map[string]string{}
	}
	m.tips[name] = msg
	return nil
}

func TestFraction(t *testing.T) {
	tests := map[string]struct {
		remaining int
		total     int
		exp       float64
	}{
		"full":          {remaining: 300, total: 300, exp: 1},
		"half":          {remaining: 150, total: 300, exp: 0.5},
		"empty":         {remaining: 0, total: 300, exp: 0},
		"negative":      {remaining: -1, total: 300, exp: 0},
		"over":          {remaining: 400, total: 300, exp: 1},
		"invalid total": {remaining: 10, total: 0, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "fraction", Fraction(tt.remaining, tt.total), tt.exp)
		})
	}
}

func TestBarReporter_Update(t *testing.T) {
	ind := &mockIndicator{}
	r := NewBarReporter(ind)

	r.Update(75, 300)
	testutil.AssertEqual(t, "title", ind.title, "Time Left: 75s")
	testutil.AssertEqual(t, "fraction", ind.fraction, 0.25)

	r.Update(0, 300)
	testutil.AssertEqual(t, "title at zero", ind.title, "Time Left: 0s")
	testutil.AssertEqual(t, "fraction at zero", ind.fraction, 0.0)
}

func TestTipReporter_Update(t *testing.T) {
	tips := &mockTips{online: []string{"alice", "bob"}}
	r := NewTipReporter(tips)

	r.Update(42, 300)
	testutil.AssertEqual(t, "tip count", len(tips.tips), 2)
	testutil.AssertEqual(t, "alice", tips.tips["alice"], "Time Left: 42s")
	testutil.AssertEqual(t, "bob", tips.tips["bob"], "Time Left: 42s")
}

func TestBar(t *testing.T) {
	pub := &mockBarPublisher{}
	b := NewBar(pub, WithWidth(10))

	testutil.AssertEqual(t, "initial", b.Render(), "[##########] Find one of your blocks!")

	b.AddViewer("alice")
	b.AddViewer("alice")
	b.AddViewer("bob")
	testutil.AssertEqual(t, "viewers", strings.Join(b.Viewers(), ","), "alice,bob")
	testutil.AssertEqual(t, "alice pushes", len(pub.sent["alice"]), 1)

	NewBarReporter(b).Update(150, 300)
	testutil.AssertEqual(t, "alice bar", pub.last("alice"), "[#####-----] Time Left: 150s")
	testutil.AssertEqual(t, "bob bar", pub.last("bob"), "[#####-----] Time Left: 150s")

	b.SetProgress(7)
	testutil.AssertEqual(t, "clamped", b.Render(), "[##########] Time Left: 150s")

	b.RemoveViewer("alice")
	testutil.AssertEqual(t, "alice cleared", pub.last("alice"), "")
	testutil.AssertEqual(t, "viewers after remove", strings.Join(b.Viewers(), ","), "bob")

	b.RemoveViewer("nobody")

	b.RemoveAllViewers()
	testutil.AssertEqual(t, "no viewers", len(b.Viewers()), 0)
	testutil.AssertEqual(t, "bob cleared", pub.last("bob"), "")
}

func TestBar_PublishErrorIgnored(t *testing.T) {
	pub := &mockBarPublisher{err: errors.New("boom")}
	b := NewBar(pub)
	b.AddViewer("alice")
	b.SetTitle("still works")
	testutil.AssertEqual(t, "pushes", len(pub.sent["alice"]), 2)
}

func TestNop(t *testing.T) {
	var ind Indicator = Nop{}
	ind.SetTitle("x")
	ind.SetProgress(0.5)
	ind.AddViewer("alice")
	ind.RemoveViewer("alice")
	ind.RemoveAllViewers()
}
