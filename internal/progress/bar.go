package progress

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

const (
	// DefaultBarTitle is shown before the first countdown update.
	DefaultBarTitle = "Find one of your blocks!"
	defaultBarWidth = 20
)

// BarPublisher delivers a rendered bar to one viewer.
type BarPublisher interface {
	SendBar(name string, data []byte) error
}

// Bar is an Indicator that renders a text progress bar and pushes it to every
// viewer whenever it changes.
type Bar struct {
	mu       sync.Mutex
	pub      BarPublisher
	width    int
	title    string
	fraction float64
	viewers  []string
}

// BarOpt configures a Bar.
type BarOpt func(*Bar)

// WithWidth sets the number of cells in the rendered bar.
func WithWidth(w int) BarOpt {
	return func(b *Bar) {
		if w > 0 {
			b.width = w
		}
	}
}

// NewBar creates a full bar with the default title and no viewers.
func NewBar(pub BarPublisher, opts ...BarOpt) *Bar {
	b := &Bar{
		pub:      pub,
		width:    defaultBarWidth,
		title:    DefaultBarTitle,
		fraction: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bar) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
	b.pushAll()
}

func (b *Bar) SetProgress(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fraction = clamp(fraction)
	b.pushAll()
}

func (b *Bar) AddViewer(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.Contains(b.viewers, name) {
		return
	}
	b.viewers = append(b.viewers, name)
	b.push(name, []byte(b.render()))
}

func (b *Bar) RemoveViewer(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.viewers, name)
	if i < 0 {
		return
	}
	b.viewers = slices.Delete(b.viewers, i, i+1)
	b.push(name, nil)
}

func (b *Bar) RemoveAllViewers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.viewers {
		b.push(v, nil)
	}
	b.viewers = nil
}

// Viewers returns the current audience.
func (b *Bar) Viewers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.viewers)
}

// Render returns the bar as it is currently shown.
func (b *Bar) Render() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.render()
}

func (b *Bar) render() string {
	filled := int(b.fraction*float64(b.width) + 0.5)
	return fmt.Sprintf("[%s%s] %s", strings.Repeat("#", filled), strings.Repeat("-", b.width-filled), b.title)
}

func (b *Bar) pushAll() {
	data := b.render()
	for _, v := range b.viewers {
		b.push(v, []byte(data))
	}
}

// push sends data to a viewer. An empty payload clears the viewer's bar.
func (b *Bar) push(name string, data []byte) {
	if b.pub == nil {
		return
	}
	if err := b.pub.SendBar(name, data); err != nil {
		slog.Warn("publishing progress bar", "viewer", name, "error", err)
	}
}

func clamp(f float64) float64 {
	return max(0, min(1, f))
}
