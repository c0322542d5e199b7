// Package driver runs the game loop. Every scheduled task and every function
// submitted through Do executes on the single goroutine started by Start.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultTickLength is how often the driver checks for due tasks.
	DefaultTickLength = 50 * time.Millisecond
)

// TaskHandle identifies a scheduled task. The zero handle is never issued.
type TaskHandle uint64

// TaskFunc is a repeating task body. It receives its own handle so it can
// cancel itself or detect that it has been superseded.
type TaskFunc func(ctx context.Context, h TaskHandle)

type task struct {
	id       TaskHandle
	fn       TaskFunc
	interval time.Duration
	next     time.Time
}

type request struct {
	fn   func(context.Context) error
	resp chan error
}

// Driver owns the game loop.
type Driver struct {
	tickLength time.Duration
	now        func() time.Time
	shutdown   []func(context.Context)

	inbox chan request

	mu     sync.Mutex
	tasks  map[TaskHandle]*task
	nextId TaskHandle
}

func NewDriver(opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		now:        time.Now,
		inbox:      make(chan request),
		tasks:      map[TaskHandle]*task{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start runs the loop until ctx is cancelled, then runs the shutdown hooks.
func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick_length", d.tickLength)

	for {
		select {
		case <-ctx.Done():
			// Hooks get a fresh context since ctx is already done.
			hookCtx := context.WithoutCancel(ctx)
			for _, fn := range d.shutdown {
				fn(hookCtx)
			}
			return nil
		case req := <-d.inbox:
			req.resp <- req.fn(ctx)
		case now := <-ticker.C:
			d.Tick(ctx, now)
		}
	}
}

// OnShutdown registers fn to run on the driver goroutine when Start returns.
// It must be called before Start.
func (d *Driver) OnShutdown(fn func(context.Context)) {
	d.shutdown = append(d.shutdown, fn)
}

// Do runs fn on the driver goroutine and waits for it to finish.
func (d *Driver) Do(ctx context.Context, fn func(context.Context) error) error {
	req := request{fn: fn, resp: make(chan error, 1)}
	select {
	case d.inbox <- req:
	case <-ctx.Done():
		return fmt.Errorf("submitting to driver: %w", ctx.Err())
	}

	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return fmt.Errorf("waiting on driver: %w", ctx.Err())
	}
}

// ScheduleRepeating registers fn to run every interval, starting one interval
// from now.
func (d *Driver) ScheduleRepeating(fn TaskFunc, interval time.Duration) TaskHandle {
	if interval <= 0 {
		interval = d.tickLength
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextId++
	t := &task{
		id:       d.nextId,
		fn:       fn,
		interval: interval,
		next:     d.now().Add(interval),
	}
	d.tasks[t.id] = t
	return t.id
}

// Cancel removes a task. Once Cancel returns the task is never invoked again.
// Cancelling an unknown or zero handle is a no-op.
func (d *Driver) Cancel(h TaskHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.tasks, h)
}

// Tick invokes every task that is due at now, in scheduling order.
func (d *Driver) Tick(ctx context.Context, now time.Time) {
	for _, t := range d.due(now) {
		if !d.active(t.id) {
			continue
		}
		t.fn(ctx, t.id)
	}
}

// Pending returns the number of scheduled tasks.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

func (d *Driver) due(now time.Time) []*task {
	d.mu.Lock()
	defer d.mu.Unlock()

	var due []*task
	for _, t := range d.tasks {
		if now.Before(t.next) {
			continue
		}
		// Skip missed runs rather than firing them back to back.
		for !now.Before(t.next) {
			t.next = t.next.Add(t.interval)
		}
		due = append(due, t)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].id < due[j].id })
	return due
}

func (d *Driver) active(h TaskHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tasks[h]
	return ok
}
