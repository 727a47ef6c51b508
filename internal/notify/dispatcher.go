package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

const sendTimeout = 15 * time.Second

// Dispatcher sends notifications from a buffered queue on a single worker.
// Delivery is best effort: failures are logged and reported, never retried.
type Dispatcher struct {
	sender Sender
	queue  chan Notification
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, size int) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Notification, size),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Enqueue reports false when the notification was dropped.
func (d *Dispatcher) Enqueue(n Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("notification dropped, dispatcher stopped", "component", "notify", "kind", n.Kind, "to", n.To)
		return false
	}
	select {
	case d.queue <- n:
		return true
	default:
		slog.Warn("notification dropped, queue full", "component", "notify", "kind", n.Kind, "to", n.To)
		return false
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notification) {
	email, err := Render(n)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err = d.sender.Send(ctx, email)
		cancel()
	}
	if err != nil {
		slog.Error("notification delivery failed", "component", "notify", "kind", n.Kind, "to", n.To, "error", err)
		sentry.CaptureException(err)
	}
}

// Stop drains queued notifications and waits for the worker to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}
