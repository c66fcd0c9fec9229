package email

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Dispatcher queues messages and sends them from a background worker so
// request handlers never wait on the provider. Failed sends are logged and
// counted, never retried.
type Dispatcher struct {
	sender      Sender
	log         *zap.Logger
	queue       chan Message
	sendTimeout time.Duration

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// DispatcherStats is a snapshot of dispatcher counters.
type DispatcherStats struct {
	Queued  int   `json:"queued"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

// NewDispatcher creates a dispatcher with a queue of size buffer.
func NewDispatcher(sender Sender, buffer int, log *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		sender:      sender,
		log:         log,
		queue:       make(chan Message, buffer),
		sendTimeout: 15 * time.Second,
		done:        make(chan struct{}),
	}
}

// Start launches the worker.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.run()
	})
}

// Enqueue adds msg to the queue. It returns false when the queue is full or
// the dispatcher has stopped; the message is dropped in that case.
func (d *Dispatcher) Enqueue(msg Message) (ok bool) {
	defer func() {
		// send on closed channel after Stop
		if recover() != nil {
			ok = false
			d.dropped.Add(1)
		}
	}()

	select {
	case d.queue <- msg:
		return true
	default:
		d.dropped.Add(1)
		d.log.Warn("email queue full, dropping message",
			zap.String("subject", msg.Subject),
			zap.Int("capacity", cap(d.queue)),
		)
		return false
	}
}

// Stop closes the queue and waits for queued messages to drain or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.Start()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Queued:  len(d.queue),
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	start := time.Now()
	id, err := d.sender.Send(ctx, msg)
	if err != nil {
		d.failed.Add(1)
		d.log.Error("email send failed",
			zap.Error(err),
			zap.String("subject", msg.Subject),
			zap.Strings("to", msg.To),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	d.sent.Add(1)
	d.log.Debug("email sent",
		zap.String("id", id),
		zap.String("subject", msg.Subject),
		zap.Duration("duration", time.Since(start)),
	)
}
