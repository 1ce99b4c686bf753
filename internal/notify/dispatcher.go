package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DispatcherConfig holds configuration for the background dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent workers deliver messages.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory queue.
	QueueSize int

	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   100,
		SendTimeout: 10 * time.Second,
	}
}

// Dispatcher queues messages and delivers them on background workers.
// Dispatch never blocks a request and never reports delivery errors to
// the caller; a full queue or a failed send is logged and dropped.
type Dispatcher struct {
	notifier Notifier
	msgChan  chan Message
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopped  atomic.Bool
	config   DispatcherConfig
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher delivering through the given Notifier.
func NewDispatcher(notifier Notifier, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		notifier: notifier,
		msgChan:  make(chan Message, config.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		config:   config,
		logger:   logger.With(slog.String("component", "notify_dispatcher")),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop shuts down the dispatcher. Queued messages that have not started
// delivery are dropped with a log line.
func (d *Dispatcher) Stop() {
	d.stopped.Store(true)
	d.cancel()
	d.wg.Wait()

	// The channel is left open so a straggling Dispatch cannot panic on
	// a send; anything still queued is drained and dropped here.
	for {
		select {
		case msg := <-d.msgChan:
			d.logger.Warn("dropping undelivered notification on shutdown",
				"kind", string(msg.Kind),
				"recipient", msg.Email)
		default:
			return
		}
	}
}

// Dispatch enqueues a message for background delivery. A full queue drops
// the message; the caller is never blocked or failed.
func (d *Dispatcher) Dispatch(msg Message) {
	if d.stopped.Load() {
		d.logger.Warn("dispatcher stopped, dropping message",
			"kind", string(msg.Kind),
			"recipient", msg.Email)
		return
	}
	select {
	case d.msgChan <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message",
			"kind", string(msg.Kind),
			"recipient", msg.Email)
	}
}

// worker delivers messages from the queue until the dispatcher stops.
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting notification worker", "worker_id", id)

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("stopping notification worker", "worker_id", id)
			return
		case msg := <-d.msgChan:
			d.deliver(msg)
		}
	}
}

// deliver sends one message, logging the outcome either way.
func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.SendTimeout)
	defer cancel()

	if err := d.notifier.Send(ctx, msg); err != nil {
		d.logger.Error("failed to send notification",
			"kind", string(msg.Kind),
			"recipient", msg.Email,
			"error", err)
		return
	}

	d.logger.Info("notification sent",
		"kind", string(msg.Kind),
		"recipient", msg.Email)
}
