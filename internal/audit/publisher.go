package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Store persists audit events. Implementations must be safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. By default
// Emit writes synchronously; WithAsyncBuffer moves writes to a background
// goroutine so slow sinks never stall request handling.
type Publisher struct {
	store      Store
	logger     *slog.Logger
	bufferSize int
	buffer     chan Event
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer
// size. When the buffer is full, events are dropped rather than blocking
// the caller.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.bufferSize = size
		}
	}
}

// WithLogger sets the logger used to report dropped events and sink
// failures on the async path.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan Event, p.bufferSize)
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event. A zero timestamp is stamped with the current
// time and a zero category is derived from the action, so callers only
// fill in what they know.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}
	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		}
		return errors.New("audit buffer full")
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.buffer {
		// The request context is gone by the time the event is written.
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("append audit event", "action", event.Action, "error", err)
		}
	}
}

// Close drains any buffered events and stops the background writer.
// Emit must not be called after Close.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}
