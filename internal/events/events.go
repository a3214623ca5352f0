package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrBusClosed is returned when publishing on a bus that has been closed.
var ErrBusClosed = errors.New("event bus closed")

// Publisher announces voucher changes.
type Publisher interface {
	PublishVoucherEvent(ctx context.Context, evt *VoucherEvent) error
}

// Consumer delivers voucher events to handler until ctx is done.
type Consumer interface {
	ConsumeVoucherEvents(ctx context.Context, handler func(context.Context, *VoucherEvent) error) error
}

// Bus is both ends of the event stream.
type Bus interface {
	Publisher
	Consumer
	Close() error
}

// LocalBus is an in-process Bus used when no broker is configured.
type LocalBus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan *VoucherEvent
}

var _ Bus = (*LocalBus)(nil)

// NewLocalBus creates a bus with the given buffer size.
func NewLocalBus(buffer int) *LocalBus {
	return &LocalBus{ch: make(chan *VoucherEvent, buffer)}
}

// PublishVoucherEvent enqueues evt, giving up when the buffer is full.
// After Close it returns ErrBusClosed.
func (b *LocalBus) PublishVoucherEvent(ctx context.Context, evt *VoucherEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("failed to publish %s for %s: %w", evt.Type, evt.VoucherID, ErrBusClosed)
	}
	select {
	case b.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("local event buffer full, dropping %s for %s", evt.Type, evt.VoucherID)
	}
}

// ConsumeVoucherEvents runs handler for each event. Handler errors are logged, not retried.
func (b *LocalBus) ConsumeVoucherEvents(ctx context.Context, handler func(context.Context, *VoucherEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-b.ch:
			if !ok {
				return nil
			}
			if err := handler(ctx, evt); err != nil {
				slog.ErrorContext(ctx, "Failed to handle voucher event",
					"error", err,
					"type", evt.Type,
					"voucher_id", evt.VoucherID)
			}
		}
	}
}

// Close stops consumers once buffered events are drained. Closing twice is a no-op.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}
