package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
)

// Refresher is the part of the dashboard service the worker drives.
type Refresher interface {
	Refresh(ctx context.Context, book domain.Book) error
}

// DashboardRefresher rebuilds dashboard snapshots whenever a voucher changes.
type DashboardRefresher struct {
	consumer  events.Consumer
	dashboard Refresher
}

// NewDashboardRefresher creates a refresher reading from consumer.
func NewDashboardRefresher(consumer events.Consumer, dashboard Refresher) *DashboardRefresher {
	return &DashboardRefresher{
		consumer:  consumer,
		dashboard: dashboard,
	}
}

// Run consumes events until ctx is cancelled or the stream closes.
func (w *DashboardRefresher) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Dashboard refresher started")
	err := w.consumer.ConsumeVoucherEvents(ctx, w.HandleVoucherEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume voucher events: %w", err)
	}
	slog.InfoContext(ctx, "Dashboard refresher stopped")
	return nil
}

// HandleVoucherEvent recomputes the dashboard of the book evt belongs to.
func (w *DashboardRefresher) HandleVoucherEvent(ctx context.Context, evt *events.VoucherEvent) error {
	slog.InfoContext(ctx, "Processing voucher event",
		"type", evt.Type,
		"book", evt.Book,
		"voucher_id", evt.VoucherID)

	if !evt.Book.Valid() {
		slog.WarnContext(ctx, "Ignoring voucher event for unknown book", "book", evt.Book)
		return nil
	}
	if err := w.dashboard.Refresh(ctx, evt.Book); err != nil {
		return fmt.Errorf("refresh dashboard for %s: %w", evt.Book, err)
	}
	return nil
}
