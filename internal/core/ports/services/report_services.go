package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/export"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
)

// ReportService defines operations for voucher reports
type ReportService interface {
	// VoucherReport lists the vouchers in filter with their summary figures.
	VoucherReport(ctx context.Context, filter domain.VoucherFilter, requestingUserID string) (*domain.VoucherReport, error)

	// Aggregate groups the vouchers in filter. The int result is the number of skipped records.
	Aggregate(ctx context.Context, filter domain.VoucherFilter, spec aggregation.Spec, requestingUserID string) (*aggregation.Result, int, error)

	// CashBalance is total receipts minus total payments between from and to.
	CashBalance(ctx context.Context, from, to time.Time, requestingUserID string) (*domain.CashBalance, error)

	// ExportReport writes the report for filter to w in the requested format.
	ExportReport(ctx context.Context, filter domain.VoucherFilter, format export.Format, w io.Writer, requestingUserID string) error
}

// DashboardService defines operations for the analytics dashboard
type DashboardService interface {
	// Dashboard returns the snapshot for the last periodDays days of book.
	Dashboard(ctx context.Context, book domain.Book, periodDays int, requestingUserID string) (*domain.DashboardSnapshot, error)

	// Refresh drops the cached snapshots of book and rebuilds its default period.
	Refresh(ctx context.Context, book domain.Book) error
}
