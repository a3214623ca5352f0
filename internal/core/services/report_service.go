package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/export"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"golang.org/x/sync/errgroup"
)

// reportService builds reports over normalized voucher snapshots.
type reportService struct {
	BaseService
	vouchers portssvc.VoucherReaderSvc
	location *time.Location
}

// ReportServiceOption configures the report service.
type ReportServiceOption func(*reportService)

// WithReportAuthorizer checks permissions through authorizer.
func WithReportAuthorizer(authorizer portssvc.AccessAuthorizerSvc) ReportServiceOption {
	return func(s *reportService) {
		s.Authorizer = authorizer
	}
}

// WithReportLocation sets the zone used for day and month boundaries.
func WithReportLocation(loc *time.Location) ReportServiceOption {
	return func(s *reportService) {
		s.location = loc
	}
}

// NewReportService creates a new report service
func NewReportService(vouchers portssvc.VoucherReaderSvc, options ...ReportServiceOption) portssvc.ReportService {
	svc := &reportService{
		vouchers: vouchers,
		location: time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportService = (*reportService)(nil)

func validateRange(from, to time.Time) error {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("range end %s is before start %s: %w", to.Format(time.RFC3339), from.Format(time.RFC3339), apperrors.ErrValidation)
	}
	return nil
}

func (s *reportService) VoucherReport(ctx context.Context, filter domain.VoucherFilter, requestingUserID string) (*domain.VoucherReport, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermReportsView); err != nil {
		return nil, err
	}

	batch, err := s.vouchers.Snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.VoucherReport{
		Filter:       filter,
		Vouchers:     batch.Vouchers,
		Summary:      aggregation.Summarize(batch.Vouchers),
		SkippedCount: batch.SkippedCount(),
	}
	if report.SkippedCount > 0 {
		report.SkippedIDs = batch.SkippedIDs()
	}
	s.LogDebug(ctx, "Voucher report built",
		slog.String("book", string(filter.Book)),
		slog.Int("vouchers", len(report.Vouchers)),
		slog.Int("skipped", report.SkippedCount))
	return report, nil
}

func (s *reportService) Aggregate(ctx context.Context, filter domain.VoucherFilter, spec aggregation.Spec, requestingUserID string) (*aggregation.Result, int, error) {
	if spec.Location == nil {
		spec.Location = s.location
	}
	if err := spec.Validate(); err != nil {
		return nil, 0, err
	}
	if spec.Kind == aggregation.ByMonth {
		filter.From = time.Date(spec.Year-1, time.January, 1, 0, 0, 0, 0, spec.Location)
		filter.To = time.Date(spec.Year+1, time.January, 1, 0, 0, 0, 0, spec.Location).Add(-time.Nanosecond)
	}
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, 0, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermReportsView); err != nil {
		return nil, 0, err
	}

	batch, err := s.vouchers.Snapshot(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result, err := aggregation.Aggregate(batch.Vouchers, spec)
	if err != nil {
		return nil, 0, err
	}
	return &result, batch.SkippedCount(), nil
}

func (s *reportService) CashBalance(ctx context.Context, from, to time.Time, requestingUserID string) (*domain.CashBalance, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermReportsView); err != nil {
		return nil, err
	}

	balance := &domain.CashBalance{From: from, To: to}
	var receiptsSkipped, paymentsSkipped int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch, err := s.vouchers.Snapshot(gctx, domain.VoucherFilter{Book: domain.ReceiptBook, From: from, To: to})
		if err != nil {
			return err
		}
		balance.Receipts = aggregation.Summarize(batch.Vouchers).TotalAmount
		receiptsSkipped = batch.SkippedCount()
		return nil
	})
	g.Go(func() error {
		batch, err := s.vouchers.Snapshot(gctx, domain.VoucherFilter{Book: domain.PaymentBook, From: from, To: to})
		if err != nil {
			return err
		}
		balance.Payments = aggregation.Summarize(batch.Vouchers).TotalAmount
		paymentsSkipped = batch.SkippedCount()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute cash balance: %w", err)
	}

	balance.Balance = balance.Receipts - balance.Payments
	balance.Skipped = receiptsSkipped + paymentsSkipped
	return balance, nil
}

func (s *reportService) ExportReport(ctx context.Context, filter domain.VoucherFilter, format export.Format, w io.Writer, requestingUserID string) error {
	report, err := s.VoucherReport(ctx, filter, requestingUserID)
	if err != nil {
		return err
	}
	if err := export.WriteReport(w, format, report, s.location); err != nil {
		s.LogError(ctx, err, "Failed to write report", slog.String("format", string(format)))
		return fmt.Errorf("failed to write report: %w", err)
	}
	s.LogInfo(ctx, "Report exported",
		slog.String("book", string(filter.Book)),
		slog.String("format", string(format)),
		slog.Int("rows", len(report.Vouchers)))
	return nil
}
