package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/cache"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDashboardPeriod = 30
	MaxDashboardPeriod     = 365
	// CompletionTarget is the completion rate, in percent, the KPI card is measured against.
	CompletionTarget = 95.0
)

// dashboardService recomputes every dashboard panel from a fresh voucher snapshot.
type dashboardService struct {
	BaseService
	vouchers      portssvc.VoucherReaderSvc
	cache         cache.Cache[domain.DashboardSnapshot]
	location      *time.Location
	excludedHeads []string
}

// DashboardServiceOption configures the dashboard service.
type DashboardServiceOption func(*dashboardService)

// WithDashboardAuthorizer checks permissions through authorizer.
func WithDashboardAuthorizer(authorizer portssvc.AccessAuthorizerSvc) DashboardServiceOption {
	return func(s *dashboardService) {
		s.Authorizer = authorizer
	}
}

// WithDashboardCache keeps built snapshots in c.
func WithDashboardCache(c cache.Cache[domain.DashboardSnapshot]) DashboardServiceOption {
	return func(s *dashboardService) {
		s.cache = c
	}
}

// WithDashboardLocation sets the zone used for day, weekday and month boundaries.
func WithDashboardLocation(loc *time.Location) DashboardServiceOption {
	return func(s *dashboardService) {
		s.location = loc
	}
}

// WithExcludedHeads hides the named payment heads from the head leaderboard.
func WithExcludedHeads(heads []string) DashboardServiceOption {
	return func(s *dashboardService) {
		s.excludedHeads = heads
	}
}

// WithDashboardClock replaces time.Now.
func WithDashboardClock(now func() time.Time) DashboardServiceOption {
	return func(s *dashboardService) {
		s.Clock = now
	}
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(vouchers portssvc.VoucherReaderSvc, options ...DashboardServiceOption) portssvc.DashboardService {
	svc := &dashboardService{
		vouchers: vouchers,
		location: time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DashboardService = (*dashboardService)(nil)

func cacheKey(book domain.Book, periodDays int) string {
	return fmt.Sprintf("%s:%d", book, periodDays)
}

func (s *dashboardService) Dashboard(ctx context.Context, book domain.Book, periodDays int, requestingUserID string) (*domain.DashboardSnapshot, error) {
	if err := validateBook(book); err != nil {
		return nil, err
	}
	if periodDays == 0 {
		periodDays = DefaultDashboardPeriod
	}
	if periodDays < 0 || periodDays > MaxDashboardPeriod {
		return nil, fmt.Errorf("period must be between 1 and %d days, got %d: %w", MaxDashboardPeriod, periodDays, apperrors.ErrValidation)
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermDashboardView); err != nil {
		return nil, err
	}

	key := cacheKey(book, periodDays)
	if s.cache != nil {
		if snap, ok := s.cache.Get(key); ok {
			s.LogDebug(ctx, "Dashboard served from cache", slog.String("key", key))
			return &snap, nil
		}
	}

	snap, err := s.build(ctx, book, periodDays)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, *snap)
	}
	return snap, nil
}

func (s *dashboardService) Refresh(ctx context.Context, book domain.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.DeletePrefix(string(book) + ":")
	}
	snap, err := s.build(ctx, book, DefaultDashboardPeriod)
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(cacheKey(book, DefaultDashboardPeriod), *snap)
	}
	s.LogInfo(ctx, "Dashboard refreshed", slog.String("book", string(book)), slog.Int("vouchers", snap.KPIs.TotalVouchers))
	return nil
}

// build fetches the period and the two-year comparison window concurrently and
// recomputes every panel.
func (s *dashboardService) build(ctx context.Context, book domain.Book, periodDays int) (*domain.DashboardSnapshot, error) {
	now := s.Now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	from := today.AddDate(0, 0, -(periodDays - 1))
	to := today.AddDate(0, 0, 1).Add(-time.Nanosecond)

	year := now.Year()
	yearFrom := time.Date(year-1, time.January, 1, 0, 0, 0, 0, s.location)
	yearTo := time.Date(year+1, time.January, 1, 0, 0, 0, 0, s.location).Add(-time.Nanosecond)

	var period, years normalizer.Batch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		period, err = s.vouchers.Snapshot(gctx, domain.VoucherFilter{Book: book, From: from, To: to})
		return err
	})
	g.Go(func() error {
		var err error
		years, err = s.vouchers.Snapshot(gctx, domain.VoucherFilter{Book: book, From: yearFrom, To: yearTo})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	vouchers := period.Vouchers
	summary := aggregation.Summarize(vouchers)
	snap := &domain.DashboardSnapshot{
		Book:        book,
		PeriodDays:  periodDays,
		From:        from,
		To:          to,
		GeneratedAt: now,
		KPIs: domain.DashboardKPIs{
			TotalVouchers:  summary.TotalCount,
			TotalAmount:    summary.TotalAmount,
			PendingCount:   summary.Pending.Count,
			PendingAmount:  summary.Pending.Amount,
			CompletionRate: summary.CompletionRate,
			MeetsTarget:    summary.CompletionRate >= CompletionTarget,
		},
		DailyTrend:    aggregation.DailyTrend(vouchers, s.location),
		TopPerformers: aggregation.TopPerformers(vouchers, aggregation.DefaultLeaderboardSize),
		SkippedCount:  period.SkippedCount(),
	}

	panels := []struct {
		spec aggregation.Spec
		dst  *[]domain.Bucket
	}{
		{aggregation.Spec{Kind: aggregation.ByPaymentStatus}, &snap.Status},
		{aggregation.Spec{Kind: aggregation.ByPaymentHead, Leaderboard: true, Limit: aggregation.DefaultLeaderboardSize, Exclude: s.excludedHeads}, &snap.PaymentHeads},
		{aggregation.Spec{Kind: aggregation.ByPointPerson, Leaderboard: true, Limit: aggregation.DefaultLeaderboardSize}, &snap.PointPersons},
		{aggregation.Spec{Kind: aggregation.ByPaymentMode}, &snap.PaymentModes},
		{aggregation.Spec{Kind: aggregation.ByWeekday}, &snap.Weekdays},
		{aggregation.Spec{Kind: aggregation.ByAmountRange}, &snap.AmountRanges},
	}
	for _, p := range panels {
		p.spec.Location = s.location
		res, err := aggregation.Aggregate(vouchers, p.spec)
		if err != nil {
			return nil, err
		}
		*p.dst = res.Buckets
	}

	months, err := aggregation.Aggregate(years.Vouchers, aggregation.Spec{Kind: aggregation.ByMonth, Year: year, Location: s.location})
	if err != nil {
		return nil, err
	}
	snap.CurrentYear = months.Buckets
	snap.PreviousYear = months.Previous

	if snap.SkippedCount > 0 {
		s.LogWarn(ctx, "Dashboard built with skipped vouchers",
			slog.String("book", string(book)),
			slog.Int("skipped", snap.SkippedCount))
	}
	return snap, nil
}
