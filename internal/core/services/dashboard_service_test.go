package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/cache"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/core/services"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	mockVouchers *MockVoucherReader
	service      portssvc.DashboardService
	now          time.Time
	period       normalizer.Batch
	years        normalizer.Batch
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockVouchers = new(MockVoucherReader)
	suite.now = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewDashboardService(
		suite.mockVouchers,
		services.WithDashboardCache(cache.NewLRUCache[domain.DashboardSnapshot](8, time.Minute)),
		services.WithDashboardLocation(time.UTC),
		services.WithExcludedHeads([]string{"ARY GOLD STREET (Mart)"}),
		services.WithDashboardClock(func() time.Time { return suite.now }),
	)

	mart := voucher("m", suite.now, domain.StatusCompleted, "Sara", 900_000)
	mart.PaymentHead = "ARY GOLD STREET (Mart)"
	suite.period = normalizer.Batch{
		Vouchers: []domain.Voucher{
			voucher("a", suite.now, domain.StatusCompleted, "Ali", 5_000),
			voucher("b", suite.now.AddDate(0, 0, -1), domain.StatusPending, "Sara", 15_000),
			voucher("c", suite.now.AddDate(0, 0, -2), domain.StatusCompleted, "Ali", 75_000),
			mart,
		},
		Skipped: []normalizer.SkippedRecord{{ID: "x", Field: domain.FieldEntryDate}},
	}
	suite.years = normalizer.Batch{Vouchers: []domain.Voucher{
		voucher("y1", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), domain.StatusCompleted, "Ali", 100),
		voucher("y0", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), domain.StatusCompleted, "Ali", 40),
	}}
}

func periodFilter(from time.Time) any {
	return mock.MatchedBy(func(f domain.VoucherFilter) bool {
		return f.From.Equal(from)
	})
}

func (suite *DashboardServiceTestSuite) expectSnapshots(periodDays int) {
	today := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	suite.mockVouchers.On("Snapshot", mock.Anything, periodFilter(today.AddDate(0, 0, -(periodDays-1)))).Return(suite.period, nil).Once()
	suite.mockVouchers.On("Snapshot", mock.Anything, periodFilter(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))).Return(suite.years, nil).Once()
}

func (suite *DashboardServiceTestSuite) TestDashboard_BuildsEveryPanel() {
	suite.expectSnapshots(7)

	snap, err := suite.service.Dashboard(context.Background(), domain.ReceiptBook, 7, "user-1")

	suite.Require().NoError(err)
	suite.Equal(7, snap.PeriodDays)
	suite.True(snap.To.Equal(time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)))
	suite.Equal(4, snap.KPIs.TotalVouchers)
	suite.Equal(int64(995_000), snap.KPIs.TotalAmount)
	suite.Equal(1, snap.KPIs.PendingCount)
	suite.Equal(int64(15_000), snap.KPIs.PendingAmount)
	suite.Equal(75.0, snap.KPIs.CompletionRate)
	suite.False(snap.KPIs.MeetsTarget)
	suite.Equal(1, snap.SkippedCount)

	suite.Len(snap.Weekdays, 7)
	suite.Len(snap.AmountRanges, 5)
	suite.Len(snap.DailyTrend, 3)
	suite.Require().Len(snap.PaymentHeads, 1)
	suite.Equal("General", snap.PaymentHeads[0].Key)
	suite.Require().Len(snap.PointPersons, 2)
	suite.Equal("Sara", snap.PointPersons[0].Key)
	suite.Equal(int64(100), snap.CurrentYear[0].AmountSum)
	suite.Equal(int64(40), snap.PreviousYear[0].AmountSum)
	suite.Equal("Sara", snap.TopPerformers[0].PointPerson)
}

func (suite *DashboardServiceTestSuite) TestDashboard_ServedFromCacheUntilRefresh() {
	ctx := context.Background()
	suite.expectSnapshots(30)

	first, err := suite.service.Dashboard(ctx, domain.ReceiptBook, 0, "user-1")
	suite.Require().NoError(err)
	suite.Equal(services.DefaultDashboardPeriod, first.PeriodDays)

	_, err = suite.service.Dashboard(ctx, domain.ReceiptBook, 30, "user-1")
	suite.Require().NoError(err)
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 2)

	suite.expectSnapshots(30)
	suite.Require().NoError(suite.service.Refresh(ctx, domain.ReceiptBook))
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 4)

	_, err = suite.service.Dashboard(ctx, domain.ReceiptBook, 30, "user-1")
	suite.Require().NoError(err)
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 4)
}

func (suite *DashboardServiceTestSuite) TestRefresh_KeepsOtherBookCached() {
	ctx := context.Background()

	suite.expectSnapshots(30)
	_, err := suite.service.Dashboard(ctx, domain.PaymentBook, 30, "user-1")
	suite.Require().NoError(err)
	suite.expectSnapshots(7)
	_, err = suite.service.Dashboard(ctx, domain.ReceiptBook, 7, "user-1")
	suite.Require().NoError(err)
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 4)

	suite.expectSnapshots(30)
	suite.Require().NoError(suite.service.Refresh(ctx, domain.ReceiptBook))
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 6)

	_, err = suite.service.Dashboard(ctx, domain.PaymentBook, 30, "user-1")
	suite.Require().NoError(err)
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 6)

	suite.expectSnapshots(7)
	_, err = suite.service.Dashboard(ctx, domain.ReceiptBook, 7, "user-1")
	suite.Require().NoError(err)
	suite.mockVouchers.AssertNumberOfCalls(suite.T(), "Snapshot", 8)
}

func (suite *DashboardServiceTestSuite) TestDashboard_InvalidPeriod() {
	_, err := suite.service.Dashboard(context.Background(), domain.ReceiptBook, 366, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Dashboard(context.Background(), domain.ReceiptBook, -1, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Dashboard(context.Background(), domain.Book("zz"), 7, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DashboardServiceTestSuite) TestDashboard_Forbidden() {
	authorizer := new(MockAuthorizer)
	authorizer.On("Authorize", mock.Anything, "user-2", domain.PermDashboardView).Return(apperrors.ErrForbidden).Once()
	svc := services.NewDashboardService(suite.mockVouchers, services.WithDashboardAuthorizer(authorizer))

	_, err := svc.Dashboard(context.Background(), domain.PaymentBook, 7, "user-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockVouchers.AssertNotCalled(suite.T(), "Snapshot", mock.Anything, mock.Anything)
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
