package handlers_test

import (
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/export"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) marchFilter(book domain.Book) domain.VoucherFilter {
	return domain.VoucherFilter{
		Book: book,
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, suite.location),
		To:   time.Date(2025, 3, 31, 23, 59, 59, 999999999, suite.location),
	}
}

func (suite *HandlerTestSuite) TestVoucherReport() {
	filter := suite.marchFilter(domain.ReceiptBook)
	filter.Status = domain.StatusCompleted
	v := sampleVoucher()
	report := &domain.VoucherReport{
		Filter:   filter,
		Vouchers: []domain.Voucher{*v},
		Summary: domain.ReportSummary{
			TotalCount:     1,
			TotalAmount:    v.Amount,
			Completed:      domain.StatusTotals{Count: 1, Amount: v.Amount},
			CompletionRate: 100,
		},
	}
	suite.reports.On("VoucherReport", mock.Anything, filter, testUserID).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cr?from=2025-03-01&to=2025-03-31&status=Completed", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VoucherReportResponse
	suite.decode(w, &resp)
	suite.Equal("2025-03-01", resp.FromDate)
	suite.Equal("2025-03-31", resp.ToDate)
	suite.Equal(1, resp.Summary.TotalCount)
	suite.Equal("10300", resp.Summary.TotalAmount.String())
	suite.Equal(100.0, resp.Summary.CompletionRate)
	suite.Len(resp.Vouchers, 1)
}

func (suite *HandlerTestSuite) TestVoucherReport_DefaultsToCurrentMonth() {
	suite.reports.On("VoucherReport", mock.Anything,
		mock.MatchedBy(func(f domain.VoucherFilter) bool {
			from := f.From.In(suite.location)
			to := f.To.In(suite.location)
			today := time.Now().In(suite.location)
			return from.Day() == 1 && from.Hour() == 0 && from.Month() == today.Month() &&
				to.Day() == today.Day() && to.Hour() == 23
		}),
		testUserID,
	).Return(&domain.VoucherReport{Filter: domain.VoucherFilter{Book: domain.PaymentBook}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dr", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestVoucherReport_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/reports/cr?from=03/01/2025", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAggregate_Leaderboard() {
	suite.reports.On("Aggregate", mock.Anything, suite.marchFilter(domain.ReceiptBook),
		mock.MatchedBy(func(s aggregation.Spec) bool {
			return s.Kind == aggregation.ByPointPerson && s.Leaderboard && s.Limit == 2 &&
				s.Location == suite.location && len(s.Exclude) == 1 && s.Exclude[0] == "Unknown"
		}),
		testUserID,
	).Return(&aggregation.Result{
		Kind: aggregation.ByPointPerson,
		Buckets: []domain.Bucket{
			{Key: "B", Count: 3, AmountSum: 900},
			{Key: "A", Count: 2, AmountSum: 500},
		},
	}, 1, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cr/aggregate?groupBy=pointPerson&leaderboard=true&limit=2&exclude=Unknown&from=2025-03-01&to=2025-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AggregateResponse
	suite.decode(w, &resp)
	suite.Equal("pointPerson", resp.GroupBy)
	suite.Require().Len(resp.Buckets, 2)
	suite.Equal("B", resp.Buckets[0].Key)
	suite.Equal("A", resp.Buckets[1].Key)
	suite.Equal(1, resp.SkippedCount)
}

func (suite *HandlerTestSuite) TestAggregate_MonthDefaultsToCurrentYear() {
	year := time.Now().In(suite.location).Year()
	suite.reports.On("Aggregate", mock.Anything, mock.Anything,
		mock.MatchedBy(func(s aggregation.Spec) bool {
			return s.Kind == aggregation.ByMonth && s.Year == year
		}),
		testUserID,
	).Return(&aggregation.Result{Kind: aggregation.ByMonth}, 0, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dr/aggregate?groupBy=month", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestAggregate_UnknownGrouping() {
	w := suite.do(http.MethodGet, "/api/v1/reports/cr/aggregate?groupBy=color", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "invalid grouping spec")
	suite.reports.AssertNotCalled(suite.T(), "Aggregate")
}

func (suite *HandlerTestSuite) TestAggregate_MissingGrouping() {
	w := suite.do(http.MethodGet, "/api/v1/reports/cr/aggregate", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAggregate_ServiceRejectsSpec() {
	suite.reports.On("Aggregate", mock.Anything, mock.Anything, mock.Anything, testUserID).
		Return(nil, 0, apperrors.ErrInvalidGroupingSpec).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cr/aggregate?groupBy=weekday&leaderboard=true", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestExportReport_CSV() {
	suite.reports.On("ExportReport", mock.Anything, suite.marchFilter(domain.ReceiptBook), export.FormatCSV, mock.Anything, testUserID).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(3).(io.Writer), "Slip No,Date\n")
		}).
		Return(nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cr/export?format=csv&from=2025-03-01&to=2025-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "voucher_report_cr_20250301_20250331.csv")
	suite.Equal("Slip No,Date\n", w.Body.String())
}

func (suite *HandlerTestSuite) TestExportReport_UnknownFormat() {
	w := suite.do(http.MethodGet, "/api/v1/reports/cr/export?format=pdf", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestExportReport_FailureIsJSON() {
	suite.reports.On("ExportReport", mock.Anything, mock.Anything, export.FormatXLSX, mock.Anything, testUserID).
		Return(apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dr/export", nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Empty(w.Header().Get("Content-Disposition"))
}

func (suite *HandlerTestSuite) TestCashBalance() {
	filter := suite.marchFilter("")
	suite.reports.On("CashBalance", mock.Anything, filter.From, filter.To, testUserID).Return(&domain.CashBalance{
		From:     filter.From,
		To:       filter.To,
		Receipts: 50000,
		Payments: 20000,
		Balance:  30000,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cash-balance?from=2025-03-01&to=2025-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CashBalanceResponse
	suite.decode(w, &resp)
	suite.Equal("30000", resp.Balance.String())
	suite.Equal("2025-03-31", resp.ToDate)
}

func (suite *HandlerTestSuite) TestDashboard() {
	snap := &domain.DashboardSnapshot{
		Book:       domain.ReceiptBook,
		PeriodDays: 7,
		KPIs:       domain.DashboardKPIs{TotalVouchers: 10, TotalAmount: 17837, CompletionRate: 90, MeetsTarget: false},
	}
	suite.dashboard.On("Dashboard", mock.Anything, domain.ReceiptBook, 7, testUserID).Return(snap, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/cr?period=7", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DashboardResponse
	suite.decode(w, &resp)
	suite.Equal(7, resp.PeriodDays)
	suite.Equal(10, resp.KPIs.TotalVouchers)
	suite.Equal("90.0%", resp.Labels.CompletionRate)
}

func (suite *HandlerTestSuite) TestDashboard_DefaultPeriod() {
	suite.dashboard.On("Dashboard", mock.Anything, domain.PaymentBook, 0, testUserID).
		Return(&domain.DashboardSnapshot{Book: domain.PaymentBook, PeriodDays: 30}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/dr", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDashboard_BadPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/dashboard/cr?period=week", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.dashboard.On("Dashboard", mock.Anything, domain.ReceiptBook, 400, testUserID).
		Return(nil, apperrors.ErrValidation).Once()
	w = suite.do(http.MethodGet, "/api/v1/dashboard/cr?period=400", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
