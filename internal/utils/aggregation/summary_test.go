package aggregation_test

import (
	"testing"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withStatus(status domain.PaymentStatus, amount int64) domain.Voucher {
	return domain.Voucher{PaymentStatus: status, Amount: amount}
}

func TestCompletionRate_Empty(t *testing.T) {
	assert.Equal(t, 0.0, aggregation.CompletionRate(nil))
	assert.Equal(t, 0.0, aggregation.CompletionRate([]domain.Voucher{}))
}

func TestCompletionRate_NineOfTen(t *testing.T) {
	vouchers := make([]domain.Voucher, 0, 10)
	for i := 0; i < 9; i++ {
		vouchers = append(vouchers, withStatus(domain.StatusCompleted, 1))
	}
	vouchers = append(vouchers, withStatus(domain.StatusPending, 1))

	assert.Equal(t, 90.0, aggregation.CompletionRate(vouchers))
}

func TestRate_RoundsToOneDecimal(t *testing.T) {
	assert.Equal(t, 66.7, aggregation.Rate(2, 3))
	assert.Equal(t, 33.3, aggregation.Rate(1, 3))
	assert.Equal(t, 100.0, aggregation.Rate(4, 4))
	assert.Equal(t, 0.0, aggregation.Rate(3, 0))
}

func TestSummarize(t *testing.T) {
	vouchers := []domain.Voucher{
		withStatus(domain.StatusCompleted, 100),
		withStatus(domain.StatusCompleted, 50),
		withStatus(domain.StatusPending, 20),
		withStatus(domain.StatusFailed, 5),
		withStatus("On Hold", 1),
	}

	s := aggregation.Summarize(vouchers)

	assert.Equal(t, 5, s.TotalCount)
	assert.Equal(t, int64(176), s.TotalAmount)
	assert.Equal(t, domain.StatusTotals{Count: 2, Amount: 150}, s.Completed)
	assert.Equal(t, domain.StatusTotals{Count: 1, Amount: 20}, s.Pending)
	assert.Equal(t, domain.StatusTotals{Count: 1, Amount: 5}, s.Failed)
	assert.Equal(t, 40.0, s.CompletionRate)
}

func TestDailyTrend(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	vouchers := []domain.Voucher{
		{EntryDate: day2, PaymentStatus: domain.StatusPending, Amount: 10},
		{EntryDate: day1, PaymentStatus: domain.StatusCompleted, Amount: 20},
		{EntryDate: day1, PaymentStatus: domain.StatusFailed, Amount: 30},
	}

	points := aggregation.DailyTrend(vouchers, nil)

	require.Len(t, points, 2)
	assert.Equal(t, domain.TrendPoint{Date: "2024-05-01", Completed: 1, Failed: 1, Amount: 50}, points[0])
	assert.Equal(t, domain.TrendPoint{Date: "2024-05-02", Pending: 1, Amount: 10}, points[1])
}

func TestTopPerformers(t *testing.T) {
	vouchers := []domain.Voucher{
		{PointPerson: "Ali", PaymentFrom: "Branch 1", PaymentStatus: domain.StatusCompleted, Amount: 300},
		{PointPerson: "Sara", PaymentFrom: "Branch 2", PaymentStatus: domain.StatusPending, Amount: 1000},
		{PointPerson: "Ali", PaymentFrom: "Branch 9", PaymentStatus: domain.StatusPending, Amount: 300},
		{PointPerson: "", PaymentStatus: domain.StatusCompleted, Amount: 5},
	}

	rows := aggregation.TopPerformers(vouchers, 2)

	require.Len(t, rows, 2)
	assert.Equal(t, "Sara", rows[0].PointPerson)
	assert.Equal(t, 0.0, rows[0].CompletionRate)
	assert.Equal(t, "Ali", rows[1].PointPerson)
	assert.Equal(t, "Branch 1", rows[1].PaymentFrom)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, int64(600), rows[1].Amount)
	assert.Equal(t, 50.0, rows[1].CompletionRate)

	all := aggregation.TopPerformers(vouchers, 0)
	require.Len(t, all, 3)
	assert.Equal(t, "Unknown", all[2].PointPerson)
	assert.Equal(t, "N/A", all[2].PaymentFrom)
}
