package aggregation

import (
	"sort"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rate is part/total as a percentage rounded to one decimal place; 0 when total is 0.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		InexactFloat64()
}

// CompletionRate is the share of Completed vouchers, in percent.
func CompletionRate(vouchers []domain.Voucher) float64 {
	completed := 0
	for _, v := range vouchers {
		if v.PaymentStatus == domain.StatusCompleted {
			completed++
		}
	}
	return Rate(completed, len(vouchers))
}

// Summarize computes the totals shown on report summary cards.
func Summarize(vouchers []domain.Voucher) domain.ReportSummary {
	var s domain.ReportSummary
	for _, v := range vouchers {
		s.TotalCount++
		s.TotalAmount += v.Amount
		switch v.PaymentStatus {
		case domain.StatusCompleted:
			s.Completed.Count++
			s.Completed.Amount += v.Amount
		case domain.StatusPending:
			s.Pending.Count++
			s.Pending.Amount += v.Amount
		case domain.StatusFailed:
			s.Failed.Count++
			s.Failed.Amount += v.Amount
		}
	}
	s.CompletionRate = Rate(s.Completed.Count, s.TotalCount)
	return s
}

// DailyTrend counts vouchers per status for each day, oldest day first.
func DailyTrend(vouchers []domain.Voucher, loc *time.Location) []domain.TrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	days := make(map[string]*domain.TrendPoint)
	for _, v := range vouchers {
		key := DayKey(v.EntryDate, loc)
		p, ok := days[key]
		if !ok {
			p = &domain.TrendPoint{Date: key}
			days[key] = p
		}
		switch v.PaymentStatus {
		case domain.StatusCompleted:
			p.Completed++
		case domain.StatusPending:
			p.Pending++
		case domain.StatusFailed:
			p.Failed++
		}
		p.Amount += v.Amount
	}

	points := make([]domain.TrendPoint, 0, len(days))
	for _, p := range days {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// TopPerformers ranks point persons by amount handled. PaymentFrom is the first
// one seen for that person. n <= 0 returns every person.
func TopPerformers(vouchers []domain.Voucher, n int) []domain.Performer {
	rows := make([]domain.Performer, 0)
	index := make(map[string]int)
	for _, v := range vouchers {
		person := CategoryKey(v, ByPointPerson)
		i, ok := index[person]
		if !ok {
			from := v.PaymentFrom
			if from == "" {
				from = "N/A"
			}
			i = len(rows)
			index[person] = i
			rows = append(rows, domain.Performer{PointPerson: person, PaymentFrom: from})
		}
		rows[i].Count++
		rows[i].Amount += v.Amount
		if v.PaymentStatus == domain.StatusCompleted {
			rows[i].Completed++
		}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Amount > rows[b].Amount })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	for i := range rows {
		rows[i].CompletionRate = Rate(rows[i].Completed, rows[i].Count)
	}
	return rows
}
