package domain

import "time"

// Bucket is one group of an aggregation: a key with its voucher count and amount total.
// Index is the key's position in fixed-order groupings (weekday, month, amount range).
type Bucket struct {
	Key       string `json:"key"`
	Index     int    `json:"index"`
	Count     int    `json:"count"`
	AmountSum int64  `json:"amountSum"`
}

// StatusTotals counts and sums the vouchers of one payment status.
type StatusTotals struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

// ReportSummary is the summary card block of a voucher report.
type ReportSummary struct {
	TotalCount     int          `json:"totalCount"`
	TotalAmount    int64        `json:"totalAmount"`
	Completed      StatusTotals `json:"completed"`
	Pending        StatusTotals `json:"pending"`
	Failed         StatusTotals `json:"failed"`
	CompletionRate float64      `json:"completionRate"`
}

// TrendPoint is one day of the daily trend series.
type TrendPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Failed    int    `json:"failed"`
	Amount    int64  `json:"amount"`
}

// Performer is a row of the top performers table.
type Performer struct {
	PointPerson    string  `json:"pointPerson"`
	PaymentFrom    string  `json:"paymentFrom"`
	Count          int     `json:"count"`
	Amount         int64   `json:"amount"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

// VoucherReport is the filtered voucher list with its summary.
type VoucherReport struct {
	Filter       VoucherFilter
	Vouchers     []Voucher
	Summary      ReportSummary
	SkippedCount int
	SkippedIDs   []string
}

// CashBalance is receipts minus payments over a period.
type CashBalance struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Receipts int64     `json:"receipts"`
	Payments int64     `json:"payments"`
	Balance  int64     `json:"balance"`
	Skipped  int       `json:"skipped"`
}

// DashboardKPIs are the headline figures of the dashboard.
type DashboardKPIs struct {
	TotalVouchers  int     `json:"totalVouchers"`
	TotalAmount    int64   `json:"totalAmount"`
	PendingCount   int     `json:"pendingCount"`
	PendingAmount  int64   `json:"pendingAmount"`
	CompletionRate float64 `json:"completionRate"`
	MeetsTarget    bool    `json:"meetsTarget"`
}

// DashboardSnapshot is a full recomputation of every dashboard panel for one book and period.
type DashboardSnapshot struct {
	Book          Book          `json:"book"`
	PeriodDays    int           `json:"periodDays"`
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	GeneratedAt   time.Time     `json:"generatedAt"`
	KPIs          DashboardKPIs `json:"kpis"`
	DailyTrend    []TrendPoint  `json:"dailyTrend"`
	Status        []Bucket      `json:"status"`
	PaymentHeads  []Bucket      `json:"paymentHeads"`
	PointPersons  []Bucket      `json:"pointPersons"`
	PaymentModes  []Bucket      `json:"paymentModes"`
	Weekdays      []Bucket      `json:"weekdays"`
	AmountRanges  []Bucket      `json:"amountRanges"`
	CurrentYear   []Bucket      `json:"currentYear"`
	PreviousYear  []Bucket      `json:"previousYear"`
	TopPerformers []Performer   `json:"topPerformers"`
	SkippedCount  int           `json:"skippedCount"`
}
