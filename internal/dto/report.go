package dto

import (
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/shopspring/decimal"
)

// StatusTotalsResponse is the count and amount of one status.
type StatusTotalsResponse struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ReportSummaryResponse represents the summary cards of a voucher report
type ReportSummaryResponse struct {
	TotalCount           int                  `json:"totalCount"`
	TotalAmount          decimal.Decimal      `json:"totalAmount"`
	TotalAmountFormatted string               `json:"totalAmountFormatted"`
	Completed            StatusTotalsResponse `json:"completed"`
	Pending              StatusTotalsResponse `json:"pending"`
	Failed               StatusTotalsResponse `json:"failed"`
	CompletionRate       float64              `json:"completionRate"`
}

// VoucherReportResponse represents the voucher report response
type VoucherReportResponse struct {
	Book         domain.Book           `json:"book"`
	FromDate     string                `json:"fromDate"`
	ToDate       string                `json:"toDate"`
	Status       string                `json:"status,omitempty"`
	Summary      ReportSummaryResponse `json:"summary"`
	Vouchers     []VoucherResponse     `json:"vouchers"`
	SkippedCount int                   `json:"skippedCount"`
	SkippedIDs   []string              `json:"skippedIds,omitempty"`
}

// BucketResponse represents one group of an aggregation
type BucketResponse struct {
	Key       string          `json:"key"`
	Index     int             `json:"index"`
	Count     int             `json:"count"`
	AmountSum decimal.Decimal `json:"amountSum"`
}

// AggregateResponse represents the output of a grouping request
type AggregateResponse struct {
	GroupBy      string           `json:"groupBy"`
	Buckets      []BucketResponse `json:"buckets"`
	Previous     []BucketResponse `json:"previous,omitempty"`
	SkippedCount int              `json:"skippedCount"`
}

// CashBalanceResponse represents receipts minus payments for a period
type CashBalanceResponse struct {
	FromDate         string          `json:"fromDate"`
	ToDate           string          `json:"toDate"`
	Receipts         decimal.Decimal `json:"receipts"`
	Payments         decimal.Decimal `json:"payments"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceFormatted string          `json:"balanceFormatted"`
	SkippedCount     int             `json:"skippedCount"`
}

func toStatusTotals(t domain.StatusTotals) StatusTotalsResponse {
	return StatusTotalsResponse{Count: t.Count, Amount: decimal.NewFromInt(t.Amount)}
}

// ToReportSummaryResponse converts a domain summary to its DTO.
func ToReportSummaryResponse(s domain.ReportSummary) ReportSummaryResponse {
	return ReportSummaryResponse{
		TotalCount:           s.TotalCount,
		TotalAmount:          decimal.NewFromInt(s.TotalAmount),
		TotalAmountFormatted: utils.FormatPKR(s.TotalAmount),
		Completed:            toStatusTotals(s.Completed),
		Pending:              toStatusTotals(s.Pending),
		Failed:               toStatusTotals(s.Failed),
		CompletionRate:       s.CompletionRate,
	}
}

// ToVoucherReportResponse converts a domain report to a DTO response
func ToVoucherReportResponse(r *domain.VoucherReport, loc *time.Location) VoucherReportResponse {
	return VoucherReportResponse{
		Book:         r.Filter.Book,
		FromDate:     r.Filter.From.In(loc).Format("2006-01-02"),
		ToDate:       r.Filter.To.In(loc).Format("2006-01-02"),
		Status:       string(r.Filter.Status),
		Summary:      ToReportSummaryResponse(r.Summary),
		Vouchers:     ToVoucherResponses(r.Vouchers),
		SkippedCount: r.SkippedCount,
		SkippedIDs:   r.SkippedIDs,
	}
}

// ToBucketResponses converts domain buckets to DTOs.
func ToBucketResponses(buckets []domain.Bucket) []BucketResponse {
	if buckets == nil {
		return nil
	}
	res := make([]BucketResponse, len(buckets))
	for i, b := range buckets {
		res[i] = BucketResponse{
			Key:       b.Key,
			Index:     b.Index,
			Count:     b.Count,
			AmountSum: decimal.NewFromInt(b.AmountSum),
		}
	}
	return res
}

// ToAggregateResponse converts an aggregation result to its DTO.
func ToAggregateResponse(r *aggregation.Result, skipped int) AggregateResponse {
	return AggregateResponse{
		GroupBy:      string(r.Kind),
		Buckets:      ToBucketResponses(r.Buckets),
		Previous:     ToBucketResponses(r.Previous),
		SkippedCount: skipped,
	}
}

// ToCashBalanceResponse converts a domain cash balance to its DTO.
func ToCashBalanceResponse(b *domain.CashBalance, loc *time.Location) CashBalanceResponse {
	return CashBalanceResponse{
		FromDate:         b.From.In(loc).Format("2006-01-02"),
		ToDate:           b.To.In(loc).Format("2006-01-02"),
		Receipts:         decimal.NewFromInt(b.Receipts),
		Payments:         decimal.NewFromInt(b.Payments),
		Balance:          decimal.NewFromInt(b.Balance),
		BalanceFormatted: utils.FormatPKR(b.Balance),
		SkippedCount:     b.Skipped,
	}
}

// ReportQueryParams are the date filters shared by report endpoints.
type ReportQueryParams struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,max=50"`
}

// AggregateParams selects the grouping of an aggregate report.
type AggregateParams struct {
	ReportQueryParams
	GroupBy     string   `form:"groupBy" binding:"required"`
	Leaderboard bool     `form:"leaderboard"`
	Limit       int      `form:"limit" binding:"omitempty,min=0,max=1000"`
	Year        int      `form:"year" binding:"omitempty,min=1970,max=9999"`
	Exclude     []string `form:"exclude"`
}
