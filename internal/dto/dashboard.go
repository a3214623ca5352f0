package dto

import (
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils"
)

// DashboardLabels are preformatted KPI strings for the dashboard cards.
type DashboardLabels struct {
	TotalAmount      string `json:"totalAmount"`
	TotalAmountShort string `json:"totalAmountShort"`
	PendingAmount    string `json:"pendingAmount"`
	CompletionRate   string `json:"completionRate"`
}

// DashboardResponse is a dashboard snapshot plus display labels.
type DashboardResponse struct {
	domain.DashboardSnapshot
	Labels DashboardLabels `json:"labels"`
}

// ToDashboardResponse converts a snapshot to its DTO.
func ToDashboardResponse(s *domain.DashboardSnapshot) DashboardResponse {
	return DashboardResponse{
		DashboardSnapshot: *s,
		Labels: DashboardLabels{
			TotalAmount:      utils.FormatPKR(s.KPIs.TotalAmount),
			TotalAmountShort: utils.FormatCompactPKR(s.KPIs.TotalAmount),
			PendingAmount:    utils.FormatPKR(s.KPIs.PendingAmount),
			CompletionRate:   utils.FormatPercent(s.KPIs.CompletionRate),
		},
	}
}
