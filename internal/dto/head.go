package dto

import (
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// CreateHeadRequest defines the data needed to create a payment head.
type CreateHeadRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"omitempty,max=20"`
	Status      string `json:"status" binding:"required,headstatus"`
	Category    string `json:"category" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateHeadRequest defines the changeable fields of a head; nil fields are left as is.
type UpdateHeadRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Code        *string `json:"code" binding:"omitempty,max=20"`
	Status      *string `json:"status" binding:"omitempty,headstatus"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// HeadResponse defines the data returned for a head.
type HeadResponse struct {
	HeadID        string            `json:"headID"`
	Name          string            `json:"name"`
	Code          string            `json:"code"`
	Status        domain.HeadStatus `json:"status"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy string            `json:"lastUpdatedBy"`
}

// ToHeadResponse converts a domain.Head to HeadResponse DTO
func ToHeadResponse(h *domain.Head) HeadResponse {
	return HeadResponse{
		HeadID:        h.HeadID,
		Name:          h.Name,
		Code:          h.Code,
		Status:        h.Status,
		Category:      h.Category,
		Description:   h.Description,
		CreatedAt:     h.CreatedAt,
		CreatedBy:     h.CreatedBy,
		LastUpdatedAt: h.LastUpdatedAt,
		LastUpdatedBy: h.LastUpdatedBy,
	}
}

// ToListHeadResponse converts a slice of domain.Head to a slice of HeadResponse DTOs
func ToListHeadResponse(heads []domain.Head) []HeadResponse {
	res := make([]HeadResponse, len(heads))
	for i := range heads {
		res[i] = ToHeadResponse(&heads[i])
	}
	return res
}
