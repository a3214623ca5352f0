package services

import (
	"context"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
)

// HeadSvcFacade defines administration of payment heads
type HeadSvcFacade interface {
	CreateHead(ctx context.Context, req dto.CreateHeadRequest, requestingUserID string) (*domain.Head, error)
	GetHead(ctx context.Context, headID string) (*domain.Head, error)
	ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error)
	UpdateHead(ctx context.Context, headID string, req dto.UpdateHeadRequest, requestingUserID string) (*domain.Head, error)
	DeleteHead(ctx context.Context, headID string, requestingUserID string) error
}
