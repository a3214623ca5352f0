package repositories

import (
	"context"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// HeadReader defines read operations for payment heads
type HeadReader interface {
	FindHeadByID(ctx context.Context, headID string) (*domain.Head, error)
	FindHeadByName(ctx context.Context, name string) (*domain.Head, error)
	// ListHeads returns heads ordered by name; an empty status returns all.
	ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error)
}

// HeadWriter defines write operations for payment heads
type HeadWriter interface {
	SaveHead(ctx context.Context, head domain.Head) error
	UpdateHead(ctx context.Context, head domain.Head) error
	DeleteHead(ctx context.Context, headID string) error
}

// HeadRepositoryFacade combines all head repository interfaces
type HeadRepositoryFacade interface {
	HeadReader
	HeadWriter
}
