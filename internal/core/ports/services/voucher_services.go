package services

import (
	"context"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
)

// VoucherReaderSvc defines read operations for vouchers
type VoucherReaderSvc interface {
	// GetVoucher retrieves one normalized voucher.
	GetVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) (*domain.Voucher, error)

	// VerifySlip looks up a cash receipt by slip number.
	VerifySlip(ctx context.Context, slipNo int64, requestingUserID string) (*domain.Voucher, error)

	// ListVouchers pages through a book, newest first.
	ListVouchers(ctx context.Context, params dto.ListVouchersParams, requestingUserID string) (*dto.ListVouchersResponse, error)

	// Snapshot fetches and normalizes every voucher matching filter. Malformed
	// documents are skipped, logged and reported in the batch.
	Snapshot(ctx context.Context, filter domain.VoucherFilter) (normalizer.Batch, error)
}

// VoucherWriterSvc defines write operations for vouchers
type VoucherWriterSvc interface {
	// CreateVoucher stores a submitted voucher and announces it.
	CreateVoucher(ctx context.Context, book domain.Book, req dto.CreateVoucherRequest, requestingUserID string) (*domain.Voucher, error)

	// DeleteVoucher hard-deletes a voucher and announces it.
	DeleteVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) error
}

// VoucherSvcFacade combines all voucher service interfaces
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
