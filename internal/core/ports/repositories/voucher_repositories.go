package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// VoucherReader defines read operations over the voucher collections.
// Readers return documents as stored; normalization happens in the service layer.
type VoucherReader interface {
	// FindVouchers returns every document of filter.Book whose entryDate lies in
	// [filter.From, filter.To], newest first, optionally restricted to filter.Status.
	FindVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.RawVoucher, error)

	// FindVoucherByID retrieves one document.
	FindVoucherByID(ctx context.Context, book domain.Book, id string) (*domain.RawVoucher, error)

	// FindVouchersBySlipNo retrieves the documents carrying a slip number.
	FindVouchersBySlipNo(ctx context.Context, book domain.Book, slipNo int64) ([]domain.RawVoucher, error)

	// ListVouchers pages through a book newest first, resuming after (afterEntry, afterID) when set.
	ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, afterEntry *time.Time, afterID string) (domain.ListPage, error)
}

// VoucherWriter defines write operations over the voucher collections.
type VoucherWriter interface {
	// SaveVoucher persists a new document. entryDate is indexed for range queries.
	SaveVoucher(ctx context.Context, voucher domain.RawVoucher, entryDate time.Time) error

	// DeleteVoucher removes a document permanently.
	DeleteVoucher(ctx context.Context, book domain.Book, id string) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
