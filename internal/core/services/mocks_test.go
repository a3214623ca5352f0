package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
	"github.com/stretchr/testify/mock"
)

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepositoryFacade = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.RawVoucher, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, book domain.Book, id string) (*domain.RawVoucher, error) {
	args := m.Called(ctx, book, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindVouchersBySlipNo(ctx context.Context, book domain.Book, slipNo int64) ([]domain.RawVoucher, error) {
	args := m.Called(ctx, book, slipNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, afterEntry *time.Time, afterID string) (domain.ListPage, error) {
	args := m.Called(ctx, filter, limit, afterEntry, afterID)
	return args.Get(0).(domain.ListPage), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.RawVoucher, entryDate time.Time) error {
	args := m.Called(ctx, voucher, entryDate)
	return args.Error(0)
}

func (m *MockVoucherRepository) DeleteVoucher(ctx context.Context, book domain.Book, id string) error {
	args := m.Called(ctx, book, id)
	return args.Error(0)
}

// --- Mock HeadRepository ---
type MockHeadRepository struct {
	mock.Mock
}

var _ portsrepo.HeadRepositoryFacade = (*MockHeadRepository)(nil)

func (m *MockHeadRepository) FindHeadByID(ctx context.Context, headID string) (*domain.Head, error) {
	args := m.Called(ctx, headID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Head), args.Error(1)
}

func (m *MockHeadRepository) FindHeadByName(ctx context.Context, name string) (*domain.Head, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Head), args.Error(1)
}

func (m *MockHeadRepository) ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Head), args.Error(1)
}

func (m *MockHeadRepository) SaveHead(ctx context.Context, head domain.Head) error {
	args := m.Called(ctx, head)
	return args.Error(0)
}

func (m *MockHeadRepository) UpdateHead(ctx context.Context, head domain.Head) error {
	args := m.Called(ctx, head)
	return args.Error(0)
}

func (m *MockHeadRepository) DeleteHead(ctx context.Context, headID string) error {
	args := m.Called(ctx, headID)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.AppUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context) ([]domain.AppUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AppUser), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.AppUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.AppUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock AccessAuthorizer ---
type MockAuthorizer struct {
	mock.Mock
}

var _ portssvc.AccessAuthorizerSvc = (*MockAuthorizer)(nil)

func (m *MockAuthorizer) Authorize(ctx context.Context, userID string, permission string) error {
	args := m.Called(ctx, userID, permission)
	return args.Error(0)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) PublishVoucherEvent(ctx context.Context, evt *events.VoucherEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// --- Mock VoucherReader (as used by the report and dashboard services) ---
type MockVoucherReader struct {
	mock.Mock
}

var _ portssvc.VoucherReaderSvc = (*MockVoucherReader)(nil)

func (m *MockVoucherReader) GetVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, book, id, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherReader) VerifySlip(ctx context.Context, slipNo int64, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, slipNo, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherReader) ListVouchers(ctx context.Context, params dto.ListVouchersParams, requestingUserID string) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

func (m *MockVoucherReader) Snapshot(ctx context.Context, filter domain.VoucherFilter) (normalizer.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(normalizer.Batch), args.Error(1)
}

// rawVoucher builds a stored document with the required fields set.
func rawVoucher(id string, book domain.Book, slipNo int64, entry time.Time, status domain.PaymentStatus, denos map[string]any) domain.RawVoucher {
	fields := map[string]any{
		domain.FieldSlipNo:        slipNo,
		domain.FieldEntryDate:     entry.Format(time.RFC3339Nano),
		domain.FieldPaymentStatus: string(status),
		domain.FieldPaymentFrom:   "Walk-in",
		domain.FieldPointPerson:   "Ali",
		domain.FieldPaymentMode:   "Cash",
	}
	for k, v := range denos {
		fields[k] = v
	}
	return domain.RawVoucher{ID: id, Book: book, Fields: fields}
}

// voucher builds a normalized voucher with the given amount held in deno1 notes.
func voucher(id string, entry time.Time, status domain.PaymentStatus, person string, amount int64) domain.Voucher {
	d := domain.Denominations{Deno1: amount}
	return domain.Voucher{
		ID:            id,
		Book:          domain.ReceiptBook,
		EntryDate:     entry,
		PaymentStatus: status,
		PointPerson:   person,
		PaymentMode:   "Cash",
		PaymentHead:   "General",
		Denominations: d,
		Amount:        d.Amount(),
	}
}
