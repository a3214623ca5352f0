package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/export"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/aggregation"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
	"github.com/stretchr/testify/mock"
)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) GetVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, book, id, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) VerifySlip(ctx context.Context, slipNo int64, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, slipNo, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams, requestingUserID string) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

func (m *MockVoucherService) Snapshot(ctx context.Context, filter domain.VoucherFilter) (normalizer.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(normalizer.Batch), args.Error(1)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, book domain.Book, req dto.CreateVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, book, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) DeleteVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) error {
	return m.Called(ctx, book, id, requestingUserID).Error(0)
}

var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) VoucherReport(ctx context.Context, filter domain.VoucherFilter, requestingUserID string) (*domain.VoucherReport, error) {
	args := m.Called(ctx, filter, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherReport), args.Error(1)
}

func (m *MockReportService) Aggregate(ctx context.Context, filter domain.VoucherFilter, spec aggregation.Spec, requestingUserID string) (*aggregation.Result, int, error) {
	args := m.Called(ctx, filter, spec, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*aggregation.Result), args.Int(1), args.Error(2)
}

func (m *MockReportService) CashBalance(ctx context.Context, from, to time.Time, requestingUserID string) (*domain.CashBalance, error) {
	args := m.Called(ctx, from, to, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBalance), args.Error(1)
}

func (m *MockReportService) ExportReport(ctx context.Context, filter domain.VoucherFilter, format export.Format, w io.Writer, requestingUserID string) error {
	return m.Called(ctx, filter, format, w, requestingUserID).Error(0)
}

var _ portssvc.ReportService = (*MockReportService)(nil)

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context, book domain.Book, periodDays int, requestingUserID string) (*domain.DashboardSnapshot, error) {
	args := m.Called(ctx, book, periodDays, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSnapshot), args.Error(1)
}

func (m *MockDashboardService) Refresh(ctx context.Context, book domain.Book) error {
	return m.Called(ctx, book).Error(0)
}

var _ portssvc.DashboardService = (*MockDashboardService)(nil)

// --- Mock HeadService ---
type MockHeadService struct {
	mock.Mock
}

func (m *MockHeadService) CreateHead(ctx context.Context, req dto.CreateHeadRequest, requestingUserID string) (*domain.Head, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Head), args.Error(1)
}

func (m *MockHeadService) GetHead(ctx context.Context, headID string) (*domain.Head, error) {
	args := m.Called(ctx, headID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Head), args.Error(1)
}

func (m *MockHeadService) ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Head), args.Error(1)
}

func (m *MockHeadService) UpdateHead(ctx context.Context, headID string, req dto.UpdateHeadRequest, requestingUserID string) (*domain.Head, error) {
	args := m.Called(ctx, headID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Head), args.Error(1)
}

func (m *MockHeadService) DeleteHead(ctx context.Context, headID string, requestingUserID string) error {
	return m.Called(ctx, headID, requestingUserID).Error(0)
}

var _ portssvc.HeadSvcFacade = (*MockHeadService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Authorize(ctx context.Context, userID string, permission string) error {
	return m.Called(ctx, userID, permission).Error(0)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, requestingUserID string) ([]domain.AppUser, error) {
	args := m.Called(ctx, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AppUser), args.Error(1)
}

func (m *MockUserService) AddUser(ctx context.Context, req dto.CreateAppUserRequest, requestingUserID string) (*domain.AppUser, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateAppUserRequest, requestingUserID string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserService) SetActive(ctx context.Context, userID string, active bool, requestingUserID string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID, active, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserService) SetPermission(ctx context.Context, userID string, permission string, granted bool, requestingUserID string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID, permission, granted, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, userID, email string) (*domain.AppUser, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppUser), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)
