package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/core/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/pagination"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type VoucherServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockVoucherRepository
	mockAuthorizer *MockAuthorizer
	mockPublisher  *MockPublisher
	service        portssvc.VoucherSvcFacade
	now            time.Time
	userID         string
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVoucherRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.mockPublisher = new(MockPublisher)
	suite.now = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	suite.userID = "user-1"
	suite.service = services.NewVoucherService(
		suite.mockRepo,
		services.WithVoucherAuthorizer(suite.mockAuthorizer),
		services.WithEventPublisher(suite.mockPublisher),
		services.WithVoucherClock(func() time.Time { return suite.now }),
	)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Success() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		PaymentFrom:   " Walk-in ",
		PointPerson:   "Ali",
		PaymentMode:   "Cash",
		PaymentStatus: "Completed",
		Deno5000:      2, Deno1000: 5, Deno500: 3, Deno100: 10,
		Deno50: 4, Deno20: 5, Deno10: 3, Deno1: 7,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersCreate).Return(nil).Once()
	suite.mockRepo.On("SaveVoucher", ctx, mock.MatchedBy(func(raw domain.RawVoucher) bool {
		return raw.Book == domain.ReceiptBook &&
			raw.ID != "" &&
			raw.Fields[domain.FieldSlipNo] == suite.now.UnixMilli() &&
			raw.Fields[domain.FieldCash] == int64(17837) &&
			raw.Fields[domain.FieldPaymentFrom] == "Walk-in" &&
			raw.Fields["deno5000"] == int64(2)
	}), suite.now).Return(nil).Once()
	suite.mockPublisher.On("PublishVoucherEvent", ctx, mock.MatchedBy(func(evt *events.VoucherEvent) bool {
		return evt.Type == events.VoucherCreated && evt.Book == domain.ReceiptBook && evt.SlipNo == suite.now.UnixMilli()
	})).Return(nil).Once()

	v, err := suite.service.CreateVoucher(ctx, domain.ReceiptBook, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(v)
	suite.Equal(int64(17837), v.Amount)
	suite.Equal(suite.now.UnixMilli(), v.SlipNo)
	suite.True(suite.now.Equal(v.EntryDate))
	suite.Equal("N/A", v.Remarks)
	suite.Equal("-", v.PaymentHead)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_PublishFailureIsNotFatal() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{PaymentFrom: "A", PointPerson: "B", PaymentMode: "Cash", PaymentStatus: "Pending", Deno100: 1}

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersCreate).Return(nil).Once()
	suite.mockRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.RawVoucher"), suite.now).Return(nil).Once()
	suite.mockPublisher.On("PublishVoucherEvent", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	v, err := suite.service.CreateVoucher(ctx, domain.PaymentBook, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(100), v.Amount)
	suite.Equal(domain.PaymentBook, v.Book)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_InvalidBook() {
	_, err := suite.service.CreateVoucher(context.Background(), domain.Book("xx"), dto.CreateVoucherRequest{}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Forbidden() {
	ctx := context.Background()
	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersCreate).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateVoucher(ctx, domain.ReceiptBook, dto.CreateVoucherRequest{}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_SaveFails() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{PaymentFrom: "A", PointPerson: "B", PaymentMode: "Cash", PaymentStatus: "Pending"}
	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersCreate).Return(nil).Once()
	suite.mockRepo.On("SaveVoucher", ctx, mock.Anything, suite.now).Return(errors.New("db down")).Once()

	_, err := suite.service.CreateVoucher(ctx, domain.ReceiptBook, req, suite.userID)

	suite.Error(err)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishVoucherEvent", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestGetVoucher_Malformed() {
	ctx := context.Background()
	raw := rawVoucher("v1", domain.ReceiptBook, 1, suite.now, domain.StatusCompleted, nil)
	delete(raw.Fields, domain.FieldPaymentStatus)

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Once()
	suite.mockRepo.On("FindVoucherByID", ctx, domain.ReceiptBook, "v1").Return(&raw, nil).Once()

	_, err := suite.service.GetVoucher(ctx, domain.ReceiptBook, "v1", suite.userID)

	suite.ErrorIs(err, apperrors.ErrMalformedRecord)
}

func (suite *VoucherServiceTestSuite) TestGetVoucher_NotFound() {
	ctx := context.Background()
	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Once()
	suite.mockRepo.On("FindVoucherByID", ctx, domain.PaymentBook, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetVoucher(ctx, domain.PaymentBook, "missing", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestVerifySlip() {
	ctx := context.Background()
	raw := rawVoucher("v1", domain.ReceiptBook, 1700000000000, suite.now, domain.StatusCompleted, map[string]any{"deno1000": 3})

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Twice()
	suite.mockRepo.On("FindVouchersBySlipNo", ctx, domain.ReceiptBook, int64(1700000000000)).Return([]domain.RawVoucher{raw}, nil).Once()
	suite.mockRepo.On("FindVouchersBySlipNo", ctx, domain.ReceiptBook, int64(42)).Return([]domain.RawVoucher{}, nil).Once()

	v, err := suite.service.VerifySlip(ctx, 1700000000000, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(int64(3000), v.Amount)

	_, err = suite.service.VerifySlip(ctx, 42, suite.userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestListVouchers_SkipsMalformedAndReturnsToken() {
	ctx := context.Background()
	good := rawVoucher("v2", domain.ReceiptBook, 2, suite.now, domain.StatusPending, map[string]any{"deno500": 2})
	bad := rawVoucher("v1", domain.ReceiptBook, 1, suite.now.Add(-time.Hour), domain.StatusPending, nil)
	delete(bad.Fields, domain.FieldEntryDate)
	next := suite.now.Add(-time.Hour)

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Once()
	suite.mockRepo.On("ListVouchers", ctx, domain.VoucherFilter{Book: domain.ReceiptBook}, pagination.DefaultLimit, (*time.Time)(nil), "").
		Return(domain.ListPage{Records: []domain.RawVoucher{good, bad}, NextEntry: &next, NextID: "v1"}, nil).Once()

	resp, err := suite.service.ListVouchers(ctx, dto.ListVouchersParams{Book: domain.ReceiptBook}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Vouchers, 1)
	suite.Equal(int64(1000), resp.Vouchers[0].Amount)
	suite.Equal(1, resp.SkippedCount)
	suite.Equal([]string{"v1"}, resp.SkippedIDs)
	suite.Require().NotNil(resp.NextToken)

	entry, id, err := pagination.DecodeVoucherToken(*resp.NextToken)
	suite.Require().NoError(err)
	suite.True(next.Equal(entry))
	suite.Equal("v1", id)
}

func (suite *VoucherServiceTestSuite) TestListVouchers_ResumesFromToken() {
	ctx := context.Background()
	after := suite.now.Add(-24 * time.Hour)
	token := pagination.EncodeVoucherToken(after, "v9")

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Once()
	suite.mockRepo.On("ListVouchers", ctx, domain.VoucherFilter{Book: domain.PaymentBook, Status: domain.StatusFailed}, 10,
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(after) }), "v9").
		Return(domain.ListPage{}, nil).Once()

	resp, err := suite.service.ListVouchers(ctx, dto.ListVouchersParams{
		Book:      domain.PaymentBook,
		Status:    domain.StatusFailed,
		Limit:     10,
		NextToken: &token,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(resp.Vouchers)
	suite.Nil(resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestListVouchers_BadToken() {
	ctx := context.Background()
	token := "%%%"
	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersView).Return(nil).Once()

	_, err := suite.service.ListVouchers(ctx, dto.ListVouchersParams{Book: domain.ReceiptBook, NextToken: &token}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListVouchers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestSnapshot() {
	ctx := context.Background()
	filter := domain.VoucherFilter{Book: domain.ReceiptBook, From: suite.now.Add(-time.Hour), To: suite.now}
	bad := rawVoucher("bad", domain.ReceiptBook, 1, suite.now, domain.StatusPending, nil)
	delete(bad.Fields, domain.FieldSlipNo)
	suite.mockRepo.On("FindVouchers", ctx, filter).Return([]domain.RawVoucher{
		rawVoucher("a", domain.ReceiptBook, 2, suite.now, domain.StatusCompleted, map[string]any{"deno10": 1}),
		bad,
	}, nil).Once()

	batch, err := suite.service.Snapshot(ctx, filter)

	suite.Require().NoError(err)
	suite.Len(batch.Vouchers, 1)
	suite.Equal(1, batch.SkippedCount())
	suite.Equal(domain.FieldSlipNo, batch.Skipped[0].Field)
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_PublishesEvent() {
	ctx := context.Background()
	raw := rawVoucher("v1", domain.PaymentBook, 77, suite.now, domain.StatusCompleted, nil)

	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersDelete).Return(nil).Once()
	suite.mockRepo.On("FindVoucherByID", ctx, domain.PaymentBook, "v1").Return(&raw, nil).Once()
	suite.mockRepo.On("DeleteVoucher", ctx, domain.PaymentBook, "v1").Return(nil).Once()
	suite.mockPublisher.On("PublishVoucherEvent", ctx, mock.MatchedBy(func(evt *events.VoucherEvent) bool {
		return evt.Type == events.VoucherDeleted && evt.VoucherID == "v1" && evt.SlipNo == 77
	})).Return(nil).Once()

	err := suite.service.DeleteVoucher(ctx, domain.PaymentBook, "v1", suite.userID)

	suite.NoError(err)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_NotFound() {
	ctx := context.Background()
	suite.mockAuthorizer.On("Authorize", ctx, suite.userID, domain.PermVouchersDelete).Return(nil).Once()
	suite.mockRepo.On("FindVoucherByID", ctx, domain.ReceiptBook, "gone").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("DeleteVoucher", ctx, domain.ReceiptBook, "gone").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteVoucher(ctx, domain.ReceiptBook, "gone", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishVoucherEvent", mock.Anything, mock.Anything)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
