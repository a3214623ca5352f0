package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func sampleVoucher() *domain.Voucher {
	d := domain.Denominations{Deno5000: 2, Deno100: 3}
	return &domain.Voucher{
		ID:            "v-1",
		Book:          domain.ReceiptBook,
		SlipNo:        1717000000000,
		EntryDate:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		SysDate:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		PaymentFrom:   "Ali Traders",
		PointPerson:   "Sana",
		PaymentMode:   "Cash",
		PaymentHead:   "General",
		PaymentStatus: domain.StatusCompleted,
		CellNo:        "N/A",
		Remarks:       "N/A",
		Denominations: d,
		Amount:        d.Amount(),
	}
}

func validVoucherBody() map[string]any {
	return map[string]any{
		"paymentFrom":   "Ali Traders",
		"pointPerson":   "Sana",
		"paymentMode":   "Cash",
		"paymentStatus": "Completed",
		"cellNo":        "0300-1234567",
		"deno5000":      2,
		"deno100":       3,
	}
}

func (suite *HandlerTestSuite) TestCreateVoucher_Success() {
	suite.vouchers.On("CreateVoucher", mock.Anything, domain.ReceiptBook,
		mock.MatchedBy(func(req dto.CreateVoucherRequest) bool {
			return req.PaymentFrom == "Ali Traders" && req.Deno5000 == 2 && req.Deno100 == 3
		}),
		testUserID,
	).Return(sampleVoucher(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/vouchers/cr", validVoucherBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.VoucherResponse
	suite.decode(w, &resp)
	suite.Equal("v-1", resp.ID)
	suite.Equal(int64(10300), resp.Amount)
	suite.Equal(int64(2), resp.Denominations.Deno5000)
}

func (suite *HandlerTestSuite) TestCreateVoucher_RejectsNegativeCount() {
	body := validVoucherBody()
	body["deno500"] = -1

	w := suite.do(http.MethodPost, "/api/v1/vouchers/cr", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Deno500")
	suite.vouchers.AssertNotCalled(suite.T(), "CreateVoucher")
}

func (suite *HandlerTestSuite) TestCreateVoucher_RejectsUnknownStatus() {
	body := validVoucherBody()
	body["paymentStatus"] = "Done"

	w := suite.do(http.MethodPost, "/api/v1/vouchers/dr", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "paymentstatus")
}

func (suite *HandlerTestSuite) TestCreateVoucher_RejectsBadPhone() {
	body := validVoucherBody()
	body["cellNo"] = "12345"

	w := suite.do(http.MethodPost, "/api/v1/vouchers/cr", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateVoucher_UnknownBook() {
	w := suite.do(http.MethodPost, "/api/v1/vouchers/xx", validVoucherBody())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Unknown book")
}

func (suite *HandlerTestSuite) TestCreateVoucher_Forbidden() {
	suite.vouchers.On("CreateVoucher", mock.Anything, domain.PaymentBook, mock.Anything, testUserID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodPost, "/api/v1/vouchers/dr", validVoucherBody())

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetVoucher() {
	suite.vouchers.On("GetVoucher", mock.Anything, domain.ReceiptBook, "v-1", testUserID).Return(sampleVoucher(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/cr/v-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VoucherResponse
	suite.decode(w, &resp)
	suite.Equal(int64(1717000000000), resp.SlipNo)
}

func (suite *HandlerTestSuite) TestGetVoucher_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"malformed", &apperrors.MalformedRecordError{RecordID: "v-1", Field: "paymentStatus"}, http.StatusUnprocessableEntity},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.vouchers.On("GetVoucher", mock.Anything, domain.ReceiptBook, "v-1", testUserID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/vouchers/cr/v-1", nil)

			suite.Equal(tt.want, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestGetVoucher_MalformedNamesField() {
	suite.vouchers.On("GetVoucher", mock.Anything, domain.ReceiptBook, "v-9", testUserID).
		Return(nil, &apperrors.MalformedRecordError{RecordID: "v-9", Field: "paymentStatus"}).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/cr/v-9", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "paymentStatus")
	suite.Contains(w.Body.String(), "v-9")
}

func (suite *HandlerTestSuite) TestVerifySlip() {
	suite.vouchers.On("VerifySlip", mock.Anything, int64(1717000000000), testUserID).Return(sampleVoucher(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/verify/1717000000000", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestVerifySlip_InvalidNumber() {
	for _, slip := range []string{"abc", "0", "-5"} {
		w := suite.do(http.MethodGet, "/api/v1/vouchers/verify/"+slip, nil)
		suite.Equal(http.StatusBadRequest, w.Code, slip)
	}
}

func (suite *HandlerTestSuite) TestListVouchers_PassesDayRange() {
	next := "token-2"
	suite.vouchers.On("ListVouchers", mock.Anything,
		mock.MatchedBy(func(p dto.ListVouchersParams) bool {
			return p.Book == domain.PaymentBook &&
				p.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, suite.location)) &&
				p.To.Equal(time.Date(2025, 3, 31, 23, 59, 59, 999999999, suite.location)) &&
				p.Status == domain.StatusPending &&
				p.Limit == 20 &&
				p.NextToken != nil && *p.NextToken == "token-1"
		}),
		testUserID,
	).Return(&dto.ListVouchersResponse{
		Vouchers:     []dto.VoucherResponse{dto.ToVoucherResponse(sampleVoucher())},
		NextToken:    &next,
		SkippedCount: 1,
		SkippedIDs:   []string{"bad-1"},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/dr?from=2025-03-01&to=2025-03-31&status=Pending&limit=20&nextToken=token-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListVouchersResponse
	suite.decode(w, &resp)
	suite.Len(resp.Vouchers, 1)
	suite.Equal(1, resp.SkippedCount)
	suite.Equal([]string{"bad-1"}, resp.SkippedIDs)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListVouchers_InvertedRange() {
	w := suite.do(http.MethodGet, "/api/v1/vouchers/cr?from=2025-03-31&to=2025-03-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListVouchers_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/vouchers/cr?limit=10000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListVouchers_BadToken() {
	suite.vouchers.On("ListVouchers", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.do(http.MethodGet, "/api/v1/vouchers/cr?nextToken=not-a-token", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteVoucher() {
	suite.vouchers.On("DeleteVoucher", mock.Anything, domain.ReceiptBook, "v-1", testUserID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/vouchers/cr/v-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteVoucher_NotFound() {
	suite.vouchers.On("DeleteVoucher", mock.Anything, domain.ReceiptBook, "missing", testUserID).Return(apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodDelete, "/api/v1/vouchers/cr/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
