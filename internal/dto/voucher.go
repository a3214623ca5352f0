package dto

import (
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils"
)

// CreateVoucherRequest is the body of a voucher submission.
type CreateVoucherRequest struct {
	PaymentDate   string `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	CellNo        string `json:"cellNo" binding:"omitempty,pkphone"`
	PaymentFrom   string `json:"paymentFrom" binding:"required,max=200"`
	PointPerson   string `json:"pointPerson" binding:"required,max=100"`
	PaymentMode   string `json:"paymentMode" binding:"required,max=50"`
	PaymentHead   string `json:"paymentHead" binding:"omitempty,max=100"`
	PaymentStatus string `json:"paymentStatus" binding:"required,paymentstatus"`
	User          string `json:"user" binding:"omitempty,max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	Remarks       string `json:"remarks" binding:"max=500"`
	Deno5000      int64  `json:"deno5000" binding:"min=0,max=9999"`
	Deno1000      int64  `json:"deno1000" binding:"min=0,max=9999"`
	Deno500       int64  `json:"deno500" binding:"min=0,max=9999"`
	Deno100       int64  `json:"deno100" binding:"min=0,max=9999"`
	Deno50        int64  `json:"deno50" binding:"min=0,max=9999"`
	Deno20        int64  `json:"deno20" binding:"min=0,max=9999"`
	Deno10        int64  `json:"deno10" binding:"min=0,max=9999"`
	Deno1         int64  `json:"deno1" binding:"min=0,max=9999"`
}

// Denominations collects the submitted note counts.
func (r CreateVoucherRequest) Denominations() domain.Denominations {
	return domain.Denominations{
		Deno5000: r.Deno5000,
		Deno1000: r.Deno1000,
		Deno500:  r.Deno500,
		Deno100:  r.Deno100,
		Deno50:   r.Deno50,
		Deno20:   r.Deno20,
		Deno10:   r.Deno10,
		Deno1:    r.Deno1,
	}
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	ID              string               `json:"id"`
	Book            domain.Book          `json:"book"`
	SlipNo          int64                `json:"slipNo"`
	EntryDate       time.Time            `json:"entryDate"`
	SysDate         *time.Time           `json:"sysDate,omitempty"`
	PaymentFrom     string               `json:"paymentFrom"`
	PointPerson     string               `json:"pointPerson"`
	PaymentMode     string               `json:"paymentMode"`
	PaymentHead     string               `json:"paymentHead"`
	PaymentStatus   domain.PaymentStatus `json:"paymentStatus"`
	CellNo          string               `json:"cellNo"`
	Remarks         string               `json:"remarks"`
	User            string               `json:"user"`
	Email           string               `json:"email"`
	Denominations   domain.Denominations `json:"denominations"`
	Amount          int64                `json:"amount"`
	AmountFormatted string               `json:"amountFormatted"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		ID:              v.ID,
		Book:            v.Book,
		SlipNo:          v.SlipNo,
		EntryDate:       v.EntryDate,
		PaymentFrom:     v.PaymentFrom,
		PointPerson:     v.PointPerson,
		PaymentMode:     v.PaymentMode,
		PaymentHead:     v.PaymentHead,
		PaymentStatus:   v.PaymentStatus,
		CellNo:          v.CellNo,
		Remarks:         v.Remarks,
		User:            v.User,
		Email:           v.Email,
		Denominations:   v.Denominations,
		Amount:          v.Amount,
		AmountFormatted: utils.FormatPKR(v.Amount),
	}
	if !v.SysDate.IsZero() {
		sysDate := v.SysDate
		resp.SysDate = &sysDate
	}
	return resp
}

// ToVoucherResponses converts a slice of domain.Voucher to []VoucherResponse.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}

// ListVouchersParams holds the query parameters of a voucher listing.
type ListVouchersParams struct {
	Book      domain.Book
	From      time.Time
	To        time.Time
	Status    domain.PaymentStatus
	Limit     int
	NextToken *string
}

// ListVouchersResponse is one page of vouchers.
type ListVouchersResponse struct {
	Vouchers     []VoucherResponse `json:"vouchers"`
	NextToken    *string           `json:"nextToken,omitempty"`
	SkippedCount int               `json:"skippedCount"`
	SkippedIDs   []string          `json:"skippedIds,omitempty"`
}

// AmountResponse is the result of the denomination calculator endpoint.
type AmountResponse struct {
	Denominations   domain.Denominations `json:"denominations"`
	Amount          int64                `json:"amount"`
	AmountFormatted string               `json:"amountFormatted"`
}

// ToAmountResponse builds the calculator response for counts.
func ToAmountResponse(d domain.Denominations) AmountResponse {
	amount := d.Amount()
	return AmountResponse{
		Denominations:   d,
		Amount:          amount,
		AmountFormatted: utils.FormatPKR(amount),
	}
}

// ListVouchersQuery is the query string of a voucher listing.
type ListVouchersQuery struct {
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status" binding:"omitempty,max=50"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}
