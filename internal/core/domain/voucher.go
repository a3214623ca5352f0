package domain

import (
	"math"
	"time"
)

// Book identifies which voucher collection a record lives in.
type Book string

const (
	ReceiptBook Book = "cr" // cash receipt vouchers
	PaymentBook Book = "dr" // cash payment vouchers
)

// Valid reports whether b is a known book.
func (b Book) Valid() bool {
	return b == ReceiptBook || b == PaymentBook
}

// Collection returns the name of the stored collection, e.g. "cr.vouchers".
func (b Book) Collection() string {
	return string(b) + ".vouchers"
}

// PaymentStatus is open-ended; these are the values the application writes.
type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "Completed"
	StatusPending   PaymentStatus = "Pending"
	StatusFailed    PaymentStatus = "Failed"
)

// Stored document field names.
const (
	FieldSlipNo        = "slipNo"
	FieldEntryDate     = "entryDate"
	FieldSysDate       = "sysDate"
	FieldPaymentDate   = "paymentDate"
	FieldPaymentFrom   = "paymentFrom"
	FieldPointPerson   = "pointPerson"
	FieldPaymentMode   = "paymentMode"
	FieldPaymentHead   = "paymentHead"
	FieldPaymentStatus = "paymentStatus"
	FieldCellNo        = "cellNo"
	FieldRemarks       = "remarks"
	FieldUser          = "user"
	FieldEmail         = "email"
	FieldCash          = "cash"
)

// Denomination is one currency note and the document field holding its count.
type Denomination struct {
	Field string
	Value int64
}

// DenominationValues lists the notes in display order, largest first.
var DenominationValues = [8]Denomination{
	{Field: "deno5000", Value: 5000},
	{Field: "deno1000", Value: 1000},
	{Field: "deno500", Value: 500},
	{Field: "deno100", Value: 100},
	{Field: "deno50", Value: 50},
	{Field: "deno20", Value: 20},
	{Field: "deno10", Value: 10},
	{Field: "deno1", Value: 1},
}

// noteValueSum is the sum of every note value in DenominationValues.
const noteValueSum = 5000 + 1000 + 500 + 100 + 50 + 20 + 10 + 1

// MaxDenominationCount bounds the magnitude of a single count so that Amount
// cannot overflow int64 whatever the other seven counts are.
const MaxDenominationCount = math.MaxInt64 / noteValueSum

// ValidCount reports whether n is within ±MaxDenominationCount.
func ValidCount(n int64) bool {
	return n >= -MaxDenominationCount && n <= MaxDenominationCount
}

// Denominations holds the note counts of a voucher.
type Denominations struct {
	Deno5000 int64 `json:"deno5000"`
	Deno1000 int64 `json:"deno1000"`
	Deno500  int64 `json:"deno500"`
	Deno100  int64 `json:"deno100"`
	Deno50   int64 `json:"deno50"`
	Deno20   int64 `json:"deno20"`
	Deno10   int64 `json:"deno10"`
	Deno1    int64 `json:"deno1"`
}

// Counts returns the counts in DenominationValues order.
func (d Denominations) Counts() [8]int64 {
	return [8]int64{d.Deno5000, d.Deno1000, d.Deno500, d.Deno100, d.Deno50, d.Deno20, d.Deno10, d.Deno1}
}

// Amount is the sum of count times note value. Negative counts are not rejected;
// counts beyond MaxDenominationCount are treated as 0.
func (d Denominations) Amount() int64 {
	var total int64
	for i, count := range d.Counts() {
		if !ValidCount(count) {
			continue
		}
		total += count * DenominationValues[i].Value
	}
	return total
}

// RawVoucher is a voucher document exactly as the store returned it.
// Field values are loosely typed; timestamps keep the provider's representation.
type RawVoucher struct {
	ID     string
	Book   Book
	Fields map[string]any
}

// Voucher is a normalized voucher. Amount is derived from Denominations on every read.
type Voucher struct {
	ID            string        `json:"id"`
	Book          Book          `json:"book"`
	SlipNo        int64         `json:"slipNo"`
	EntryDate     time.Time     `json:"entryDate"`
	SysDate       time.Time     `json:"sysDate"`
	PaymentFrom   string        `json:"paymentFrom"`
	PointPerson   string        `json:"pointPerson"`
	PaymentMode   string        `json:"paymentMode"`
	PaymentHead   string        `json:"paymentHead"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CellNo        string        `json:"cellNo"`
	Remarks       string        `json:"remarks"`
	User          string        `json:"user"`
	Email         string        `json:"email"`
	Denominations
	Amount int64 `json:"amount"`
}

// VoucherFilter narrows a voucher query. Zero From/To leave that side open;
// an empty Status matches every status.
type VoucherFilter struct {
	Book   Book
	From   time.Time
	To     time.Time
	Status PaymentStatus
}

// ListPage is one page of raw documents plus the position to resume from.
type ListPage struct {
	Records   []RawVoucher
	NextEntry *time.Time
	NextID    string
}
