package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/denomination"
)

// Placeholders for optional fields absent from the stored document.
const (
	MissingRemarks     = "N/A"
	MissingPaymentHead = "-"
	MissingCellNo      = "-"
)

// Normalize shapes a stored document into a Voucher.
// A missing slipNo, entryDate or paymentStatus yields a *apperrors.MalformedRecordError.
// Timestamps stored without a zone are read as UTC.
func Normalize(raw domain.RawVoucher) (domain.Voucher, error) {
	return NormalizeIn(raw, time.UTC)
}

// NormalizeIn is Normalize with zoneless timestamps read in loc.
func NormalizeIn(raw domain.RawVoucher, loc *time.Location) (domain.Voucher, error) {
	f := raw.Fields

	slipNo, ok := slipNumber(f[domain.FieldSlipNo])
	if !ok {
		return domain.Voucher{}, malformed(raw.ID, domain.FieldSlipNo)
	}
	entryDate, ok := ToTimeIn(f[domain.FieldEntryDate], loc)
	if !ok {
		return domain.Voucher{}, malformed(raw.ID, domain.FieldEntryDate)
	}
	status := text(f[domain.FieldPaymentStatus])
	if status == "" {
		return domain.Voucher{}, malformed(raw.ID, domain.FieldPaymentStatus)
	}

	sysDate, _ := ToTimeIn(f[domain.FieldSysDate], loc)
	denos := denomination.Parse(f)

	return domain.Voucher{
		ID:            raw.ID,
		Book:          raw.Book,
		SlipNo:        slipNo,
		EntryDate:     entryDate,
		SysDate:       sysDate,
		PaymentFrom:   text(f[domain.FieldPaymentFrom]),
		PointPerson:   text(f[domain.FieldPointPerson]),
		PaymentMode:   text(f[domain.FieldPaymentMode]),
		PaymentHead:   orDefault(text(f[domain.FieldPaymentHead]), MissingPaymentHead),
		PaymentStatus: domain.PaymentStatus(status),
		CellNo:        orDefault(text(f[domain.FieldCellNo]), MissingCellNo),
		Remarks:       orDefault(text(f[domain.FieldRemarks]), MissingRemarks),
		User:          text(f[domain.FieldUser]),
		Email:         text(f[domain.FieldEmail]),
		Denominations: denos,
		Amount:        denos.Amount(),
	}, nil
}

// SkippedRecord names a document left out of a batch and the field it lacked.
type SkippedRecord struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

// Batch is the outcome of normalizing many documents: the good ones in input order
// plus every document that was dropped.
type Batch struct {
	Vouchers []domain.Voucher
	Skipped  []SkippedRecord
}

// SkippedCount is the number of dropped documents.
func (b Batch) SkippedCount() int {
	return len(b.Skipped)
}

// SkippedIDs lists the identifiers of dropped documents.
func (b Batch) SkippedIDs() []string {
	ids := make([]string, len(b.Skipped))
	for i, s := range b.Skipped {
		ids[i] = s.ID
	}
	return ids
}

// NormalizeBatch normalizes every document, skipping malformed ones.
func NormalizeBatch(raws []domain.RawVoucher) Batch {
	return NormalizeBatchIn(raws, time.UTC)
}

// NormalizeBatchIn is NormalizeBatch with zoneless timestamps read in loc.
func NormalizeBatchIn(raws []domain.RawVoucher, loc *time.Location) Batch {
	batch := Batch{Vouchers: make([]domain.Voucher, 0, len(raws))}
	for _, raw := range raws {
		v, err := NormalizeIn(raw, loc)
		if err != nil {
			field := ""
			var mr *apperrors.MalformedRecordError
			if errors.As(err, &mr) {
				field = mr.Field
			}
			batch.Skipped = append(batch.Skipped, SkippedRecord{ID: raw.ID, Field: field})
			continue
		}
		batch.Vouchers = append(batch.Vouchers, v)
	}
	return batch
}

func malformed(id, field string) error {
	return &apperrors.MalformedRecordError{RecordID: id, Field: field}
}

func slipNumber(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, so >= rejects it.
		if math.IsNaN(n) || n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// text renders a scalar document value as a trimmed string; nil and composite values become "".
func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int, int32, int64, bool:
		return fmt.Sprint(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return ""
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
