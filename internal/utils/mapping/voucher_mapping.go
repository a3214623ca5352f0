package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
)

// DecodeDocument parses a stored document, keeping numbers as json.Number
// so integer counts and millisecond timestamps survive unchanged.
func DecodeDocument(doc []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	fields := map[string]any{}
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode voucher document: %w", err)
	}
	return fields, nil
}

// ToDomainRawVoucher converts a model Voucher to the loosely typed domain record
func ToDomainRawVoucher(m models.Voucher) (domain.RawVoucher, error) {
	fields, err := DecodeDocument(m.Doc)
	if err != nil {
		return domain.RawVoucher{}, fmt.Errorf("voucher %s: %w", m.ID, err)
	}
	return domain.RawVoucher{ID: m.ID, Book: domain.Book(m.Book), Fields: fields}, nil
}

// ToModelVoucher builds the row for a new document.
func ToModelVoucher(raw domain.RawVoucher, entryDate time.Time, slipNo int64, now time.Time) (models.Voucher, error) {
	doc, err := json.Marshal(raw.Fields)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("failed to encode voucher document: %w", err)
	}
	m := models.Voucher{
		ID:        raw.ID,
		Book:      string(raw.Book),
		Doc:       doc,
		CreatedAt: now,
	}
	if !entryDate.IsZero() {
		ed := entryDate.UTC()
		m.EntryDate = &ed
	}
	if slipNo != 0 {
		m.SlipNo = &slipNo
	}
	return m, nil
}

// SlipNoOf extracts the slip number written by the application, or 0.
func SlipNoOf(fields map[string]any) int64 {
	switch n := fields[domain.FieldSlipNo].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
