// Package export renders voucher reports as spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const sheetName = "Vouchers"

// Columns is the header row of every export.
var Columns = []string{"Slip No", "Date", "Payment From", "Point Person", "Status", "User", "Total Amount", "Remarks"}

// ParseFormat accepts "xlsx" or "csv", case-insensitively; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName builds the attachment name for a report on book covering from..to.
func (f Format) FileName(book domain.Book, from, to time.Time) string {
	return fmt.Sprintf("voucher_report_%s_%s_%s.%s", book, from.Format("20060102"), to.Format("20060102"), f)
}

// WriteReport writes one row per voucher followed by a total row.
// Dates are rendered in loc.
func WriteReport(w io.Writer, f Format, report *domain.VoucherReport, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	switch f {
	case FormatCSV:
		return writeCSV(w, report, loc)
	case FormatXLSX:
		return writeXLSX(w, report, loc)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func rowValues(v *domain.Voucher, loc *time.Location) []any {
	return []any{
		v.SlipNo,
		v.EntryDate.In(loc).Format("2006-01-02"),
		v.PaymentFrom,
		v.PointPerson,
		string(v.PaymentStatus),
		v.User,
		v.Amount,
		v.Remarks,
	}
}

func totalRow(report *domain.VoucherReport) []any {
	return []any{"TOTAL", "", "", "", "", "", report.Summary.TotalAmount, ""}
}

func writeCSV(w io.Writer, report *domain.VoucherReport, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range report.Vouchers {
		if err := cw.Write(toStrings(rowValues(&report.Vouchers[i], loc))); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	if err := cw.Write(toStrings(totalRow(report))); err != nil {
		return fmt.Errorf("failed to write csv total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func toStrings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case string:
			out[i] = t
		case int64:
			out[i] = strconv.FormatInt(t, 10)
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}

func writeXLSX(w io.Writer, report *domain.VoucherReport, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for i := range report.Vouchers {
		values := rowValues(&report.Vouchers[i], loc)
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	total := totalRow(report)
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheetName, cell, &total); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}
	if err := f.SetRowStyle(sheetName, row, row, bold); err != nil {
		return fmt.Errorf("failed to style total row: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "H", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
