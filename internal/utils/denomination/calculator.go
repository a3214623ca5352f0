package denomination

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// ComputeAmount returns the cash total of a loosely typed voucher record.
// Missing or non-numeric denomination fields count as 0.
func ComputeAmount(record map[string]any) int64 {
	return Parse(record).Amount()
}

// Parse reads the eight denomination counts out of a stored document.
func Parse(record map[string]any) domain.Denominations {
	var counts [8]int64
	for i, note := range domain.DenominationValues {
		counts[i] = Count(record[note.Field])
	}
	return domain.Denominations{
		Deno5000: counts[0],
		Deno1000: counts[1],
		Deno500:  counts[2],
		Deno100:  counts[3],
		Deno50:   counts[4],
		Deno20:   counts[5],
		Deno10:   counts[6],
		Deno1:    counts[7],
	}
}

// Count converts a single stored count to an integer. Fractions truncate toward zero.
// Counts whose magnitude exceeds domain.MaxDenominationCount become 0.
func Count(v any) int64 {
	n := rawCount(v)
	if !domain.ValidCount(n) {
		return 0
	}
	return n
}

func rawCount(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return fromFloat(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return fromFloat(f)
	default:
		return 0
	}
}

func fromFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > domain.MaxDenominationCount {
		return 0
	}
	return int64(f)
}

// ToFields renders counts back to their document fields.
func ToFields(d domain.Denominations) map[string]any {
	fields := make(map[string]any, len(domain.DenominationValues))
	for i, count := range d.Counts() {
		fields[domain.DenominationValues[i].Field] = count
	}
	return fields
}
