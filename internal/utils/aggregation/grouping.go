package aggregation

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
)

// Kind selects how vouchers are grouped.
type Kind string

const (
	ByDate          Kind = "date"
	ByPointPerson   Kind = "pointPerson"
	ByPaymentMode   Kind = "paymentMode"
	ByPaymentFrom   Kind = "paymentFrom"
	ByPaymentHead   Kind = "paymentHead"
	ByPaymentStatus Kind = "paymentStatus"
	ByWeekday       Kind = "weekday"
	ByAmountRange   Kind = "amountRange"
	ByMonth         Kind = "month"
)

// UnknownKey replaces a missing or empty categorical value.
const UnknownKey = "Unknown"

// DefaultLeaderboardSize is the number of rows shown on leaderboard panels.
const DefaultLeaderboardSize = 10

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// amountRanges have an inclusive lower bound; the last range is unbounded.
var amountRanges = []struct {
	label string
	upper int64
}{
	{"<10,000", 10_000},
	{"10,000–49,999", 50_000},
	{"50,000–99,999", 100_000},
	{"100,000–499,999", 500_000},
	{"≥500,000", 0},
}

// Spec describes one grouping request.
type Spec struct {
	Kind Kind
	// Leaderboard sorts categorical buckets by amount, largest first.
	Leaderboard bool
	// Limit truncates categorical output to the first Limit buckets. Zero means no limit.
	Limit int
	// Year is the current year of a month grouping; Year-1 is the comparison series.
	Year int
	// Location decides day, weekday and month boundaries. Nil means UTC.
	Location *time.Location
	// Exclude drops categorical keys from the output.
	Exclude []string
}

// Result is an ordered bucket list. Previous is only set for month groupings.
type Result struct {
	Kind     Kind            `json:"kind"`
	Buckets  []domain.Bucket `json:"buckets"`
	Previous []domain.Bucket `json:"previous,omitempty"`
}

// ParseKind maps a query parameter to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case ByDate, ByPointPerson, ByPaymentMode, ByPaymentFrom, ByPaymentHead,
		ByPaymentStatus, ByWeekday, ByAmountRange, ByMonth:
		return k, nil
	}
	return "", fmt.Errorf("%w: unsupported grouping %q", apperrors.ErrInvalidGroupingSpec, s)
}

func (k Kind) categorical() bool {
	switch k {
	case ByPointPerson, ByPaymentMode, ByPaymentFrom, ByPaymentHead, ByPaymentStatus:
		return true
	}
	return false
}

// Validate rejects specs the engine cannot serve.
func (s Spec) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if s.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", apperrors.ErrInvalidGroupingSpec, s.Limit)
	}
	if !s.Kind.categorical() && (s.Leaderboard || s.Limit > 0 || len(s.Exclude) > 0) {
		return fmt.Errorf("%w: leaderboard, limit and exclude apply to categorical groupings only, got %q", apperrors.ErrInvalidGroupingSpec, s.Kind)
	}
	if s.Kind == ByMonth && s.Year <= 0 {
		return fmt.Errorf("%w: month grouping requires a year", apperrors.ErrInvalidGroupingSpec)
	}
	return nil
}

// Aggregate groups vouchers according to spec. The input is not modified and
// every call builds its result from scratch.
func Aggregate(vouchers []domain.Voucher, spec Spec) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	loc := spec.Location
	if loc == nil {
		loc = time.UTC
	}

	res := Result{Kind: spec.Kind}
	switch spec.Kind {
	case ByDate:
		res.Buckets = byDate(vouchers, loc)
	case ByWeekday:
		res.Buckets = byWeekday(vouchers, loc)
	case ByAmountRange:
		res.Buckets = byAmountRange(vouchers)
	case ByMonth:
		res.Buckets = byMonth(vouchers, spec.Year, loc)
		res.Previous = byMonth(vouchers, spec.Year-1, loc)
	default:
		res.Buckets = byCategory(vouchers, spec)
	}
	return res, nil
}

// CategoryKey returns the grouping key of v for a categorical kind.
func CategoryKey(v domain.Voucher, kind Kind) string {
	var key string
	switch kind {
	case ByPointPerson:
		key = v.PointPerson
	case ByPaymentMode:
		key = v.PaymentMode
	case ByPaymentFrom:
		key = v.PaymentFrom
	case ByPaymentHead:
		if v.PaymentHead != normalizer.MissingPaymentHead {
			key = v.PaymentHead
		}
	case ByPaymentStatus:
		key = string(v.PaymentStatus)
	}
	if key == "" {
		return UnknownKey
	}
	return key
}

func byCategory(vouchers []domain.Voucher, spec Spec) []domain.Bucket {
	excluded := make(map[string]bool, len(spec.Exclude))
	for _, key := range spec.Exclude {
		excluded[key] = true
	}

	buckets := make([]domain.Bucket, 0)
	index := make(map[string]int)
	for _, v := range vouchers {
		key := CategoryKey(v, spec.Kind)
		if excluded[key] {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, domain.Bucket{Key: key, Index: i})
		}
		buckets[i].Count++
		buckets[i].AmountSum += v.Amount
	}

	if spec.Leaderboard {
		sort.SliceStable(buckets, func(a, b int) bool {
			return buckets[a].AmountSum > buckets[b].AmountSum
		})
	}
	if spec.Limit > 0 && len(buckets) > spec.Limit {
		buckets = buckets[:spec.Limit]
	}
	for i := range buckets {
		buckets[i].Index = i
	}
	return buckets
}

// DayKey is the ISO calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func byDate(vouchers []domain.Voucher, loc *time.Location) []domain.Bucket {
	sums := make(map[string]*domain.Bucket)
	for _, v := range vouchers {
		key := DayKey(v.EntryDate, loc)
		b, ok := sums[key]
		if !ok {
			b = &domain.Bucket{Key: key}
			sums[key] = b
		}
		b.Count++
		b.AmountSum += v.Amount
	}

	keys := make([]string, 0, len(sums))
	for key := range sums {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]domain.Bucket, len(keys))
	for i, key := range keys {
		buckets[i] = *sums[key]
		buckets[i].Index = i
	}
	return buckets
}

func byWeekday(vouchers []domain.Voucher, loc *time.Location) []domain.Bucket {
	buckets := make([]domain.Bucket, len(weekdayNames))
	for i, name := range weekdayNames {
		buckets[i] = domain.Bucket{Key: name, Index: i}
	}
	for _, v := range vouchers {
		d := int(v.EntryDate.In(loc).Weekday())
		buckets[d].Count++
		buckets[d].AmountSum += v.Amount
	}
	return buckets
}

// AmountRangeIndex returns the amount range bucket an amount falls into.
func AmountRangeIndex(amount int64) int {
	for i, r := range amountRanges {
		if r.upper == 0 || amount < r.upper {
			return i
		}
	}
	return len(amountRanges) - 1
}

func byAmountRange(vouchers []domain.Voucher) []domain.Bucket {
	buckets := make([]domain.Bucket, len(amountRanges))
	for i, r := range amountRanges {
		buckets[i] = domain.Bucket{Key: r.label, Index: i}
	}
	for _, v := range vouchers {
		i := AmountRangeIndex(v.Amount)
		buckets[i].Count++
		buckets[i].AmountSum += v.Amount
	}
	return buckets
}

func byMonth(vouchers []domain.Voucher, year int, loc *time.Location) []domain.Bucket {
	buckets := make([]domain.Bucket, len(monthNames))
	for i, name := range monthNames {
		buckets[i] = domain.Bucket{Key: name, Index: i}
	}
	for _, v := range vouchers {
		t := v.EntryDate.In(loc)
		if t.Year() != year {
			continue
		}
		m := int(t.Month()) - 1
		buckets[m].Count++
		buckets[m].AmountSum += v.Amount
	}
	return buckets
}
