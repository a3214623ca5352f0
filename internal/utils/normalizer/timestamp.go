package normalizer

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTime converts a provider timestamp to a time.Time.
// Accepted shapes: time.Time, Firestore {seconds, nanoseconds} maps (with or without
// leading underscores), formatted strings, and numbers holding Unix milliseconds.
// Strings without a zone offset are read as UTC.
func ToTime(v any) (time.Time, bool) {
	return ToTimeIn(v, time.UTC)
}

// ToTimeIn is ToTime with zoneless strings read in loc.
func ToTimeIn(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case map[string]any:
		return fromSecondsMap(t)
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case int64:
		return time.UnixMilli(t).UTC(), true
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(t)).UTC(), true
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	default:
		return time.Time{}, false
	}
}

func fromSecondsMap(m map[string]any) (time.Time, bool) {
	secs, ok := firstNumber(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := firstNumber(m, "nanoseconds", "_nanoseconds")
	return time.Unix(secs, nanos).UTC(), true
}

func firstNumber(m map[string]any, keys ...string) (int64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case float64:
			return int64(n), true
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
		}
	}
	return 0, false
}
