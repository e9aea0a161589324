// Package coerce converts the loosely typed scalars found in source documents
// into strict target types. Every function takes the field name for
// diagnostics and never fails the caller: unparseable input yields a safe
// default and a recorded warning
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order after RFC3339. The corpus mixes exporter
// formats, so the alternates are a fixed list rather than a guess loop
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"Jan 2, 2006",
}

// clockLayouts are the accepted time-of-day formats beyond HH:MM[:SS]
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

// isNullSentinel reports whether s spells an explicit null
func isNullSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "undefined":
		return true
	}
	return false
}

// isNASentinel reports whether s spells a known not-available marker
func isNASentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "null", "undefined", "-":
		return true
	}
	return false
}

// Date converts v into a timestamp. Accepted inputs: ISO-8601 strings, the
// fixed alternate layouts above, millisecond unix epochs (numeric), and
// null/undefined sentinels. Unparseable input records a warning and returns nil
func Date(v any, field string, w Sink) *time.Time {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return &x
	case float64:
		return msEpoch(int64(x))
	case int64:
		return msEpoch(x)
	case int:
		return msEpoch(int64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return msEpoch(n)
		}
	case string:
		if isNullSentinel(x) {
			return nil
		}
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	warnf(w, "field %s: cannot parse %v as date", field, v)
	return nil
}

// msEpoch treats n as milliseconds since the unix epoch
func msEpoch(n int64) *time.Time {
	if n == 0 {
		return nil
	}
	t := time.UnixMilli(n).UTC()
	return &t
}

// Decimal converts v into an exact decimal. Native JSON numbers are tried as
// exact decimals first with a float fallback; strings are cleaned of currency
// symbols and thousands separators. Explicit nulls yield nil silently;
// NA markers yield nil with a warning so missing data stays visible
func Decimal(v any, field string, w Sink) *decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		d := decimal.NewFromFloat(x)
		return &d
	case int:
		d := decimal.NewFromInt(int64(x))
		return &d
	case int64:
		d := decimal.NewFromInt(x)
		return &d
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return &d
		}
		if f, err := x.Float64(); err == nil {
			d := decimal.NewFromFloat(f)
			return &d
		}
	case string:
		if isNullSentinel(x) {
			return nil
		}
		if isNASentinel(x) {
			warnf(w, "field %s: not available (%q), using null", field, x)
			return nil
		}
		s := cleanNumeric(x)
		if d, err := decimal.NewFromString(s); err == nil {
			return &d
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			d := decimal.NewFromFloat(f)
			return &d
		}
	case bool:
		// booleans are not numbers; fall through to the warning
	}
	warnf(w, "field %s: cannot parse %v as decimal", field, v)
	return nil
}

// cleanNumeric strips currency symbols, thousands separators, and spaces
func cleanNumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case '$', '£', '€', ',', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Int converts v into an integer using the decimal rules with a
// round-to-nearest fallback for fractional input
func Int(v any, field string, w Sink) *int64 {
	d := Decimal(v, field, w)
	if d == nil {
		return nil
	}
	n := d.Round(0).IntPart()
	return &n
}

// Bool converts v into a boolean. Native true/false, the common textual
// synonyms, and numeric non-zero are recognized; anything else records a
// warning and returns the caller-supplied default
func Bool(v any, field string, def bool, w Sink) bool {
	switch x := v.(type) {
	case nil:
		return def
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f != 0
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "":
			return def
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0":
			return false
		}
	}
	warnf(w, "field %s: cannot parse %v as bool, using %v", field, v, def)
	return def
}

// TimeOfDay converts v into a duration since midnight. Accepted inputs:
// HH:MM[:SS], 4-digit military time, and the fixed alternate clock layouts.
// Failure records a warning and returns zero
func TimeOfDay(v any, field string, w Sink) time.Duration {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		if isNullSentinel(x) {
			return 0
		}
		s := strings.TrimSpace(x)
		for _, layout := range clockLayouts {
			if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
				return sinceMidnight(t)
			}
		}
		if d, ok := military(s); ok {
			return d
		}
	case float64:
		// 4-digit military time supplied as a number, e.g. 1530
		if x == math.Trunc(x) {
			if d, ok := military(strconv.Itoa(int(x))); ok {
				return d
			}
		}
	case json.Number:
		if d, ok := military(x.String()); ok {
			return d
		}
	}
	warnf(w, "field %s: cannot parse %v as time of day", field, v)
	return 0
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// military parses HHMM strings like "0930" or "1745"
func military(s string) (time.Duration, bool) {
	if len(s) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	hh, mm := n/100, n%100
	if hh > 23 || mm > 59 {
		return 0, false
	}
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute, true
}

// String flattens a loosely typed scalar into its text form. Numbers keep
// their shortest representation; null sentinels collapse to ""
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if isNullSentinel(x) {
			return ""
		}
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Float converts v into a float64 pointer using the decimal rules
func Float(v any, field string, w Sink) *float64 {
	d := Decimal(v, field, w)
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

func warnf(w Sink, format string, a ...any) {
	if w == nil {
		return
	}
	w.Warn(fmt.Sprintf(format, a...))
}
