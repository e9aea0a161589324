package coerce

import (
	"testing"
	"time"
)

func TestDate_Table(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string // RFC3339 or "" for nil
		warn bool
	}{
		{name: "rfc3339", in: "2024-03-01T09:30:00Z", want: "2024-03-01T09:30:00Z"},
		{name: "date only", in: "2024-03-01", want: "2024-03-01T00:00:00Z"},
		{name: "slash date", in: "01/03/2024", want: "2024-03-01T00:00:00Z"},
		{name: "space datetime", in: "2024-03-01 09:30:00", want: "2024-03-01T09:30:00Z"},
		{name: "ms epoch", in: float64(1709285400000), want: "2024-03-01T09:30:00Z"},
		{name: "null sentinel", in: "null", want: ""},
		{name: "undefined sentinel mixed case", in: "Undefined", want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "garbage", in: "next tuesday", want: "", warn: true},
		{name: "wrong type", in: []any{}, want: "", warn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarnings()
			got := Date(tt.in, "startDate", w)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("want nil, got %v", got)
				}
			} else {
				want, err := time.Parse(time.RFC3339, tt.want)
				if err != nil {
					t.Fatal(err)
				}
				if got == nil || !got.Equal(want) {
					t.Fatalf("want %v, got %v", want, got)
				}
			}
			if warned := w.Len() > 0; warned != tt.warn {
				t.Fatalf("warn: want %v, got %v (%v)", tt.warn, warned, w.Snapshot())
			}
		})
	}
}

func TestDecimal_Table(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string // decimal string or "" for nil
		warn bool
	}{
		{name: "native float", in: 4.5, want: "4.5"},
		{name: "native int", in: float64(40), want: "40"},
		{name: "numeric string", in: "4.5", want: "4.5"},
		{name: "currency", in: "$1,250.75", want: "1250.75"},
		{name: "pound", in: "£99", want: "99"},
		{name: "na", in: "N/A", want: "", warn: true},
		{name: "empty", in: "", want: ""},
		{name: "null", in: "null", want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "garbage", in: "four and a half", want: "", warn: true},
		{name: "bool", in: true, want: "", warn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarnings()
			got := Decimal(tt.in, "hoursPerWeek", w)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("want nil, got %v", got)
				}
			} else if got == nil || got.String() != tt.want {
				t.Fatalf("want %s, got %v", tt.want, got)
			}
			if warned := w.Len() > 0; warned != tt.warn {
				t.Fatalf("warn: want %v, got %v (%v)", tt.warn, warned, w.Snapshot())
			}
		})
	}
}

func TestInt_RoundsFractional(t *testing.T) {
	w := NewWarnings()
	got := Int("4.6", "daysPerWeek", w)
	if got == nil || *got != 5 {
		t.Fatalf("want 5, got %v", got)
	}
	if w.Len() != 0 {
		t.Fatalf("unexpected warnings: %v", w.Snapshot())
	}
}

func TestBool_Table(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  bool
		want bool
		warn bool
	}{
		{name: "native true", in: true, want: true},
		{name: "yes", in: "yes", want: true},
		{name: "n", in: "N", want: false},
		{name: "one string", in: "1", want: true},
		{name: "numeric nonzero", in: float64(2), want: true},
		{name: "numeric zero", in: float64(0), want: false},
		{name: "empty uses default", in: "", def: true, want: true},
		{name: "nil uses default", in: nil, def: true, want: true},
		{name: "garbage uses default", in: "maybe", def: true, want: true, warn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarnings()
			got := Bool(tt.in, "isPermanent", tt.def, w)
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
			if warned := w.Len() > 0; warned != tt.warn {
				t.Fatalf("warn: want %v, got %v (%v)", tt.warn, warned, w.Snapshot())
			}
		})
	}
}

func TestTimeOfDay_Table(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
		warn bool
	}{
		{name: "hh:mm:ss", in: "09:30:15", want: 9*time.Hour + 30*time.Minute + 15*time.Second},
		{name: "hh:mm", in: "17:45", want: 17*time.Hour + 45*time.Minute},
		{name: "military", in: "0930", want: 9*time.Hour + 30*time.Minute},
		{name: "military numeric", in: float64(1745), want: 17*time.Hour + 45*time.Minute},
		{name: "am pm", in: "3:04 pm", want: 15*time.Hour + 4*time.Minute},
		{name: "null", in: "null", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "bad military", in: "2575", want: 0, warn: true},
		{name: "garbage", in: "noonish", want: 0, warn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarnings()
			got := TimeOfDay(tt.in, "startTime", w)
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
			if warned := w.Len() > 0; warned != tt.warn {
				t.Fatalf("warn: want %v, got %v (%v)", tt.warn, warned, w.Snapshot())
			}
		})
	}
}

func TestString_Table(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "plain", in: " hello ", want: "hello"},
		{name: "null sentinel", in: "NULL", want: ""},
		{name: "number", in: float64(42), want: "42"},
		{name: "fraction", in: 4.5, want: "4.5"},
		{name: "nil", in: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWarnings_Bounded(t *testing.T) {
	w := NewWarnings()
	for i := 0; i < 10; i++ {
		w.Warnf("warning %d", i)
	}
	got := w.Bounded(3)
	if len(got) != 4 {
		t.Fatalf("want 3 warnings + truncation note, got %d: %v", len(got), got)
	}
	if got[3] != "... and 7 more" {
		t.Fatalf("unexpected truncation note: %q", got[3])
	}
}

func TestWarnings_ConcurrentAppend(t *testing.T) {
	w := NewWarnings()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				w.Warn("x")
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if w.Len() != 800 {
		t.Fatalf("want 800, got %d", w.Len())
	}
}
