package errors

import (
	stderrs "errors"
	"fmt"
	"io"
	"testing"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"new", New(ErrorCodeParse, "bad document"), ErrorCodeParse},
		{"sugar", Coercionf("field %s", "latitude"), ErrorCodeCoercion},
		{"wrapped", Wrap(io.ErrUnexpectedEOF, ErrorCodeIO, "read"), ErrorCodeIO},
		{"rewrapped by std", fmt.Errorf("outer: %w", DBf("tx failed")), ErrorCodeDB},
		{"foreign", stderrs.New("plain"), ErrorCodeUnknown},
		{"nil", nil, ErrorCodeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Fatalf("CodeOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRootAndUnwrap(t *testing.T) {
	cause := stderrs.New("disk full")
	err := Wrapf(Wrap(cause, ErrorCodeIO, "write log"), ErrorCodeDB, "import %s", "a.json")

	if got := Root(err); got != cause {
		t.Fatalf("Root = %v", got)
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("errors.Is lost the cause through wrapping")
	}
	if !IsCode(err, ErrorCodeDB) {
		t.Fatal("outer code should win")
	}
}

func TestWithFieldCopyOnWrite(t *testing.T) {
	base := Coercionf("not a number")
	tagged := WithOp(WithField(base, "hours_per_week"), "job_info")

	e, ok := As(tagged)
	if !ok {
		t.Fatal("As failed")
	}
	if e.Field() != "hours_per_week" || e.Op() != "job_info" {
		t.Fatalf("field=%q op=%q", e.Field(), e.Op())
	}
	orig, _ := As(base)
	if orig.Field() != "" {
		t.Fatal("WithField mutated the original")
	}

	plain := stderrs.New("plain")
	if got := WithField(plain, "x"); got != plain {
		t.Fatalf("WithField on foreign error = %v", got)
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "noop") != nil {
		t.Fatal("WrapIf(nil) != nil")
	}
	if !IsCode(WrapIf(stderrs.New("x"), ErrorCodeValidation, "check"), ErrorCodeValidation) {
		t.Fatal("WrapIf lost code")
	}
}

func TestCodeStrings(t *testing.T) {
	if got := ErrorCodeDuplicateKey.String(); got != "duplicate_key" {
		t.Fatalf("String = %q", got)
	}
	if got := ErrorCode(999).String(); got != "unknown" {
		t.Fatalf("String = %q", got)
	}
}
