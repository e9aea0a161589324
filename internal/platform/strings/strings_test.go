package strings

import "testing"

func TestSQLNull(t *testing.T) {
	if got := SQLNull("  "); got != nil {
		t.Fatalf("SQLNull(blank) = %v", got)
	}
	if got := SQLNull("HQ-01"); got != "HQ-01" {
		t.Fatalf("SQLNull = %v", got)
	}
}

func TestSQLNullPtr(t *testing.T) {
	if got := SQLNullPtr(nil); got != nil {
		t.Fatalf("SQLNullPtr(nil) = %v", got)
	}
	blank := "\t"
	if got := SQLNullPtr(&blank); got != nil {
		t.Fatalf("SQLNullPtr(blank) = %v", got)
	}
	s := "Main St"
	if got := SQLNullPtr(&s); got != "Main St" {
		t.Fatalf("SQLNullPtr = %v", got)
	}
}

func TestPtrAndDeref(t *testing.T) {
	if Ptr("") != nil {
		t.Fatal("Ptr empty should be nil")
	}
	p := Ptr("x")
	if p == nil || *p != "x" {
		t.Fatalf("Ptr = %v", p)
	}
	if Deref(nil) != "" {
		t.Fatal("Deref(nil) should be empty")
	}
	if Deref(p) != "x" {
		t.Fatal("Deref round trip failed")
	}
}

func TestOrDefault(t *testing.T) {
	if got := OrDefault("  ", "local"); got != "local" {
		t.Fatalf("OrDefault blank = %q", got)
	}
	if got := OrDefault(" run-7 ", "local"); got != "run-7" {
		t.Fatalf("OrDefault = %q", got)
	}
}

func TestEmptyToNil(t *testing.T) {
	if got := EmptyToNil(" \n"); got != "" {
		t.Fatalf("EmptyToNil blank = %q", got)
	}
	if got := EmptyToNil(" keep "); got != " keep " {
		t.Fatalf("EmptyToNil should not trim: %q", got)
	}
}
