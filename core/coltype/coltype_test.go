package coltype

import (
	"testing"
	"time"
)

func TestIntegerNormalize(t *testing.T) {
	typ := NewInteger("INT", Attrs{Size: 11})

	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"int", 42, int64(42)},
		{"int64", int64(42), int64(42)},
		{"string", "42", int64(42)},
		{"bytes", []byte("42"), int64(42)},
		{"float string", "42.7", int64(42)},
		{"nil", nil, nil},
		{"garbage passes through", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typ.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%v) = %v (%T), want %v", tt.raw, got, got, tt.want)
			}
		})
	}
}

func TestIntegerCompare(t *testing.T) {
	typ := NewInteger("INT", Attrs{})

	if !typ.Compare(int64(7), 7) {
		t.Error("int64(7) and 7 should compare equal")
	}
	if !typ.Compare("7", int64(7)) {
		t.Error("\"7\" and int64(7) should compare equal")
	}
	if typ.Compare(int64(7), int64(8)) {
		t.Error("7 and 8 should not compare equal")
	}
	if typ.Compare("abc", int64(7)) {
		t.Error("garbage should not compare equal to a number")
	}
}

func TestDecimalFormat(t *testing.T) {
	typ := NewDecimal("DECIMAL", Attrs{Size: 10, Precision: 2})

	if got := typ.Format(3.1); got != "3.10" {
		t.Errorf("Format(3.1) = %v, want 3.10", got)
	}
	if got := typ.Format(typ.Normalize("3")); got != "3.00" {
		t.Errorf("Format(Normalize(\"3\")) = %v, want 3.00", got)
	}

	// Without precision the stored float comes back as-is.
	plain := NewDecimal("FLOAT", Attrs{})
	if got := plain.Format(3.5); got != 3.5 {
		t.Errorf("Format(3.5) = %v, want 3.5", got)
	}
}

func TestTemporal(t *testing.T) {
	typ := NewTemporal(KindDateTime)

	v := typ.Normalize("2024-03-01 10:30:00")
	ts, ok := v.(time.Time)
	if !ok {
		t.Fatalf("Normalize returned %T, want time.Time", v)
	}
	if got := typ.Format(ts); got != "2024-03-01 10:30:00" {
		t.Errorf("Format = %v, want 2024-03-01 10:30:00", got)
	}
	if got := typ.Prepare(ts); got != "2024-03-01 10:30:00" {
		t.Errorf("Prepare = %v, want 2024-03-01 10:30:00", got)
	}
	if !typ.Compare(ts, "2024-03-01 10:30:00") {
		t.Error("time.Time should compare equal to its string encoding")
	}

	date := NewTemporal(KindDate)
	if got := date.Format(date.Normalize("2024-03-01")); got != "2024-03-01" {
		t.Errorf("date Format = %v, want 2024-03-01", got)
	}
}

func TestBoolean(t *testing.T) {
	typ := Boolean{}

	for _, raw := range []any{true, 1, int64(1), "1", "true"} {
		if got := typ.Normalize(raw); got != true {
			t.Errorf("Normalize(%v) = %v, want true", raw, got)
		}
	}
	if got := typ.Prepare(true); got != int64(1) {
		t.Errorf("Prepare(true) = %v, want 1", got)
	}
	if !typ.Compare(true, int64(1)) {
		t.Error("true and 1 should compare equal")
	}
}

func TestUUIDNormalize(t *testing.T) {
	typ := UUID{}

	upper := "D9428888-122B-11E1-B85C-61CD3CBB3210"
	lower := "d9428888-122b-11e1-b85c-61cd3cbb3210"
	if got := typ.Normalize(upper); got != lower {
		t.Errorf("Normalize(%s) = %v, want canonical lowercase", upper, got)
	}
	if !typ.Compare(upper, lower) {
		t.Error("case variants of the same uuid should compare equal")
	}
	if got := typ.Normalize("not-a-uuid"); got != "not-a-uuid" {
		t.Errorf("unparseable value should pass through, got %v", got)
	}
}

func TestUnknownIsIdentity(t *testing.T) {
	typ := NewUnknown("geometry")

	if typ.Name() != "GEOMETRY" {
		t.Errorf("Name = %s, want GEOMETRY", typ.Name())
	}
	if got := typ.Normalize("raw"); got != "raw" {
		t.Errorf("Normalize should be identity, got %v", got)
	}
	if !typ.Compare([]string{"a"}, []string{"a"}) {
		t.Error("deep-equal values should compare equal")
	}
	if typ.Compare([]string{"a"}, []string{"b"}) {
		t.Error("differing values should not compare equal")
	}
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry()

	typ := reg.New("GEOMETRY", Attrs{})
	if _, ok := typ.(Unknown); !ok {
		t.Fatalf("unregistered type should fall back to Unknown, got %T", typ)
	}

	if _, ok := reg.Lookup("varchar"); !ok {
		t.Error("lookup should be case-insensitive")
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("point", func(Attrs) Type { return NewText("POINT", Attrs{}) })

	typ := reg.New("POINT", Attrs{})
	if typ.Name() != "POINT" {
		t.Errorf("custom kind not used, got %s", typ.Name())
	}
}

func TestEnumOptions(t *testing.T) {
	typ := NewEnum(Attrs{Options: []string{"on", "off"}})

	if got := typ.Options(); len(got) != 2 || got[0] != "on" {
		t.Errorf("Options = %v, want [on off]", got)
	}
	if !typ.Compare("on", []byte("on")) {
		t.Error("string and bytes encodings should compare equal")
	}
}
