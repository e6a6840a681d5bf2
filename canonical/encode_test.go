package canonical

import (
	"math"
	"testing"
)

func mustMap(t *testing.T, entries ...MapEntry) Map {
	t.Helper()
	m, err := NewMap(entries...)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func TestEncode_SortsKeysByByteOrder(t *testing.T) {
	m := mustMap(t,
		MapEntry{Key: "value", Value: Int(42)},
		MapEntry{Key: "label", Value: String("demo")},
	)
	out, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"label":"demo","value":42}`
	if string(out) != want {
		t.Fatalf("Encode: got %s want %s", out, want)
	}
}

func TestEncode_InsertionOrderIrrelevant(t *testing.T) {
	a := mustMap(t,
		MapEntry{Key: "a", Value: Int(1)},
		MapEntry{Key: "b", Value: Int(2)},
		MapEntry{Key: "c", Value: Int(3)},
	)
	b := mustMap(t,
		MapEntry{Key: "c", Value: Int(3)},
		MapEntry{Key: "a", Value: Int(1)},
		MapEntry{Key: "b", Value: Int(2)},
	)
	ea, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode(a): %v", err)
	}
	eb, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode(b): %v", err)
	}
	if string(ea) != string(eb) {
		t.Fatalf("encodings differ: %s vs %s", ea, eb)
	}
}

func TestEncode_RejectsDuplicateKeys(t *testing.T) {
	_, err := NewMap(
		MapEntry{Key: "x", Value: Int(1)},
		MapEntry{Key: "x", Value: Int(2)},
	)
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if !IsUnsupported(err) {
		t.Fatalf("expected KindEncode, got %v", err)
	}
}

func TestEncode_NumberForms(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Int(0), "0"},
		{Int(-7), "-7"},
		{Float(42), "42"},
		{Float(math.Copysign(0, -1)), "0"},
		{Float(0.5), "0.5"},
		{Float(1e21), "1e+21"},
		{Float(-2.25), "-2.25"},
	}
	for _, c := range cases {
		out, err := Encode(c.in)
		if err != nil {
			t.Fatalf("Encode(%v): %v", c.in, err)
		}
		if string(out) != c.want {
			t.Fatalf("Encode(%v): got %s want %s", c.in, out, c.want)
		}
	}
}

func TestEncode_RejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewFloat(f); err == nil {
			t.Fatalf("NewFloat(%v): expected error", f)
		}
		if _, err := Encode(Float(f)); err == nil {
			t.Fatalf("Encode(Float(%v)): expected error", f)
		}
	}
}

func TestEncode_StringEscaping(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"back\\slash", `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{"\x01", `""`},
		{"héllo", `"héllo"`},
	}
	for _, c := range cases {
		out, err := Encode(String(c.in))
		if err != nil {
			t.Fatalf("Encode(%q): %v", c.in, err)
		}
		if string(out) != c.want {
			t.Fatalf("Encode(%q): got %s want %s", c.in, out, c.want)
		}
	}
}

func TestEncode_ArrayPreservesOrder(t *testing.T) {
	out, err := Encode(Array{Int(3), Int(1), Int(2)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != "[3,1,2]" {
		t.Fatalf("got %s", out)
	}
}

func TestEncode_NestedStructure(t *testing.T) {
	inner := mustMap(t, MapEntry{Key: "z", Value: Null{}}, MapEntry{Key: "a", Value: Bool(true)})
	m := mustMap(t,
		MapEntry{Key: "list", Value: Array{inner, String("x")}},
	)
	out, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"list":[{"a":true,"z":null},"x"]}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}
