package canonical

import "testing"

// Encode output feeds signatures and content addresses, so it must be stable
// across repeated calls and across map construction order.
func TestDeterminism_RepeatedEncode(t *testing.T) {
	v, err := Normalize(map[string]any{
		"name":    "agent",
		"count":   3,
		"blob":    []byte{0x00, 0x01, 0x02},
		"nested":  map[string]any{"z": 1, "a": 2, "m": []any{"x", "y"}},
		"enabled": true,
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	first, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode #%d: %v", i, err)
		}
		if string(again) != string(first) {
			t.Fatalf("Encode not deterministic: %s vs %s", again, first)
		}
	}
}

func TestDeterminism_NormalizeTwice(t *testing.T) {
	in := map[string]any{"b": map[string]any{"y": 2, "x": 1}, "a": []any{1, 2, 3}}

	v1, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize(1): %v", err)
	}
	v2, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize(2): %v", err)
	}
	e1, _ := Encode(v1)
	e2, _ := Encode(v2)
	if string(e1) != string(e2) {
		t.Fatalf("normalization not stable: %s vs %s", e1, e2)
	}
}
