package canonical

import (
	"bytes"
	"math"
	"strconv"
)

// Encode is the mandatory serialization choke point for the value model.
//
// Output is deterministic and unambiguous: equal values produce identical
// bytes regardless of construction order, and no two distinct values share an
// encoding. All signing, verification and CID derivation MUST go through
// Encode.
func Encode(v Value) ([]byte, error) {
	var b bytes.Buffer
	if err := write(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func write(b *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case Null:
		b.WriteString("null")
	case Bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case Float:
		s, err := formatFloat(float64(t))
		if err != nil {
			return err
		}
		b.WriteString(s)
	case String:
		writeString(b, string(t))
	case Array:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if e == nil {
				return newError(KindEncode, "CJSON-ENC-001", "nil element has no canonical form")
			}
			if err := write(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case Map:
		b.WriteByte('{')
		for i, e := range t.entries {
			if i > 0 {
				b.WriteByte(',')
			}
			writeString(b, e.Key)
			b.WriteByte(':')
			if e.Value == nil {
				return newError(KindEncode, "CJSON-ENC-001", "nil entry has no canonical form")
			}
			if err := write(b, e.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return newError(KindEncode, "CJSON-ENC-002", "value outside the canonical model")
	}
	return nil
}

// formatFloat emits the single canonical textual form for a finite double:
// integral values in plain integer notation, everything else in the shortest
// round-trip form. Negative zero collapses to "0" so equal numbers cannot
// encode differently.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", newError(KindEncode, "CJSON-VAL-001", "number must be finite")
	}
	if f == 0 {
		return "0", nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// writeString emits s with one fixed escaping: the two mandatory escapes,
// short forms for common control characters, and lowercase \u00xx for the
// rest. Multi-byte UTF-8 passes through verbatim.
func writeString(b *bytes.Buffer, s string) {
	const hexdigits = "0123456789abcdef"
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\b':
			b.WriteString(`\b`)
		case c == '\f':
			b.WriteString(`\f`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexdigits[c>>4])
			b.WriteByte(hexdigits[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
