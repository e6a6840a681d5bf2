package canonical

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// DecodeJSON lifts JSON text into the value model.
//
// Integers that fit int64 decode as Int, everything else as Float; duplicate
// object keys and trailing content are rejected. DecodeJSON does not undo the
// tagged forms produced by Normalize; a {"$bytes":...} object decodes as the
// map it is, which is what signature pre-image reconstruction requires.
func DecodeJSON(b []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newError(KindDecode, "CJSON-DEC-002", "trailing content after JSON value")
	}
	return v, nil
}

// decodeValue consumes one JSON value token by token. Decoding below the
// stdlib's map layer is what lets duplicate object keys surface instead of
// silently collapsing last-wins.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, wrapError(KindDecode, "CJSON-DEC-001", "invalid JSON", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			out := Array{}
			for dec.More() {
				ev, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, ev)
			}
			if _, err := dec.Token(); err != nil {
				return nil, wrapError(KindDecode, "CJSON-DEC-001", "invalid JSON", err)
			}
			return out, nil
		case '{':
			var entries []MapEntry
			seen := make(map[string]struct{})
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, wrapError(KindDecode, "CJSON-DEC-001", "invalid JSON", err)
				}
				k, ok := ktok.(string)
				if !ok {
					return nil, newError(KindDecode, "CJSON-DEC-004", "unexpected JSON value")
				}
				if _, dup := seen[k]; dup {
					return nil, newError(KindDecode, "CJSON-DEC-005", "duplicate object key "+strconv.Quote(k))
				}
				seen[k] = struct{}{}
				ev, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				entries = append(entries, MapEntry{Key: k, Value: ev})
			}
			if _, err := dec.Token(); err != nil {
				return nil, wrapError(KindDecode, "CJSON-DEC-001", "invalid JSON", err)
			}
			return NewMap(entries...)
		}
		return nil, newError(KindDecode, "CJSON-DEC-004", "unexpected JSON value")
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, wrapError(KindDecode, "CJSON-DEC-003", "unrepresentable number", err)
		}
		return NewFloat(f)
	default:
		return nil, newError(KindDecode, "CJSON-DEC-004", "unexpected JSON value")
	}
}
