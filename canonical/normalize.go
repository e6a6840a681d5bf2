package canonical

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/mr-tron/base58"
)

// Omit marks a map entry as absent. Entries whose value is Omit are dropped
// during normalization; absence, not null, is the representation of
// "no value".
var Omit = omitted{}

type omitted struct{}

// Normalize lifts a host value into the canonical model.
//
// The supported host types are a closed set: nil, bool, the integer and float
// kinds, string, []byte, *big.Int, time.Time, ed25519.PublicKey, []any,
// map[string]any, and Value itself. Anything else fails with KindEncode;
// there is no structural duck typing, only exhaustive case analysis.
//
// Ancestor cycles fail with KindCycle. The visited set is entered on descent
// and removed on return, so siblings may share a referenced object; only a
// value that contains itself is rejected.
func Normalize(v any) (Value, error) {
	return normalize(v, make(map[uintptr]struct{}))
}

func normalize(v any, visited map[uintptr]struct{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return bigIntTag(new(big.Int).SetUint64(uint64(t))), nil
		}
		return Int(t), nil
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return bigIntTag(new(big.Int).SetUint64(t)), nil
		}
		return Int(t), nil
	case float32:
		return NewFloat(float64(t))
	case float64:
		return NewFloat(t)
	case string:
		return String(t), nil
	case ed25519.PublicKey:
		// Checked before []byte: identity keys get their own tag.
		if len(t) != ed25519.PublicKeySize {
			return nil, newError(KindEncode, "CJSON-NRM-002", "invalid ed25519 public key length")
		}
		return MapOf(map[string]Value{"$pubkey": String(base58.Encode(t))}), nil
	case []byte:
		return MapOf(map[string]Value{
			"$bytes":   String(base64.StdEncoding.EncodeToString(t)),
			"encoding": String("base64"),
		}), nil
	case *big.Int:
		if t == nil {
			return Null{}, nil
		}
		return bigIntTag(t), nil
	case big.Int:
		return bigIntTag(&t), nil
	case time.Time:
		return MapOf(map[string]Value{"$time": String(t.UTC().Format(time.RFC3339Nano))}), nil
	case []any:
		id := reflect.ValueOf(t).Pointer()
		if _, seen := visited[id]; seen {
			return nil, newError(KindCycle, "CJSON-CYC-001", "circular reference in sequence")
		}
		visited[id] = struct{}{}
		out := make(Array, 0, len(t))
		for _, e := range t {
			ev, err := normalize(e, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		delete(visited, id)
		return out, nil
	case map[string]any:
		id := reflect.ValueOf(t).Pointer()
		if _, seen := visited[id]; seen {
			return nil, newError(KindCycle, "CJSON-CYC-001", "circular reference in map")
		}
		visited[id] = struct{}{}
		entries := make([]MapEntry, 0, len(t))
		for k, e := range t {
			if _, skip := e.(omitted); skip {
				continue
			}
			ev, err := normalize(e, visited)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: k, Value: ev})
		}
		delete(visited, id)
		return NewMap(entries...)
	default:
		return nil, newError(KindEncode, "CJSON-NRM-001", fmt.Sprintf("unsupported type %T", v))
	}
}

func bigIntTag(i *big.Int) Map {
	return MapOf(map[string]Value{"$bigint": String(i.String())})
}
