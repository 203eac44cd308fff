package mvt

import (
	"encoding/json"
	"fmt"
	"math"
)

func float32FromBits(b uint32) float32 { return math.Float32frombits(b) }
func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }

// valueKind classifies a property value for MVT's Value sub-message, which
// must carry exactly one of its typed fields.
type valueKind int

const (
	kindString valueKind = iota
	kindFloat
	kindDouble
	kindInt
	kindUint
	kindSint
	kindBool
)

type typedValue struct {
	kind valueKind
	s    string
	f32  float32
	f64  float64
	i64  int64
	u64  uint64
	b    bool
}

// classify converts an arbitrary property value into the MVT Value union,
// JSON-stringifying anything that isn't one of the protocol's primitive
// kinds per spec.md §4.4.
func classify(v interface{}) typedValue {
	switch x := v.(type) {
	case string:
		return typedValue{kind: kindString, s: x}
	case bool:
		return typedValue{kind: kindBool, b: x}
	case float32:
		return typedValue{kind: kindFloat, f32: x}
	case float64:
		return typedValue{kind: kindDouble, f64: x}
	case int:
		return typedValue{kind: kindSint, i64: int64(x)}
	case int32:
		return typedValue{kind: kindSint, i64: int64(x)}
	case int64:
		return typedValue{kind: kindSint, i64: x}
	case uint:
		return typedValue{kind: kindUint, u64: uint64(x)}
	case uint32:
		return typedValue{kind: kindUint, u64: uint64(x)}
	case uint64:
		return typedValue{kind: kindUint, u64: x}
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return typedValue{kind: kindString, s: fmt.Sprintf("%v", x)}
		}
		return typedValue{kind: kindString, s: string(b)}
	}
}

// cacheKey is the "${type}:${value}" string used to deduplicate values
// within a layer's value table.
func (tv typedValue) cacheKey() string {
	switch tv.kind {
	case kindString:
		return "string:" + tv.s
	case kindFloat:
		return fmt.Sprintf("float:%v", tv.f32)
	case kindDouble:
		return fmt.Sprintf("double:%v", tv.f64)
	case kindInt:
		return fmt.Sprintf("int:%v", tv.i64)
	case kindUint:
		return fmt.Sprintf("uint:%v", tv.u64)
	case kindSint:
		return fmt.Sprintf("sint:%v", tv.i64)
	case kindBool:
		return fmt.Sprintf("bool:%v", tv.b)
	}
	return ""
}

func (tv typedValue) encode() []byte {
	var w protoWriter
	switch tv.kind {
	case kindString:
		w.stringField(1, tv.s)
	case kindFloat:
		w.floatField(2, tv.f32)
	case kindDouble:
		w.doubleField(3, tv.f64)
	case kindInt:
		w.varintField(4, uint64(tv.i64))
	case kindUint:
		w.varintField(5, tv.u64)
	case kindSint:
		w.varintField(6, uint64(zigzag(int32(tv.i64))))
	case kindBool:
		v := uint64(0)
		if tv.b {
			v = 1
		}
		w.varintField(7, v)
	}
	return w.buf.Bytes()
}

// decodeValue parses a Value sub-message back into a Go value matching
// what classify/encode produced for it.
func decodeValue(data []byte) (interface{}, error) {
	r := protoReader{data: data}
	for {
		f, ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("mvt: empty value message")
		}
		switch f.num {
		case 1:
			return string(f.data), nil
		case 2:
			return float32FromBits(uint32(f.vint)), nil
		case 3:
			return float64FromBits(f.vint), nil
		case 4:
			return int64(f.vint), nil
		case 5:
			return f.vint, nil
		case 6:
			return int64(unzigzag(uint32(f.vint))), nil
		case 7:
			return f.vint != 0, nil
		}
	}
}
