// Package mvt encodes and decodes Mapbox Vector Tile v2 byte streams by hand,
// writing the length-delimited protobuf messages directly rather than going
// through a generated protobuf binding.
package mvt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	wireVarint = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

// protoWriter accumulates a protobuf message using a single reusable varint
// scratch buffer, matching the manual encoding/binary style used elsewhere
// in this module's wire formats.
type protoWriter struct {
	buf     bytes.Buffer
	scratch [binary.MaxVarintLen64]byte
}

func (w *protoWriter) varint(v uint64) {
	n := binary.PutUvarint(w.scratch[:], v)
	w.buf.Write(w.scratch[:n])
}

func (w *protoWriter) tag(field, wireType int) {
	w.varint(uint64(field)<<3 | uint64(wireType))
}

func (w *protoWriter) varintField(field int, v uint64) {
	w.tag(field, wireVarint)
	w.varint(v)
}

func (w *protoWriter) bytesField(field int, b []byte) {
	w.tag(field, wireBytes)
	w.varint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *protoWriter) stringField(field int, s string) {
	w.bytesField(field, []byte(s))
}

func (w *protoWriter) doubleField(field int, v float64) {
	w.tag(field, wireFixed64)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *protoWriter) floatField(field int, v float32) {
	w.tag(field, wireFixed32)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

// packedVarints writes vals as a single length-delimited field of
// concatenated varints (the "packed repeated" encoding used for tags and
// geometry commands).
func (w *protoWriter) packedVarints(field int, vals []uint32) {
	var sub bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte
	for _, v := range vals {
		n := binary.PutUvarint(scratch[:], uint64(v))
		sub.Write(scratch[:n])
	}
	w.bytesField(field, sub.Bytes())
}

// zigzag maps a signed delta to an unsigned value so small magnitudes of
// either sign encode to a short varint.
func zigzag(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// protoReader walks a protobuf byte stream one field at a time.
type protoReader struct {
	data []byte
	pos  int
}

type wireField struct {
	num  int
	typ  int
	vint uint64
	data []byte
}

func (r *protoReader) next() (wireField, bool, error) {
	if r.pos >= len(r.data) {
		return wireField{}, false, nil
	}
	key, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return wireField{}, false, fmt.Errorf("mvt: malformed field tag at offset %d", r.pos)
	}
	r.pos += n
	f := wireField{num: int(key >> 3), typ: int(key & 0x7)}
	switch f.typ {
	case wireVarint:
		v, n := binary.Uvarint(r.data[r.pos:])
		if n <= 0 {
			return wireField{}, false, fmt.Errorf("mvt: malformed varint at offset %d", r.pos)
		}
		f.vint = v
		r.pos += n
	case wireBytes:
		l, n := binary.Uvarint(r.data[r.pos:])
		if n <= 0 {
			return wireField{}, false, fmt.Errorf("mvt: malformed length at offset %d", r.pos)
		}
		r.pos += n
		if r.pos+int(l) > len(r.data) {
			return wireField{}, false, fmt.Errorf("mvt: length-delimited field overruns buffer")
		}
		f.data = r.data[r.pos : r.pos+int(l)]
		r.pos += int(l)
	case wireFixed64:
		if r.pos+8 > len(r.data) {
			return wireField{}, false, fmt.Errorf("mvt: fixed64 overruns buffer")
		}
		f.vint = binary.LittleEndian.Uint64(r.data[r.pos:])
		r.pos += 8
	case wireFixed32:
		if r.pos+4 > len(r.data) {
			return wireField{}, false, fmt.Errorf("mvt: fixed32 overruns buffer")
		}
		f.vint = uint64(binary.LittleEndian.Uint32(r.data[r.pos:]))
		r.pos += 4
	default:
		return wireField{}, false, fmt.Errorf("mvt: unsupported wire type %d", f.typ)
	}
	return f, true, nil
}

func readVarints(b []byte) ([]uint32, error) {
	out := make([]uint32, 0, len(b))
	pos := 0
	for pos < len(b) {
		v, n := binary.Uvarint(b[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("mvt: malformed packed varint")
		}
		out = append(out, uint32(v))
		pos += n
	}
	return out, nil
}
