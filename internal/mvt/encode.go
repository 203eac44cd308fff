package mvt

import "fmt"

// Feature is one MVT feature: Lines holds its geometry as one part per
// LineString/ring (a single part for Point's multipoint case). Properties
// maps key to value; nil values are omitted entirely.
type Feature struct {
	Type       GeomType
	Lines      [][][2]int32
	Properties map[string]interface{}
}

// Layer is one named collection of features sharing an extent.
type Layer struct {
	Name     string
	Extent   uint32
	Features []Feature
}

// layerTable deduplicates a layer's keys and values by insertion order.
type layerTable struct {
	keys      []string
	keyIndex  map[string]int
	values    []typedValue
	valIndex  map[string]int
}

func newLayerTable() *layerTable {
	return &layerTable{
		keyIndex: make(map[string]int),
		valIndex: make(map[string]int),
	}
}

func (t *layerTable) keyIdx(k string) int {
	if i, ok := t.keyIndex[k]; ok {
		return i
	}
	i := len(t.keys)
	t.keys = append(t.keys, k)
	t.keyIndex[k] = i
	return i
}

func (t *layerTable) valIdx(v interface{}) int {
	tv := classify(v)
	ck := tv.cacheKey()
	if i, ok := t.valIndex[ck]; ok {
		return i
	}
	i := len(t.values)
	t.values = append(t.values, tv)
	t.valIndex[ck] = i
	return i
}

// Encode serializes layers into an MVT v2 byte stream.
func Encode(layers []Layer) []byte {
	var tile protoWriter
	for _, l := range layers {
		layerBytes := encodeLayer(l)
		tile.bytesField(3, layerBytes)
	}
	return tile.buf.Bytes()
}

func encodeLayer(l Layer) []byte {
	table := newLayerTable()

	// Tags must be computed before keys/values are serialized so the
	// dedup tables are fully populated (insertion order = first use).
	featureTags := make([][]uint32, len(l.Features))
	for i, f := range l.Features {
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			keys = append(keys, k)
		}
		sortStrings(keys)

		var tags []uint32
		for _, k := range keys {
			v := f.Properties[k]
			if v == nil {
				continue
			}
			tags = append(tags, uint32(table.keyIdx(k)), uint32(table.valIdx(v)))
		}
		featureTags[i] = tags
	}

	var w protoWriter
	w.stringField(1, l.Name)

	for i, f := range l.Features {
		fb := encodeFeature(f, featureTags[i])
		w.bytesField(2, fb)
	}

	for _, k := range table.keys {
		w.stringField(3, k)
	}
	for _, v := range table.values {
		w.bytesField(4, v.encode())
	}

	extent := l.Extent
	if extent == 0 {
		extent = 4096
	}
	w.varintField(5, uint64(extent))
	w.varintField(15, 2)

	return w.buf.Bytes()
}

func encodeFeature(f Feature, tags []uint32) []byte {
	var w protoWriter
	if len(tags) > 0 {
		w.packedVarints(2, tags)
	}
	w.varintField(3, uint64(f.Type))
	cmds := encodeGeometry(f.Type, f.Lines)
	w.packedVarints(4, cmds)
	return w.buf.Bytes()
}

// sortStrings is a tiny insertion sort to avoid pulling in sort for a
// handful of property keys per feature.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Decode parses an MVT v2 byte stream back into layers.
func Decode(data []byte) ([]Layer, error) {
	r := protoReader{data: data}
	var layers []Layer
	for {
		f, ok, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("mvt: decode tile: %w", err)
		}
		if !ok {
			break
		}
		if f.num != 3 {
			continue
		}
		l, err := decodeLayer(f.data)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func decodeLayer(data []byte) (Layer, error) {
	r := protoReader{data: data}
	l := Layer{Extent: 4096}
	var keys []string
	var values []interface{}
	type rawFeature struct {
		tags []uint32
		typ  GeomType
		cmds []uint32
	}
	var raw []rawFeature

	for {
		f, ok, err := r.next()
		if err != nil {
			return Layer{}, fmt.Errorf("mvt: decode layer: %w", err)
		}
		if !ok {
			break
		}
		switch f.num {
		case 1:
			l.Name = string(f.data)
		case 2:
			rf, err := decodeFeature(f.data)
			if err != nil {
				return Layer{}, err
			}
			raw = append(raw, rf)
		case 3:
			keys = append(keys, string(f.data))
		case 4:
			v, err := decodeValue(f.data)
			if err != nil {
				return Layer{}, err
			}
			values = append(values, v)
		case 5:
			l.Extent = uint32(f.vint)
		}
	}

	for _, rf := range raw {
		props := make(map[string]interface{}, len(rf.tags)/2)
		for i := 0; i+1 < len(rf.tags); i += 2 {
			k := keys[rf.tags[i]]
			v := values[rf.tags[i+1]]
			props[k] = v
		}
		l.Features = append(l.Features, Feature{
			Type:       rf.typ,
			Lines:      decodeGeometry(rf.typ, rf.cmds),
			Properties: props,
		})
	}
	return l, nil
}

func decodeFeature(data []byte) (struct {
	tags []uint32
	typ  GeomType
	cmds []uint32
}, error) {
	type rawFeature = struct {
		tags []uint32
		typ  GeomType
		cmds []uint32
	}
	r := protoReader{data: data}
	var rf rawFeature
	for {
		f, ok, err := r.next()
		if err != nil {
			return rawFeature{}, fmt.Errorf("mvt: decode feature: %w", err)
		}
		if !ok {
			break
		}
		switch f.num {
		case 2:
			tags, err := readVarints(f.data)
			if err != nil {
				return rawFeature{}, err
			}
			rf.tags = tags
		case 3:
			rf.typ = GeomType(f.vint)
		case 4:
			cmds, err := readVarints(f.data)
			if err != nil {
				return rawFeature{}, err
			}
			rf.cmds = cmds
		}
	}
	return rf, nil
}
