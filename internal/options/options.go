// Package options defines the request configuration for a contour tile and
// its canonical URL encoding, used both as the wire format for requests and
// as the basis of cache keys.
package options

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// GlobalContourOptions configures a whole tileset: per-zoom threshold
// tables plus the rendering knobs that don't vary per request.
type GlobalContourOptions struct {
	// Thresholds maps a zoom level to the elevation levels active at that
	// zoom and above (until a higher zoom entry overrides it).
	Thresholds     map[int][]float64
	ContourLayer   string
	ElevationKey   string
	LevelKey       string
	Extent         int
	Buffer         int
	Overzoom       int
	SubsampleBelow int
	Multiplier     float64
	Encoding       string
}

// ContourOptions is the resolved, per-request form: Levels is the specific
// threshold set that applies at the request's zoom.
type ContourOptions struct {
	Levels         []float64
	ContourLayer   string
	ElevationKey   string
	LevelKey       string
	Extent         int
	Buffer         int
	Overzoom       int
	SubsampleBelow int
	Multiplier     float64
}

// ForZoom resolves the global option set into the concrete options for a
// request at zoom z, picking the highest threshold-table zoom not above z,
// and filling in the per-spec defaults for fields left unset (zero value).
func (g GlobalContourOptions) ForZoom(z int) ContourOptions {
	var levels []float64
	best := -1
	for tz, lv := range g.Thresholds {
		if tz <= z && tz > best {
			best = tz
			levels = lv
		}
	}
	o := ContourOptions{
		Levels:         levels,
		ContourLayer:   g.ContourLayer,
		ElevationKey:   g.ElevationKey,
		LevelKey:       g.LevelKey,
		Extent:         g.Extent,
		Buffer:         g.Buffer,
		Overzoom:       g.Overzoom,
		SubsampleBelow: g.SubsampleBelow,
		Multiplier:     g.Multiplier,
	}
	return o.withDefaults()
}

// withDefaults fills zero-valued fields with spec.md §3's defaults:
// multiplier 1, buffer 1, extent 4096.
func (o ContourOptions) withDefaults() ContourOptions {
	if o.Multiplier == 0 {
		o.Multiplier = 1
	}
	if o.Buffer == 0 {
		o.Buffer = 1
	}
	if o.Extent == 0 {
		o.Extent = 4096
	}
	return o
}

func (g GlobalContourOptions) pairs() map[string]string {
	m := make(map[string]string)
	if g.ContourLayer != "" {
		m["contourLayer"] = g.ContourLayer
	}
	if g.ElevationKey != "" {
		m["elevationKey"] = g.ElevationKey
	}
	if g.LevelKey != "" {
		m["levelKey"] = g.LevelKey
	}
	if g.Extent != 0 {
		m["extent"] = strconv.Itoa(g.Extent)
	}
	if g.Buffer != 0 {
		m["buffer"] = strconv.Itoa(g.Buffer)
	}
	if g.Overzoom != 0 {
		m["overzoom"] = strconv.Itoa(g.Overzoom)
	}
	if g.SubsampleBelow != 0 {
		m["subsampleBelow"] = strconv.Itoa(g.SubsampleBelow)
	}
	if g.Multiplier != 0 {
		m["multiplier"] = strconv.FormatFloat(g.Multiplier, 'g', -1, 64)
	}
	if g.Encoding != "" {
		m["encoding"] = g.Encoding
	}
	if len(g.Thresholds) > 0 {
		m["thresholds"] = encodeThresholds(g.Thresholds)
	}
	return m
}

// Encode serializes opts into its canonical URL form: keys sorted
// lexicographically, joined with "&", each value URL-encoded, per
// spec.md §6.
func Encode(g GlobalContourOptions) string {
	return encodePairs(g.pairs(), "&")
}

func encodePairs(m map[string]string, sep string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + url.QueryEscape(m[k])
	}
	return strings.Join(parts, sep)
}

func encodeThresholds(t map[int][]float64) string {
	zooms := make([]int, 0, len(t))
	for z := range t {
		zooms = append(zooms, z)
	}
	sort.Ints(zooms)

	groups := make([]string, len(zooms))
	for i, z := range zooms {
		levels := make([]string, len(t[z]))
		for j, v := range t[z] {
			levels[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		groups[i] = fmt.Sprintf("%d*%s", z, strings.Join(levels, "*"))
	}
	return strings.Join(groups, "~")
}

// Decode parses a string produced by Encode back into a GlobalContourOptions.
func Decode(s string) (GlobalContourOptions, error) {
	var g GlobalContourOptions
	if s == "" {
		return g, nil
	}
	for _, kv := range strings.Split(s, "&") {
		k, v, err := splitKV(kv)
		if err != nil {
			return GlobalContourOptions{}, err
		}
		switch k {
		case "contourLayer":
			g.ContourLayer = v
		case "elevationKey":
			g.ElevationKey = v
		case "levelKey":
			g.LevelKey = v
		case "encoding":
			g.Encoding = v
		case "extent":
			g.Extent, err = strconv.Atoi(v)
		case "buffer":
			g.Buffer, err = strconv.Atoi(v)
		case "overzoom":
			g.Overzoom, err = strconv.Atoi(v)
		case "subsampleBelow":
			g.SubsampleBelow, err = strconv.Atoi(v)
		case "multiplier":
			g.Multiplier, err = strconv.ParseFloat(v, 64)
		case "thresholds":
			g.Thresholds, err = decodeThresholds(v)
		default:
			return GlobalContourOptions{}, fmt.Errorf("options: unknown key %q", k)
		}
		if err != nil {
			return GlobalContourOptions{}, fmt.Errorf("options: parsing %q: %w", k, err)
		}
	}
	return g, nil
}

func splitKV(kv string) (key, value string, err error) {
	i := strings.IndexByte(kv, '=')
	if i < 0 {
		return "", "", fmt.Errorf("options: malformed pair %q", kv)
	}
	key = kv[:i]
	value, err = url.QueryUnescape(kv[i+1:])
	return key, value, err
}

func decodeThresholds(s string) (map[int][]float64, error) {
	out := make(map[int][]float64)
	for _, group := range strings.Split(s, "~") {
		parts := strings.Split(group, "*")
		if len(parts) < 2 {
			return nil, fmt.Errorf("options: malformed threshold group %q", group)
		}
		z, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("options: malformed threshold zoom %q: %w", parts[0], err)
		}
		levels := make([]float64, len(parts)-1)
		for i, p := range parts[1:] {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("options: malformed threshold level %q: %w", p, err)
			}
			levels[i] = v
		}
		out[z] = levels
	}
	return out, nil
}

// EncodeIndividual serializes a per-request ContourOptions override using
// "," as the field separator, for composing into cache keys alongside a
// request URL per spec.md §4.6 step 2.
func EncodeIndividual(o ContourOptions) string {
	m := make(map[string]string)
	if o.ContourLayer != "" {
		m["contourLayer"] = o.ContourLayer
	}
	if o.ElevationKey != "" {
		m["elevationKey"] = o.ElevationKey
	}
	if o.LevelKey != "" {
		m["levelKey"] = o.LevelKey
	}
	if o.Extent != 0 {
		m["extent"] = strconv.Itoa(o.Extent)
	}
	if o.Buffer != 0 {
		m["buffer"] = strconv.Itoa(o.Buffer)
	}
	if o.Overzoom != 0 {
		m["overzoom"] = strconv.Itoa(o.Overzoom)
	}
	if o.SubsampleBelow != 0 {
		m["subsampleBelow"] = strconv.Itoa(o.SubsampleBelow)
	}
	if o.Multiplier != 0 {
		m["multiplier"] = strconv.FormatFloat(o.Multiplier, 'g', -1, 64)
	}
	if len(o.Levels) > 0 {
		levels := make([]string, len(o.Levels))
		for i, v := range o.Levels {
			levels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		m["levels"] = strings.Join(levels, "*")
	}
	return encodePairs(m, ",")
}
