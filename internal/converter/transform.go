package converter

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// standardFStops are rendered compactly; anything else gets a space so a
// non-standard aperture stands out.
var standardFStops = map[string]bool{
	"2.8": true,
	"3.2": true,
	"3.5": true,
	"4":   true,
	"5.6": true,
	"8":   true,
	"11":  true,
	"16":  true,
}

// TransformRow returns a copy of row with the display rewrites applied by
// position: file name, shutter angle and aperture. Other values are copied
// unchanged.
func TransformRow(row types.Row) types.Row {
	out := make(types.Row, len(row))
	copy(out, row)

	if len(out) > types.IdxFileName {
		out[types.IdxFileName] = baseName(out[types.IdxFileName])
	}
	if len(out) > types.IdxShutterAngle {
		out[types.IdxShutterAngle] = formatShutterAngle(out[types.IdxShutterAngle])
	}
	if len(out) > types.IdxAperture {
		out[types.IdxAperture] = formatAperture(out[types.IdxAperture])
	}
	return out
}

// Transform applies TransformRow to every row of rs.
func Transform(rs *types.ResultSet) []types.Row {
	rows := make([]types.Row, len(rs.Rows))
	for i, r := range rs.Rows {
		rows[i] = TransformRow(r)
	}
	return rows
}

// baseName keeps the last '/'-separated segment of a device path.
func baseName(v any) any {
	var path string
	switch p := v.(type) {
	case string:
		path = p
	case []byte:
		path = string(p)
	default:
		return v
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func formatShutterAngle(v any) any {
	x, ok := toFloat(v)
	if !ok {
		return v
	}
	return strconv.FormatFloat(x, 'f', 1, 64)
}

func formatAperture(v any) any {
	x, ok := toFloat(v)
	if !ok {
		return v
	}
	s := strings.TrimSuffix(strconv.FormatFloat(x, 'f', 1, 64), ".0")
	if standardFStops[s] {
		return "F" + s
	}
	return "F " + s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
