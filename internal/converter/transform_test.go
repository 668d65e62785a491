package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

func TestFormatAperture(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{2.8, "F2.8"},
		{4.5, "F 4.5"},
		{4.0, "F4"},
		{int64(8), "F8"},
		{11.0, "F11"},
		{16.0, "F16"},
		{5.6, "F5.6"},
		{3.2, "F3.2"},
		{3.5, "F3.5"},
		{22.0, "F 22"},
		{1.7, "F 1.7"},
		{2.84, "F2.8"},
		{nil, nil},
		{"auto", "auto"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAperture(tt.in), "aperture %v", tt.in)
	}
}

func TestFormatShutterAngle(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{180.0, "180.0"},
		{172.5, "172.5"},
		{int64(90), "90.0"},
		{nil, nil},
		{"auto", "auto"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatShutterAngle(tt.in), "angle %v", tt.in)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"/DCIM/2024_0101/clip001.MOV", "clip001.MOV"},
		{"clip001.MOV", "clip001.MOV"},
		{"/DCIM/dir/", ""},
		{[]byte("/a/b.MOV"), "b.MOV"},
		{nil, nil},
		{int64(5), int64(5)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, baseName(tt.in), "path %v", tt.in)
	}
}

func TestTransformRow_RewritesByPositionOnly(t *testing.T) {
	row := make(types.Row, len(types.OutputColumns))
	for i := range row {
		row[i] = int64(i)
	}
	row[types.IdxFileName] = "/DCIM/S1/clip.MOV"
	row[types.IdxShutterAngle] = 180.0
	row[types.IdxAperture] = 2.8
	row[11] = "Clear"

	out := TransformRow(row)

	assert.Len(t, out, len(row))
	assert.Equal(t, "clip.MOV", out[types.IdxFileName])
	assert.Equal(t, "180.0", out[types.IdxShutterAngle])
	assert.Equal(t, "F2.8", out[types.IdxAperture])
	assert.Equal(t, "Clear", out[11])
	assert.Equal(t, int64(3), out[3])

	// Input row is untouched.
	assert.Equal(t, "/DCIM/S1/clip.MOV", row[types.IdxFileName])
}

func TestTransformRow_ShortRow(t *testing.T) {
	out := TransformRow(types.Row{"/a/b.MOV"})
	assert.Equal(t, types.Row{"b.MOV"}, out)
}
