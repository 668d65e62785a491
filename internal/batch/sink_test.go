package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

func TestDirSink_ReplacesFileFromEarlierRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	art := &types.OutputArtifact{Filename: "S1.csv", Content: []byte("a,b\n1,2"), MimeType: types.MimeTypeCSV}
	got, err := (&DirSink{Dir: dir}).Emit(context.Background(), art)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "S1.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, art.Content, data)

	art2 := &types.OutputArtifact{Filename: "S1.csv", Content: []byte("a,b\n3,4")}
	got2, err := (&DirSink{Dir: dir}).Emit(context.Background(), art2)
	require.NoError(t, err)
	assert.Equal(t, got, got2)
	data, err = os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n3,4", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDirSink_SameNameWithinRun(t *testing.T) {
	dir := t.TempDir()
	sink := &DirSink{Dir: dir}

	names := []string{"100MEDIA.csv", "100MEDIA.csv", "merged.csv", "100MEDIA.csv", "100MEDIA-2.csv"}
	want := []string{"100MEDIA.csv", "100MEDIA-2.csv", "merged.csv", "100MEDIA-3.csv", "100MEDIA-2-2.csv"}

	for i, name := range names {
		got, err := sink.Emit(context.Background(), &types.OutputArtifact{Filename: name, Content: []byte{byte('0' + i)}})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, want[i]), got)
	}

	for i, name := range want {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, []byte{byte('0' + i)}, data, name)
	}
}

func TestDirSink_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	got, err := (&DirSink{Dir: dir}).Emit(context.Background(), &types.OutputArtifact{Filename: "../escape.csv"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.csv"), got)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &WriterSink{W: &buf}

	for _, c := range []string{"h\n1", "h\n2"} {
		loc, err := sink.Emit(context.Background(), &types.OutputArtifact{Content: []byte(c)})
		require.NoError(t, err)
		assert.Equal(t, "-", loc)
	}
	assert.Equal(t, "h\n1\nh\n2", buf.String())
}

// failAfter accepts limit bytes, then fails every write.
type failAfter struct {
	limit int
	n     int
}

var errBrokenPipe = errors.New("broken pipe")

func (w *failAfter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errBrokenPipe
	}
	w.n += len(p)
	return len(p), nil
}

func TestWriterSink_WriteErrorsWrapped(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"first artifact content", 0},
		{"separator before second artifact", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &WriterSink{W: &failAfter{limit: tt.limit}}
			var err error
			for _, c := range []string{"h\n1", "h\n2"} {
				if _, err = sink.Emit(context.Background(), &types.OutputArtifact{Content: []byte(c)}); err != nil {
					break
				}
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errBrokenPipe)
			assert.Contains(t, err.Error(), "write output")
		})
	}
}
