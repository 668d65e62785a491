package converter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/djirun/internal/fixture"
	"github.com/mesh-intelligence/djirun/internal/sqlite"
	"github.com/mesh-intelligence/djirun/pkg/types"
)

func validateExport(t *testing.T, e fixture.Export) (types.ValidationReport, error) {
	t.Helper()

	h, err := sqlite.Open(context.Background(), e.Bytes(t))
	require.NoError(t, err)
	defer h.Close()
	return Validate(context.Background(), h)
}

func pathsFor(clips []fixture.Clip) []fixture.Path {
	paths := make([]fixture.Path, len(clips))
	for i, c := range clips {
		paths[i] = fixture.Path{ID: int64(i + 1), VideoIndex: c.ID, FileName: c.Path}
	}
	return paths
}

func TestValidate_Consistent(t *testing.T) {
	report, err := validateExport(t, fixture.Export{Clips: fixture.Session("S1", 4)})
	require.NoError(t, err)
	assert.Equal(t, types.ValidationReport{Total: 4, Valid: 4, Secondary: 4, Matched: 4}, report)
}

func TestValidate_InvalidClipsExcluded(t *testing.T) {
	clips := fixture.Session("S1", 5)
	clips[1].Duration = 0
	clips[3].Duration = -1

	valid := []fixture.Clip{clips[0], clips[2], clips[4]}
	report, err := validateExport(t, fixture.Export{Clips: clips, Paths: pathsFor(valid)})
	require.NoError(t, err)
	assert.Equal(t, types.ValidationReport{Total: 5, Valid: 3, Secondary: 3, Matched: 3}, report)
}

func TestValidate_NoValidRecords(t *testing.T) {
	clips := fixture.Session("S1", 3)
	for i := range clips {
		clips[i].Duration = 0
	}
	clips[2].Duration = -1

	report, err := validateExport(t, fixture.Export{Clips: clips, Paths: []fixture.Path{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNoValidRecords)
	assert.Equal(t, int64(3), report.Total)
}

func TestValidate_CardinalityMismatch(t *testing.T) {
	clips := fixture.Session("S1", 10)

	report, err := validateExport(t, fixture.Export{Clips: clips, Paths: pathsFor(clips[:9])})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCardinalityMismatch)

	var ie *types.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, int64(10), ie.Report.Valid)
	assert.Equal(t, int64(9), ie.Report.Secondary)
	assert.Equal(t, report, ie.Report)
	assert.Contains(t, err.Error(), "10 valid records but 9 path records")
}

func TestValidate_JoinMismatch(t *testing.T) {
	clips := fixture.Session("S1", 10)
	paths := pathsFor(clips)
	paths[4].VideoIndex = 99

	_, err := validateExport(t, fixture.Export{Clips: clips, Paths: paths})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrJoinMismatch)
	assert.Contains(t, err.Error(), "9 records matched by id but 10 valid records")
}

// Paths keyed by their own row id instead of the clip id pass the count
// check but fail the join check.
func TestValidate_DirectIdentifierJoinRejected(t *testing.T) {
	clips := fixture.Session("S1", 3)
	for i := range clips {
		clips[i].ID = int64(100 + i)
	}
	paths := make([]fixture.Path, len(clips))
	for i, c := range clips {
		paths[i] = fixture.Path{ID: c.ID, VideoIndex: int64(i + 1), FileName: c.Path}
	}

	_, err := validateExport(t, fixture.Export{Clips: clips, Paths: paths})
	assert.ErrorIs(t, err, types.ErrJoinMismatch)
}

func TestValidate_MissingTables(t *testing.T) {
	h, err := sqlite.Open(context.Background(), nil)
	require.NoError(t, err)
	defer h.Close()

	_, err = Validate(context.Background(), h)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExecution)
	assert.Contains(t, err.Error(), "no such table")
}

func TestValidate_UnexpectedShape(t *testing.T) {
	fe := &fakeExecutor{handle: func(string) (*types.ResultSet, error) {
		return &types.ResultSet{Columns: []string{"x"}, Rows: []types.Row{{int64(1)}}}, nil
	}}

	_, err := Validate(context.Background(), fe)
	assert.ErrorIs(t, err, types.ErrExecution)
}
