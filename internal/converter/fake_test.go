package converter

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// fakeExecutor answers queries from a function and counts Close calls.
type fakeExecutor struct {
	handle   func(query string) (*types.ResultSet, error)
	queries  []string
	closed   int
	closeErr error
}

func (f *fakeExecutor) Query(_ context.Context, query string) (*types.ResultSet, error) {
	f.queries = append(f.queries, query)
	return f.handle(query)
}

func (f *fakeExecutor) Close() error {
	f.closed++
	return f.closeErr
}

// scripted answers the probe, validation and merge queries with fixed results.
func scripted(columns []string, report types.ValidationReport, merge *types.ResultSet) func(string) (*types.ResultSet, error) {
	return func(q string) (*types.ResultSet, error) {
		switch {
		case strings.HasPrefix(q, "PRAGMA"):
			rs := &types.ResultSet{Columns: []string{"cid", "name", "type", "notnull", "dflt_value", "pk"}}
			for i, c := range columns {
				rs.Rows = append(rs.Rows, types.Row{int64(i), c, "INTEGER", int64(0), nil, int64(0)})
			}
			return rs, nil
		case q == ValidationQuery():
			return &types.ResultSet{
				Columns: []string{"total_count", "valid_count", "secondary_count", "matched_count"},
				Rows:    []types.Row{{report.Total, report.Valid, report.Secondary, report.Matched}},
			}, nil
		default:
			return merge, nil
		}
	}
}
