package converter

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// Validate runs the integrity count query and enforces the join
// preconditions. The report is returned even when the check fails so that
// callers can show the counts.
func Validate(ctx context.Context, db types.QueryExecutor) (types.ValidationReport, error) {
	rs, err := db.Query(ctx, validationQuery)
	if err != nil {
		return types.ValidationReport{}, fmt.Errorf("validate: %w", err)
	}
	if len(rs.Rows) != 1 || len(rs.Rows[0]) != 4 {
		return types.ValidationReport{}, fmt.Errorf("%w: validate: unexpected result shape", types.ErrExecution)
	}

	var counts [4]int64
	for i, v := range rs.Rows[0] {
		n, ok := toInt64(v)
		if !ok {
			return types.ValidationReport{}, fmt.Errorf("%w: validate: count %d is %T", types.ErrExecution, i, v)
		}
		counts[i] = n
	}

	report := types.ValidationReport{
		Total:     counts[0],
		Valid:     counts[1],
		Secondary: counts[2],
		Matched:   counts[3],
	}
	return report, report.Check()
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
