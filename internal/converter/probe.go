package converter

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// tableInfoNameIdx is the position of the column name in PRAGMA table_info rows.
const tableInfoNameIdx = 1

// Probe reads the primary table's column list and decides which optional
// fields the export carries. Missing optional columns are not an error; a
// missing primary table yields a plan with every optional field absent.
func Probe(ctx context.Context, db types.QueryExecutor) (types.FieldExtractionPlan, error) {
	rs, err := db.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", types.PrimaryTable))
	if err != nil {
		return types.FieldExtractionPlan{}, fmt.Errorf("probe schema: %w", err)
	}

	var names []string
	for _, row := range rs.Rows {
		if len(row) <= tableInfoNameIdx {
			continue
		}
		if name, ok := row[tableInfoNameIdx].(string); ok {
			names = append(names, name)
		}
	}
	return PlanFromColumns(names), nil
}

// PlanFromColumns builds the extraction plan for a primary table with the
// given column names.
func PlanFromColumns(names []string) types.FieldExtractionPlan {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	plan := types.FieldExtractionPlan{
		HasDigitalEffect: present[types.ColDigitalEffect],
		Extended:         make(map[string]bool, len(types.ExtendedColumns)),
	}

	switch {
	case present[types.ColProjectFrameNum]:
		plan.ProjectFrame = types.ProjectFrameNumDen
	case present[types.ColProjectFrame]:
		plan.ProjectFrame = types.ProjectFrameSharedDen
	default:
		plan.ProjectFrame = types.ProjectFrameUnavailable
	}

	for _, c := range types.ExtendedColumns {
		plan.Extended[c] = present[c]
	}
	return plan
}
