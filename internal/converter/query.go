package converter

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// joinPredicate links each path record to the clip it references.
const joinPredicate = "v.ID = g.video_index"

// validationQuery returns total, valid, secondary and matched counts in
// that order.
var validationQuery = fmt.Sprintf(`SELECT
    (SELECT COUNT(*) FROM %[1]s) AS total_count,
    (SELECT COUNT(*) FROM %[1]s WHERE duration > 0) AS valid_count,
    (SELECT COUNT(*) FROM %[2]s) AS secondary_count,
    (SELECT COUNT(*)
       FROM %[1]s v
       JOIN %[2]s g ON %[3]s
      WHERE v.duration > 0) AS matched_count`,
	types.PrimaryTable, types.SecondaryTable, joinPredicate)

// ValidationQuery returns the integrity count query.
func ValidationQuery() string {
	return validationQuery
}

// projectFrameSQL returns the project frame rate expression for the plan.
func projectFrameSQL(e types.ProjectFrameExpr) string {
	switch e {
	case types.ProjectFrameNumDen:
		return "CAST(v.project_frame_num AS FLOAT) / CAST(v.project_frame_den AS FLOAT)"
	case types.ProjectFrameSharedDen:
		return "CAST(v.project_frame AS FLOAT) / CAST(v.frame_den AS FLOAT)"
	default:
		return "NULL"
	}
}

// optionalSQL references column when present and substitutes an empty
// string otherwise, so the output shape never changes.
func optionalSQL(column string, present bool) string {
	if present {
		return "v." + column
	}
	return "''"
}

// BuildQuery returns the merge query for plan. Its result columns are
// exactly types.OutputColumns.
func BuildQuery(plan types.FieldExtractionPlan) string {
	selects := []struct {
		expr  string
		alias string
	}{
		{"g.file_name", types.OutFileName},
		{projectFrameSQL(plan.ProjectFrame), types.OutProjectFPS},
		{"CAST(v.frame_num AS FLOAT) / CAST(v.frame_den AS FLOAT)", types.OutSensorFPS},
		{"v.duration", types.OutDuration},
		{"v.resolution_width", types.OutWidth},
		{"v.resolution_height", types.OutHeight},
		{"'1/' || CAST(v.shutter_integer AS INTEGER)", types.OutShutterSpeed},
		{"v.ei_value", types.OutEI},
		{"v.wb_count", types.OutWBCount},
		{"v.wb_tint", types.OutWBTint},
		{"CAST(v.shutter_angle AS FLOAT) / 10", types.OutShutterAngle},
		// ND strength is stored as a linear multiplier; log10 gives stops.
		{`CASE
        WHEN v.nd_value = 0 THEN 'Clear'
        WHEN v.nd_value > 0 THEN printf('%.1f', ROUND(LOG10(v.nd_value), 1))
    END`, types.OutND},
		{"CAST(v.aperture AS FLOAT) / 100", types.OutAperture},
		{"v.model_name", types.OutModelName},
		{optionalSQL(types.ColDigitalEffect, plan.HasDigitalEffect), types.OutDigitalEffect},
	}
	for _, c := range types.ExtendedColumns {
		selects = append(selects, struct {
			expr  string
			alias string
		}{optionalSQL(c, plan.Has(c)), c})
	}

	lines := make([]string, len(selects))
	for i, s := range selects {
		lines[i] = fmt.Sprintf("    %s AS %q", s.expr, s.alias)
	}

	return fmt.Sprintf(`SELECT
%s
FROM %s v
JOIN %s g ON %s
WHERE v.duration > 0
ORDER BY v.ID, g.ID`,
		strings.Join(lines, ",\n"), types.PrimaryTable, types.SecondaryTable, joinPredicate)
}
