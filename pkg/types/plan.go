package types

import "fmt"

// ProjectFrameExpr selects how the project frame rate is computed.
type ProjectFrameExpr int

// Project frame rate forms, chosen by column presence.
const (
	// ProjectFrameUnavailable emits NULL for every row.
	ProjectFrameUnavailable ProjectFrameExpr = iota
	// ProjectFrameNumDen divides project_frame_num by project_frame_den.
	ProjectFrameNumDen
	// ProjectFrameSharedDen divides project_frame by the sensor frame_den.
	ProjectFrameSharedDen
)

func (e ProjectFrameExpr) String() string {
	switch e {
	case ProjectFrameUnavailable:
		return "unavailable"
	case ProjectFrameNumDen:
		return "project_frame_num/project_frame_den"
	case ProjectFrameSharedDen:
		return "project_frame/frame_den"
	default:
		return fmt.Sprintf("ProjectFrameExpr(%d)", int(e))
	}
}

// FieldExtractionPlan records which optional columns an export carries.
// It is built once per file by the schema probe and never mutated.
type FieldExtractionPlan struct {
	ProjectFrame     ProjectFrameExpr
	HasDigitalEffect bool

	// Extended holds the presence of each name in ExtendedColumns.
	Extended map[string]bool
}

// Has reports whether the optional extended column name is present.
func (p FieldExtractionPlan) Has(name string) bool {
	return p.Extended[name]
}
