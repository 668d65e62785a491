package converter

import (
	"strings"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// DeriveFilename names the artifact after the session directory holding the
// first clip: "/DCIM/2024_0101/clip001.MOV" gives "2024_0101.csv". It returns
// fallback when the first path has no non-empty parent segment.
func DeriveFilename(rs *types.ResultSet, fallback string) string {
	if len(rs.Rows) == 0 || len(rs.Rows[0]) <= types.IdxFileName {
		return fallback
	}

	var path string
	switch p := rs.Rows[0][types.IdxFileName].(type) {
	case string:
		path = p
	case []byte:
		path = string(p)
	default:
		return fallback
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" {
		return fallback
	}
	return parts[len(parts)-2] + ".csv"
}
