package converter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// FormatValue renders one result value as CSV field text. NULL becomes the
// empty string and reals use the shortest exact decimal form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// EscapeField quotes s, doubling inner quotes, only when s contains a comma,
// a double quote or a newline.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// commentLines renders comment text as '#' lines. Lines that already start
// with '#' are kept as they are.
func commentLines(comments []string) []string {
	var out []string
	for _, c := range comments {
		for _, line := range strings.Split(c, "\n") {
			if strings.HasPrefix(line, "#") {
				out = append(out, line)
				continue
			}
			out = append(out, "# "+line)
		}
	}
	return out
}

// Serialize renders optional comment lines, the header and rows as CSV
// joined with '\n'. No trailing newline is written.
func Serialize(comments, header []string, rows []types.Row) []byte {
	lines := commentLines(comments)

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = EscapeField(h)
	}
	lines = append(lines, strings.Join(fields, ","))

	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = EscapeField(FormatValue(v))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}
