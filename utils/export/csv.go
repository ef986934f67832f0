// Package export serialises flat tabular records to CSV text for download.
//
// The CSV dialect is deliberately minimal: string values that contain a comma
// are wrapped in double quotes and nothing else is escaped. Embedded quotes
// pass through unchanged, which downstream spreadsheets tolerate for the data
// the dashboard exports.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Field is a single named value within a Row
type Field struct {
	Key   string
	Value any
}

// Row is an ordered flat record. Keys keep their insertion order so the
// header of an export matches the order the record was built in.
type Row []Field

// Get returns the value stored under key and whether it was present
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in order
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// ConvertToCSV renders rows as CSV text. The header comes from the keys of the
// first row; later rows are projected onto that header, with missing keys
// rendered empty. Lines are joined by "\n" with no trailing newline, and an
// empty input yields "".
func ConvertToCSV(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	headers := rows[0].Keys()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))

	cells := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			v, _ := row.Get(h)
			cells[i] = cell(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

// WriteCSV writes the ConvertToCSV rendering of rows to w
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := io.WriteString(w, ConvertToCSV(rows)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// SaveCSV writes rows to the file at path, replacing any existing file
func SaveCSV(path string, rows []Row) error {
	if err := os.WriteFile(path, []byte(ConvertToCSV(rows)), 0644); err != nil {
		return fmt.Errorf("failed to write csv to file %s: %w", path, err)
	}
	return nil
}

// cell renders one value the way a browser would stringify it when joining a row
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(x, ",") {
			return `"` + x + `"`
		}
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case *float64:
		if x == nil {
			return ""
		}
		return formatNumber(*x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// formatNumber matches the shortest round-trip rendering used by JavaScript's
// String(n), including its switch to exponent notation outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
