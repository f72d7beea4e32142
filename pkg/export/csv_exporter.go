package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
//
// Fields are quoted only when they contain a comma, a double quote, CR or LF;
// embedded quotes are doubled and records are joined with "\n".
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. A dataset without rows
// renders to nothing, not even a header line.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	if len(data.Rows) == 0 {
		return []byte{}, nil
	}

	lines := make([]string, 0, len(data.Rows)+1)
	lines = append(lines, joinRecord(data.Headers))
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		lines = append(lines, joinRecord(record))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// EscapeField quotes value when it carries a delimiter, quote or line break.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func joinRecord(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = EscapeField(field)
	}
	return strings.Join(escaped, ",")
}
