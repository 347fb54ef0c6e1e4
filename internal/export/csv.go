package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// CSVExporter writes a header row followed by one row per record. Rows are
// separated by "\n" with no trailing newline. Fields that contain a comma,
// quote or line break are quoted per RFC 4180; all others are written as is.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

// Name returns the format identifier
func (e *CSVExporter) Name() string {
	return "csv"
}

// FileName returns the download name
func (e *CSVExporter) FileName() string {
	return "contacts.csv"
}

// Header returns the fixed column names
func Header() []string {
	header := make([]string, contacts.FieldCount)
	for f := contacts.Field(0); f < contacts.FieldCount; f++ {
		header[f] = f.Label()
	}
	return header
}

// Encode writes records as CSV
func (e *CSVExporter) Encode(w io.Writer, records []contacts.Contact) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, Header())
	for _, c := range records {
		bw.WriteByte('\n')
		writeRow(bw, c.Fields())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// writeRow joins fields with commas. Errors surface on Flush.
func writeRow(bw *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			bw.WriteByte(',')
		}
		if !needsQuotes(field) {
			bw.WriteString(field)
			continue
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(field, `"`, `""`))
		bw.WriteByte('"')
	}
}

// needsQuotes reports whether field holds a separator, quote or line break.
// Leading spaces are written as is.
func needsQuotes(field string) bool {
	return strings.ContainsAny(field, ",\"\r\n")
}

func init() {
	Register("csv", NewCSVExporter)
}
