package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// record is the exported shape: the five fields, without the store ID.
type record struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// JSONExporter writes the record list as a 2-space indented array
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

// Name returns the format identifier
func (e *JSONExporter) Name() string {
	return "json"
}

// FileName returns the download name
func (e *JSONExporter) FileName() string {
	return "contacts.json"
}

// Encode writes records as JSON. An empty list is written as [].
func (e *JSONExporter) Encode(w io.Writer, records []contacts.Contact) error {
	out := make([]record, len(records))
	for i, c := range records {
		out[i] = record{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Company:   c.Company,
			City:      c.City,
			State:     c.State,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

// Decode parses an exported JSON document back into records
func Decode(r io.Reader) ([]contacts.Contact, error) {
	var in []record
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding json export: %w", err)
	}
	out := make([]contacts.Contact, len(in))
	for i, rec := range in {
		out[i] = contacts.Contact{
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Company:   rec.Company,
			City:      rec.City,
			State:     rec.State,
		}
	}
	return out, nil
}

func init() {
	Register("json", NewJSONExporter)
}
