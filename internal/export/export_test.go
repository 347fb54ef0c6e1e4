package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/contact-form/internal/contacts"
)

func sample() []contacts.Contact {
	return []contacts.Contact{
		{ID: "id-1", FirstName: "John", LastName: "Smith", Company: "Acme", City: "Springfield", State: "IL"},
		{ID: "id-2", FirstName: "Jane", LastName: "Doe", Company: "Globex", City: "Portland", State: "Oregon"},
	}
}

func TestRegistry_Defaults(t *testing.T) {
	assert.Equal(t, []string{"csv", "json"}, Names())

	exp, err := Lookup("csv")
	require.NoError(t, err)
	assert.Equal(t, "contacts.csv", exp.FileName())

	exp, err = Lookup("json")
	require.NoError(t, err)
	assert.Equal(t, "contacts.json", exp.FileName())

	_, err = Lookup("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("csv", NewCSVExporter))
	assert.Error(t, r.Register("csv", NewCSVExporter))
}

func TestCSV_SingleRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "csv", sample()[:1]))
	assert.Equal(t, "First Name,Last Name,Company,City,State\nJohn,Smith,Acme,Springfield,IL", buf.String())
}

func TestCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "csv", nil))
	assert.Equal(t, "First Name,Last Name,Company,City,State", buf.String())
}

func TestCSV_MissingFieldsAreEmpty(t *testing.T) {
	var buf bytes.Buffer
	records := []contacts.Contact{{FirstName: "Ann", LastName: "Lee", Company: "Foo"}}
	require.NoError(t, WriteTo(&buf, "csv", records))
	assert.Equal(t, "First Name,Last Name,Company,City,State\nAnn,Lee,Foo,,", buf.String())
}

func TestCSV_QuotesEmbeddedSeparators(t *testing.T) {
	records := []contacts.Contact{{
		FirstName: "Ann", LastName: "Lee", Company: "Foo, Inc.", City: `Say "Hi"`, State: "Oregon",
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "csv", records))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Ann,Lee,"Foo, Inc.","Say ""Hi""",Oregon`, lines[1])

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, records[0].Fields(), rows[1])
}

func TestCSV_LeadingSpacesAreNotQuoted(t *testing.T) {
	records := []contacts.Contact{{
		FirstName: " Ann", LastName: "Lee", Company: "   ", City: "Portland", State: `\.`,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "csv", records))
	assert.Equal(t, "First Name,Last Name,Company,City,State\n Ann,Lee,   ,Portland,\\.", buf.String())
}

func TestCSV_QuotesLineBreaks(t *testing.T) {
	records := []contacts.Contact{{
		FirstName: "Ann", LastName: "Lee", Company: "Foo\r\nBar", City: "Portland", State: "Oregon",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "csv", records))
	assert.True(t, strings.HasSuffix(buf.String(), "\nAnn,Lee,\"Foo\r\nBar\",Portland,Oregon"))
}

func TestJSON_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "json", sample()[:1]))

	want := `[
  {
    "firstName": "John",
    "lastName": "Smith",
    "company": "Acme",
    "city": "Springfield",
    "state": "IL"
  }
]`
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "id-1")
}

func TestJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, "json", nil))
	assert.Equal(t, "[]", buf.String())
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	records := sample()
	require.NoError(t, WriteTo(&buf, "json", records))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, len(records))
	for i := range records {
		assert.True(t, contacts.SameFields(records[i], decoded[i]), "record %d", i)
	}
}

func TestEncode_DoesNotMutate(t *testing.T) {
	records := sample()
	before := append([]contacts.Contact(nil), records...)
	for _, name := range Names() {
		var buf bytes.Buffer
		require.NoError(t, WriteTo(&buf, name, records))
	}
	assert.Equal(t, before, records)
}

func TestWrite_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Write(dir, "csv", sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contacts.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "First Name,Last Name"))

	// A second export replaces the first and leaves no temp files behind
	_, err = Write(dir, "csv", sample()[:1])
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_UnknownFormat(t *testing.T) {
	_, err := Write(t.TempDir(), "yaml", sample())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
