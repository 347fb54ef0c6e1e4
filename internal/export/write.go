// Package export serializes the contact list to downloadable files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// WriteTo encodes records in the named format to w
func WriteTo(w io.Writer, format string, records []contacts.Contact) error {
	exp, err := Lookup(format)
	if err != nil {
		return err
	}
	return exp.Encode(w, records)
}

// Write saves records in the named format into dir under the exporter's
// file name, replacing any earlier export. It returns the written path.
func Write(dir, format string, records []contacts.Contact) (string, error) {
	exp, err := Lookup(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, exp.FileName())
	if err := writeAtomic(path, func(w io.Writer) error {
		return exp.Encode(w, records)
	}); err != nil {
		return "", err
	}

	log.Info().Str("format", exp.Name()).Str("path", path).Int("count", len(records)).Msg("contacts exported")
	return path, nil
}

// writeAtomic writes through a temp file in the target directory, then
// fsyncs and renames it over path.
func writeAtomic(path string, encode func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := encode(w); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
