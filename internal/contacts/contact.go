// Package contacts holds the contact record type and the ordered store that
// mirrors the record list into a persistent key/value slot.
package contacts

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinFieldLength is the minimum number of characters every field must hold.
const MinFieldLength = 3

// ErrInvalidContact is matched by every validation failure.
var ErrInvalidContact = errors.New("invalid contact")

// Contact is one entry. Its identity in the store is its position; ID is
// assigned on creation and carried through edits.
type Contact struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// Field names a contact attribute.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldCompany
	FieldCity
	FieldState
	FieldCount
)

// Label is the human-readable column name, also used as the CSV header.
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldCompany:
		return "Company"
	case FieldCity:
		return "City"
	case FieldState:
		return "State"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Get returns the value of field f.
func (c Contact) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return c.FirstName
	case FieldLastName:
		return c.LastName
	case FieldCompany:
		return c.Company
	case FieldCity:
		return c.City
	case FieldState:
		return c.State
	}
	return ""
}

// Set returns a copy of c with field f replaced.
func (c Contact) Set(f Field, value string) Contact {
	switch f {
	case FieldFirstName:
		c.FirstName = value
	case FieldLastName:
		c.LastName = value
	case FieldCompany:
		c.Company = value
	case FieldCity:
		c.City = value
	case FieldState:
		c.State = value
	}
	return c
}

// Fields returns the five values in column order.
func (c Contact) Fields() []string {
	out := make([]string, FieldCount)
	for f := Field(0); f < FieldCount; f++ {
		out[f] = c.Get(f)
	}
	return out
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SameFields reports whether a and b hold the same five values, ignoring ID.
func SameFields(a, b Contact) bool {
	a.ID, b.ID = "", ""
	return a == b
}

// ValidationError lists the fields shorter than MinFieldLength.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Label()
	}
	return fmt.Sprintf("all fields must be at least %d characters long (too short: %s)",
		MinFieldLength, strings.Join(names, ", "))
}

// Is lets errors.Is match ErrInvalidContact.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidContact
}

// Validate checks the length rule on every field. Values are not trimmed.
func Validate(c Contact) error {
	var short []Field
	for f := Field(0); f < FieldCount; f++ {
		if utf8.RuneCountInString(c.Get(f)) < MinFieldLength {
			short = append(short, f)
		}
	}
	if len(short) > 0 {
		return &ValidationError{Fields: short}
	}
	return nil
}
