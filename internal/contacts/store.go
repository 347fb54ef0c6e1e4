package contacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// SlotKey is the slot the record list is persisted under.
	SlotKey = "nameSubmissions"

	// CorruptSlotKey receives an unreadable SlotKey value before it is replaced.
	CorruptSlotKey = SlotKey + ".corrupt"
)

var (
	// ErrIndexOutOfRange is returned for an index that names no record.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrCorruptSlot is returned by Load when the persisted list cannot be decoded.
	ErrCorruptSlot = errors.New("persisted contacts are corrupt")
)

// Slot is a single persistent key/value cell.
type Slot interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store is the ordered record list, mirrored to a Slot on every mutation.
type Store struct {
	slot    Slot
	records []Contact
}

// Load reads the persisted list. A missing slot yields an empty store.
// Records are read leniently (see decodeRecords), so only a value that is
// not a JSON array counts as corrupt: the store starts empty, the raw value
// is copied to CorruptSlotKey and the returned error wraps ErrCorruptSlot.
// Any other returned error leaves the store nil.
func Load(slot Slot) (*Store, error) {
	s := &Store{slot: slot, records: []Contact{}}

	raw, ok, err := slot.Get(SlotKey)
	if err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}
	if !ok {
		return s, nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		if berr := slot.Set(CorruptSlotKey, raw); berr != nil {
			return nil, fmt.Errorf("preserving corrupt contacts: %w", berr)
		}
		log.Warn().Err(err).Str("backup", CorruptSlotKey).Msg("persisted contacts unreadable, starting empty")
		return s, fmt.Errorf("%w: %v (original kept under %s)", ErrCorruptSlot, err, CorruptSlotKey)
	}
	if records != nil {
		s.records = records
	}

	log.Debug().Int("count", len(s.records)).Msg("contacts loaded")
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// List returns a copy of the records in order.
func (s *Store) List() []Contact {
	out := make([]Contact, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the record at index.
func (s *Store) At(index int) (Contact, error) {
	if err := s.checkIndex(index); err != nil {
		return Contact{}, err
	}
	return s.records[index], nil
}

// IndexOf returns the position of the record with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.records {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Add validates c, appends it and persists the list.
func (s *Store) Add(c Contact) (Contact, error) {
	if err := Validate(c); err != nil {
		return Contact{}, err
	}
	if c.ID == "" {
		c.ID = newID()
	}

	prev := s.records
	s.records = append(s.List(), c)
	if err := s.persist(); err != nil {
		s.records = prev
		return Contact{}, err
	}

	log.Info().Int("index", len(s.records)-1).Str("id", c.ID).Msg("contact added")
	return c, nil
}

// Replace validates c and overwrites the record at index, keeping its ID.
func (s *Store) Replace(index int, c Contact) (Contact, error) {
	if err := s.checkIndex(index); err != nil {
		return Contact{}, err
	}
	if err := Validate(c); err != nil {
		return Contact{}, err
	}
	c.ID = s.records[index].ID
	if c.ID == "" {
		c.ID = newID()
	}

	prev := s.records
	s.records = s.List()
	s.records[index] = c
	if err := s.persist(); err != nil {
		s.records = prev
		return Contact{}, err
	}

	log.Info().Int("index", index).Str("id", c.ID).Msg("contact updated")
	return c, nil
}

// Remove deletes the record at index, preserving the order of the rest.
func (s *Store) Remove(index int) (Contact, error) {
	if err := s.checkIndex(index); err != nil {
		return Contact{}, err
	}

	prev := s.records
	removed := s.records[index]
	next := make([]Contact, 0, len(s.records)-1)
	next = append(next, s.records[:index]...)
	next = append(next, s.records[index+1:]...)
	s.records = next
	if err := s.persist(); err != nil {
		s.records = prev
		return Contact{}, err
	}

	log.Info().Int("index", index).Str("id", removed.ID).Msg("contact removed")
	return removed, nil
}

// persist overwrites the slot with the whole list.
func (s *Store) persist() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encoding contacts: %w", err)
	}
	if err := s.slot.Set(SlotKey, string(data)); err != nil {
		return fmt.Errorf("saving contacts: %w", err)
	}
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.records))
	}
	return nil
}

// AssignMissingIDs gives every persisted record without an ID a fresh one and
// rewrites the slot. Other keys and values are written back unchanged. An
// empty slot, or one that is not a JSON array, is left untouched.
func AssignMissingIDs(slot Slot) (int, error) {
	raw, ok, err := slot.Get(SlotKey)
	if err != nil {
		return 0, fmt.Errorf("reading contacts: %w", err)
	}
	if !ok {
		return 0, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return 0, nil
	}

	assigned := 0
	for i, e := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err != nil || obj == nil {
			continue
		}
		if text(obj["id"]) != "" {
			continue
		}
		id, err := json.Marshal(newID())
		if err != nil {
			return 0, fmt.Errorf("encoding id: %w", err)
		}
		obj["id"] = id
		if elems[i], err = json.Marshal(obj); err != nil {
			return 0, fmt.Errorf("encoding record %d: %w", i, err)
		}
		assigned++
	}
	if assigned == 0 {
		return 0, nil
	}

	data, err := json.Marshal(elems)
	if err != nil {
		return 0, fmt.Errorf("encoding contacts: %w", err)
	}
	if err := slot.Set(SlotKey, string(data)); err != nil {
		return 0, fmt.Errorf("saving contacts: %w", err)
	}
	return assigned, nil
}

// decodeRecords reads a persisted array without a schema check. Each field
// is taken as text: strings as is, null or missing as "", other values in
// their JSON form. An element that is not an object reads as an empty
// record. Only input that is not a JSON array is an error.
func decodeRecords(raw string) ([]Contact, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, err
	}

	records := make([]Contact, len(elems))
	for i, e := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err != nil {
			continue
		}
		records[i] = Contact{
			ID:        text(obj["id"]),
			FirstName: text(obj["firstName"]),
			LastName:  text(obj["lastName"]),
			Company:   text(obj["company"]),
			City:      text(obj["city"]),
			State:     text(obj["state"]),
		}
	}
	return records, nil
}

// text renders one JSON value as a field value.
func text(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// MemorySlot is an in-process Slot. Writes counts Set calls. The zero value
// is ready to use.
type MemorySlot struct {
	Values map[string]string
	Writes int
	Err    error
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{Values: map[string]string{}}
}

// Get implements Slot.
func (m *MemorySlot) Get(key string) (string, bool, error) {
	v, ok := m.Values[key]
	return v, ok, nil
}

// Set implements Slot. When Err is non-nil it is returned and nothing is stored.
func (m *MemorySlot) Set(key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Values == nil {
		m.Values = map[string]string{}
	}
	m.Values[key] = value
	m.Writes++
	return nil
}
