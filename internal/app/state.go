// Package app holds the view controller state: which view is showing, the
// form draft and which record (if any) the draft edits. Every transition is
// a function from one State to the next; only Submit and Delete touch the
// store.
package app

import (
	"errors"
	"fmt"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// View is one of the three mutually exclusive screens.
type View int

const (
	ViewNew View = iota
	ViewManage
	ViewAbout
)

// Views lists every view in navigation order.
var Views = []View{ViewNew, ViewManage, ViewAbout}

// String returns the view identifier.
func (v View) String() string {
	switch v {
	case ViewNew:
		return "new"
	case ViewManage:
		return "manage"
	case ViewAbout:
		return "about"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Title returns the navigation label.
func (v View) Title() string {
	switch v {
	case ViewNew:
		return "New Entry"
	case ViewManage:
		return "Manage Entries"
	case ViewAbout:
		return "About"
	}
	return v.String()
}

// NotEditing is the Editing value of a draft that creates a new record.
const NotEditing = -1

// Draft is the uncommitted form content.
type Draft = contacts.Contact

// State is the complete controller state.
type State struct {
	View    View
	Draft   Draft
	Editing int
}

// New returns the initial state: an empty form in the New Entry view.
func New() State {
	return State{View: ViewNew, Editing: NotEditing}
}

// IsEditing reports whether the draft is bound to an existing record.
func (s State) IsEditing() bool {
	return s.Editing != NotEditing
}

// Navigate switches to v. The draft is kept.
func (s State) Navigate(v View) State {
	s.View = v
	return s
}

// SetField updates one field of the draft.
func (s State) SetField(f contacts.Field, value string) State {
	s.Draft = s.Draft.Set(f, value)
	return s
}

// Cancel clears the draft and the edit reference. The view is unchanged.
func (s State) Cancel() State {
	s.Draft = Draft{}
	s.Editing = NotEditing
	return s
}

// Edit loads record into the draft, binds it to index and shows the form.
func (s State) Edit(index int, record contacts.Contact) State {
	s.Draft = Draft{
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Company:   record.Company,
		City:      record.City,
		State:     record.State,
	}
	s.Editing = index
	s.View = ViewNew
	return s
}

// Notice describes a completed submission.
type Notice struct {
	Title   string
	Text    string
	Updated bool
}

// Submit validates the draft and commits it: Replace when editing, Add
// otherwise. On success the draft and edit reference are cleared and the
// view stays on the form. On failure the state is returned unchanged.
func Submit(s State, store *contacts.Store) (State, Notice, error) {
	if err := contacts.Validate(s.Draft); err != nil {
		return s, Notice{}, err
	}

	var (
		saved contacts.Contact
		err   error
	)
	updated := s.IsEditing()
	if updated {
		saved, err = store.Replace(s.Editing, s.Draft)
	} else {
		saved, err = store.Add(s.Draft)
	}
	if err != nil {
		return s, Notice{}, err
	}

	n := Notice{
		Title:   "Entry Saved!",
		Text:    fmt.Sprintf("%s %s has been added successfully.", saved.FirstName, saved.LastName),
		Updated: updated,
	}
	if updated {
		n.Title = "Entry Updated!"
		n.Text = fmt.Sprintf("%s %s has been updated successfully.", saved.FirstName, saved.LastName)
	}

	s.Draft = Draft{}
	s.Editing = NotEditing
	s.View = ViewNew
	return s, n, nil
}

// Delete removes the record at index without confirmation. An edit bound
// to the removed record is dropped; one bound to a later record follows it
// to its new position.
func Delete(s State, store *contacts.Store, index int) (State, error) {
	if _, err := store.Remove(index); err != nil {
		return s, err
	}

	switch {
	case !s.IsEditing():
	case s.Editing == index:
		s = s.Cancel()
	case s.Editing > index:
		s.Editing--
	}
	return s, nil
}

// IsValidationError reports whether err came from the field length rule.
func IsValidationError(err error) bool {
	return errors.Is(err, contacts.ErrInvalidContact)
}
