// Package dashboard implements a two-pane TUI for browsing contacts.
// Separate from internal/tui which handles non-interactive list output.
package dashboard

import "github.com/smileynet/contacts/internal/contact"

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Left pane (contact list) has focus.
	PaneRight              // Right pane (detail) has focus.
)

// ContactLister loads the contacts to browse.
type ContactLister interface {
	List() ([]contact.Contact, error)
}

// ListerFunc adapts a plain function to ContactLister.
type ListerFunc func() ([]contact.Contact, error)

// List calls f.
func (f ListerFunc) List() ([]contact.Contact, error) { return f() }

// ContactListMsg carries the result of an asynchronous contact load.
type ContactListMsg struct {
	Contacts []contact.Contact
	Err      error
}

// RefreshMsg requests a reload of the contact list.
type RefreshMsg struct{}
