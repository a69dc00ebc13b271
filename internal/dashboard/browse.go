package dashboard

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

// CursorMarker is the prefix shown on the selected contact row.
const CursorMarker = "▸ "

// browseState manages the contact list, cursor, and loading/error states
// for the left pane.
type browseState struct {
	contacts   []contact.Contact // in display order
	loaded     []contact.Contact // in insertion order, kept for toggling sort
	cursor     int
	loading    bool
	err        error
	sortByLast bool
}

// newBrowseState returns a browseState in the loading state.
func newBrowseState() browseState {
	return browseState{loading: true}
}

// loadContacts returns a tea.Cmd that calls lister.List() asynchronously
// and wraps the result in a ContactListMsg.
func loadContacts(lister ContactLister) tea.Cmd {
	return func() tea.Msg {
		contacts, err := lister.List()
		return ContactListMsg{Contacts: contacts, Err: err}
	}
}

// Update processes messages for the browse state.
func (bs browseState) Update(msg tea.Msg) (browseState, tea.Cmd) {
	switch msg := msg.(type) {
	case ContactListMsg:
		return bs.applyList(msg.Contacts, msg.Err), nil

	case tea.KeyMsg:
		if bs.loading {
			return bs, nil
		}
		return bs.handleKey(msg)
	}

	return bs, nil
}

// applyList applies a fetched list (or error), clearing the loading
// indicator and resetting the cursor.
func (bs browseState) applyList(contacts []contact.Contact, err error) browseState {
	bs.loading = false
	if err != nil {
		bs.err = err
		bs.contacts = nil
		bs.loaded = nil
		return bs
	}
	bs.err = nil
	bs.loaded = append([]contact.Contact(nil), contacts...)
	bs.contacts = bs.ordered()
	bs.cursor = 0
	return bs
}

// ordered returns the loaded contacts in the current display order.
func (bs browseState) ordered() []contact.Contact {
	out := append([]contact.Contact(nil), bs.loaded...)
	if bs.sortByLast {
		sort.SliceStable(out, func(i, j int) bool {
			li, lj := strings.ToLower(out[i].LastName), strings.ToLower(out[j].LastName)
			if li != lj {
				return li < lj
			}
			return strings.ToLower(out[i].FirstName) < strings.ToLower(out[j].FirstName)
		})
	}
	return out
}

func (bs browseState) handleKey(msg tea.KeyMsg) (browseState, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if len(bs.contacts) > 0 {
			bs.cursor--
			if bs.cursor < 0 {
				bs.cursor = len(bs.contacts) - 1
			}
		}
		return bs, nil

	case "down", "j":
		if len(bs.contacts) > 0 {
			bs.cursor++
			if bs.cursor >= len(bs.contacts) {
				bs.cursor = 0
			}
		}
		return bs, nil

	case "s":
		bs.sortByLast = !bs.sortByLast
		bs.contacts = bs.ordered()
		bs.cursor = 0
		return bs, nil

	case "r":
		bs.loading = true
		bs.err = nil
		return bs, func() tea.Msg { return RefreshMsg{} }
	}

	return bs, nil
}

// Selected returns the contact at the cursor, or false if the list is empty.
func (bs browseState) Selected() (contact.Contact, bool) {
	if len(bs.contacts) == 0 || bs.cursor < 0 || bs.cursor >= len(bs.contacts) {
		return contact.Contact{}, false
	}
	return bs.contacts[bs.cursor], true
}

// View renders the list pane content.
// spinnerView is the current spinner frame.
func (bs browseState) View(spinnerView string) string {
	if bs.loading {
		return fmt.Sprintf("%s Loading contacts...", spinnerView)
	}

	if bs.err != nil {
		return fmt.Sprintf("Error: %s\n\nPress r to retry", bs.err)
	}

	if len(bs.contacts) == 0 {
		return "No contacts. Press r to refresh"
	}

	var b strings.Builder
	for i, c := range bs.contacts {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == bs.cursor {
			b.WriteString(CursorMarker)
			b.WriteString(selectedText.Render(displayName(c)))
		} else {
			b.WriteString("  ")
			b.WriteString(displayName(c))
		}
	}
	return b.String()
}

// displayName is the list label for c; unnamed contacts show their phone number.
func displayName(c contact.Contact) string {
	if name := c.FullName(); name != "" {
		return name
	}
	if c.PhoneNumber != "" {
		return c.PhoneNumber
	}
	return "(unnamed)"
}
