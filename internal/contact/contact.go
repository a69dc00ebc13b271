// Package contact implements the in-memory contact store.
package contact

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidContact indicates a contact was missing a required field.
var ErrInvalidContact = errors.New("contact: invalid contact")

// Contact is a single stored contact. Values are immutable once created.
type Contact struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// New builds a Contact from optional field values.
// A nil field is treated as absent and rejected with ErrInvalidContact.
// Empty strings are accepted; only presence is checked.
func New(firstName, lastName, phoneNumber *string) (Contact, error) {
	if firstName == nil {
		return Contact{}, fmt.Errorf("%w: first name is required", ErrInvalidContact)
	}
	if lastName == nil {
		return Contact{}, fmt.Errorf("%w: last name is required", ErrInvalidContact)
	}
	if phoneNumber == nil {
		return Contact{}, fmt.Errorf("%w: phone number is required", ErrInvalidContact)
	}
	return Contact{
		FirstName:   *firstName,
		LastName:    *lastName,
		PhoneNumber: *phoneNumber,
	}, nil
}

// Matches reports whether all three fields equal the given values.
func (c Contact) Matches(firstName, lastName, phoneNumber string) bool {
	return c.FirstName == firstName && c.LastName == lastName && c.PhoneNumber == phoneNumber
}

// FullName returns "First Last", trimming the separator when a part is empty.
func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Manager holds contacts in insertion order.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	contacts []Contact
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddContact validates the fields and appends a new contact.
// On error the store is left unchanged.
func (m *Manager) AddContact(firstName, lastName, phoneNumber *string) error {
	c, err := New(firstName, lastName, phoneNumber)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.contacts = append(m.contacts, c)
	m.mu.Unlock()
	return nil
}

// appendPersisted runs persist and, if it succeeds, appends c, all under
// the write lock. Concurrent saves reach the repository and the Manager in
// the same order.
func (m *Manager) appendPersisted(c Contact, persist func(Contact) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if persist != nil {
		if err := persist(c); err != nil {
			return err
		}
	}
	m.contacts = append(m.contacts, c)
	return nil
}

// AllContacts returns a copy of the stored contacts in insertion order.
// Changing the returned slice does not affect the Manager.
func (m *Manager) AllContacts() []Contact {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Contact, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// Len returns the number of stored contacts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contacts)
}

// Find returns the first contact satisfying pred.
func (m *Manager) Find(pred func(Contact) bool) (Contact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.contacts {
		if pred(c) {
			return c, true
		}
	}
	return Contact{}, false
}
