package contact

import "fmt"

// Repository persists contacts between process runs.
type Repository interface {
	List() ([]Contact, error)
	Append(c Contact) error
}

// Load builds a Manager populated with every contact in repo.
// Repositories validate entries as they read them.
func Load(repo Repository) (*Manager, error) {
	stored, err := repo.List()
	if err != nil {
		return nil, fmt.Errorf("contact: loading: %w", err)
	}
	m := NewManager()
	m.contacts = append(m.contacts, stored...)
	return m, nil
}

// Save validates the fields, persists the contact to repo and then adds it to m.
// Nothing is written or added when validation or persistence fails. Saves
// through the same Manager are serialized, so repo and m keep the same order.
func Save(m *Manager, repo Repository, firstName, lastName, phoneNumber *string) (Contact, error) {
	c, err := New(firstName, lastName, phoneNumber)
	if err != nil {
		return Contact{}, err
	}
	var persist func(Contact) error
	if repo != nil {
		persist = repo.Append
	}
	if err := m.appendPersisted(c, persist); err != nil {
		return Contact{}, fmt.Errorf("contact: saving: %w", err)
	}
	return c, nil
}
