// Package sqlstore persists contacts in a SQLite database through gorm.
package sqlstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smileynet/contacts/internal/contact"
)

// contactRow is the table schema. Columns are nullable so rows written by
// other tools with a missing value are caught on read.
type contactRow struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	FirstName   *string `gorm:"column:first_name"`
	LastName    *string `gorm:"column:last_name"`
	PhoneNumber *string `gorm:"column:phone_number"`
}

func (contactRow) TableName() string { return "contacts" }

// Store is a contact.Repository backed by SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlstore: empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlstore: creating directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&contactRow{}); err != nil {
		return nil, fmt.Errorf("sqlstore: migrating: %w", err)
	}
	return &Store{db: db}, nil
}

// List returns all contacts ordered by insertion.
func (s *Store) List() ([]contact.Contact, error) {
	var rows []contactRow
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlstore: listing: %w", err)
	}
	out := make([]contact.Contact, 0, len(rows))
	for _, r := range rows {
		c, err := contact.New(r.FirstName, r.LastName, r.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: row %d: %w", r.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Append inserts c as the newest row.
func (s *Store) Append(c contact.Contact) error {
	row := contactRow{
		FirstName:   &c.FirstName,
		LastName:    &c.LastName,
		PhoneNumber: &c.PhoneNumber,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("sqlstore: inserting: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlstore: closing: %w", err)
	}
	return sqlDB.Close()
}
