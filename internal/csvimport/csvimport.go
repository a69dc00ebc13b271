// Package csvimport reads contacts from CSV files.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smileynet/contacts/internal/contact"
)

// header is the optional first row of an import file.
var header = []string{"first_name", "last_name", "phone_number"}

// RowError records why a single row was rejected.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ImportError collects every rejected row of an import.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("csvimport: %d invalid rows: %s", len(e.Rows), strings.Join(msgs, "; "))
}

// Unwrap exposes the row causes so errors.Is(err, contact.ErrInvalidContact) works.
func (e *ImportError) Unwrap() []error {
	errs := make([]error, len(e.Rows))
	for i, r := range e.Rows {
		errs[i] = r
	}
	return errs
}

// Read parses contacts from r. A row with fewer than three cells is missing
// a field and is rejected; extra cells are ignored. Valid rows are returned
// even when some rows fail, together with an *ImportError.
func Read(r io.Reader) ([]contact.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out     []contact.Contact
		rowErrs []RowError
		first   = true
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		c, err := contact.New(cell(rec, 0), cell(rec, 1), cell(rec, 2))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		out = append(out, c)
	}

	if len(rowErrs) > 0 {
		return out, &ImportError{Rows: rowErrs}
	}
	return out, nil
}

// Into reads contacts from r and adds each valid one to m through repo.
// It returns the number of contacts added.
func Into(m *contact.Manager, repo contact.Repository, r io.Reader) (int, error) {
	contacts, readErr := Read(r)
	var ie *ImportError
	if readErr != nil && !errors.As(readErr, &ie) {
		return 0, readErr
	}

	added := 0
	for i := range contacts {
		c := contacts[i]
		if _, err := contact.Save(m, repo, &c.FirstName, &c.LastName, &c.PhoneNumber); err != nil {
			return added, err
		}
		added++
	}
	return added, readErr
}

func cell(rec []string, i int) *string {
	if i >= len(rec) {
		return nil
	}
	return &rec[i]
}

func isHeader(rec []string) bool {
	if len(rec) < len(header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}
