// Package tui renders contact lists for the terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts/internal/contact"
)

// EmptyMessage is printed when there are no contacts to show.
const EmptyMessage = "No contacts"

// Display renders a list of contacts.
type Display interface {
	Render(contacts []contact.Contact) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
}

// NewDisplay returns a styled display when the writer is a TTY, or a plain
// text display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer}
	}

	return &StyledDisplay{w: opts.Writer}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay renders one tab-separated line per contact.
type PlainDisplay struct {
	w io.Writer
}

// Render writes first name, last name and phone number separated by tabs.
func (d *PlainDisplay) Render(contacts []contact.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(d.w, EmptyMessage)
		return err
	}
	for _, c := range contacts {
		if _, err := fmt.Fprintf(d.w, "%s\t%s\t%s\n", c.FirstName, c.LastName, c.PhoneNumber); err != nil {
			return err
		}
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// StyledDisplay renders an aligned table with a header and a count footer.
type StyledDisplay struct {
	w io.Writer
}

// Render writes the table.
func (d *StyledDisplay) Render(contacts []contact.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(d.w, footerStyle.Render(EmptyMessage))
		return err
	}
	_, err := fmt.Fprintln(d.w, Table(contacts))
	return err
}

// Table lays out contacts in three padded columns.
func Table(contacts []contact.Contact) string {
	headers := []string{"FIRST NAME", "LAST NAME", "PHONE"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, c := range contacts {
		for i, v := range []string{c.FirstName, c.LastName, c.PhoneNumber} {
			if w := lipgloss.Width(v); w > widths[i] {
				widths[i] = w
			}
		}
	}

	row := func(style lipgloss.Style, values ...string) string {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellStyle.Width(widths[i] + 2).Render(v)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var b strings.Builder
	b.WriteString(row(headerStyle, headers...))
	for _, c := range contacts {
		b.WriteByte('\n')
		b.WriteString(row(lipgloss.NewStyle(), c.FirstName, c.LastName, c.PhoneNumber))
	}
	b.WriteByte('\n')
	b.WriteString(footerStyle.Render(countLabel(len(contacts))))
	return b.String()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 contact"
	}
	return fmt.Sprintf("%d contacts", n)
}
