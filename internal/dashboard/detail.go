package dashboard

import (
	"strings"

	"github.com/smileynet/contacts/internal/contact"
)

// renderDetail renders the right pane for the selected contact.
func renderDetail(c contact.Contact, ok bool) string {
	if !ok {
		return mutedText.Render("Nothing selected")
	}

	var b strings.Builder
	b.WriteString(titleText.Render(displayName(c)))
	b.WriteString("\n\n")
	b.WriteString(field("First name", c.FirstName))
	b.WriteByte('\n')
	b.WriteString(field("Last name", c.LastName))
	b.WriteByte('\n')
	b.WriteString(field("Phone", c.PhoneNumber))
	return b.String()
}

func field(label, value string) string {
	if value == "" {
		value = mutedText.Render("(empty)")
	}
	return labelText.Render(label+":") + " " + value
}
