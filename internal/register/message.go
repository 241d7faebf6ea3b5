package register

import (
	"strings"

	"github.com/adityar/eventpin/internal/event"
)

// Summary renders the registration into the message sent to the organizer.
// Optional fields are omitted entirely rather than rendered blank.
func Summary(r *event.Registration) string {
	var b strings.Builder
	b.WriteString("New registration for *")
	b.WriteString(r.EventName)
	b.WriteString("*\n\n")
	b.WriteString("Name: ")
	b.WriteString(r.FullName)
	b.WriteString("\nPhone: ")
	b.WriteString(r.Phone)
	if r.Email != "" {
		b.WriteString("\nEmail: ")
		b.WriteString(r.Email)
	}
	if r.Instagram != "" {
		b.WriteString("\nInstagram: ")
		b.WriteString(r.Instagram)
	}
	if r.Notes != "" {
		b.WriteString("\nNotes: ")
		b.WriteString(r.Notes)
	}
	return b.String()
}
