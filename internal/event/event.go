// Package event provides the shared Event and Registration models for
// Eventpin. This package is used by api, app, view, store, and mapbridge.
package event

// Category sentinels. CategoryAll is never stored; it is the filter value
// meaning "no category filter". Records with no category are grouped and
// filtered under CategoryOther.
const (
	CategoryAll   = "All"
	CategoryOther = "Other"
)

// Cosmetic defaults applied when a record carries no glyph/color.
const (
	DefaultEmoji = "📍"
	DefaultColor = "#EC4899"
)

// Event represents a single point-of-interest/activity record.
//
// Date is an opaque, lexically ordered string (ISO form in practice).
// Consumers must compare it lexically against today's ISO date and must not
// parse it; a record with an empty Date is never "upcoming".
type Event struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Coordinates string   `json:"coordinates"`
	Accuracy    string   `json:"accuracy,omitempty"`
	Category    string   `json:"category,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Date        string   `json:"date,omitempty"`
	Time        string   `json:"time,omitempty"`
	Price       string   `json:"price,omitempty"`
	IsFree      bool     `json:"isFree"`
	Emoji       string   `json:"emoji,omitempty"`
	Color       string   `json:"color,omitempty"`
	Favorite    bool     `json:"favorite"`
	Registered  bool     `json:"registered"`
	Attendees   []string `json:"attendees,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
}

// NormalizedCategory returns the record's category with the empty value
// mapped to CategoryOther.
func (e *Event) NormalizedCategory() string {
	if e.Category == "" {
		return CategoryOther
	}
	return e.Category
}

// DisplayEmoji returns the emoji glyph, defaulted when absent.
func (e *Event) DisplayEmoji() string {
	if e.Emoji == "" {
		return DefaultEmoji
	}
	return e.Emoji
}

// DisplayColor returns the hex color, falling back to the category color
// table and finally to DefaultColor.
func (e *Event) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return CategoryColor(e.Category)
}

// Registration is an append-only record of one person's intent to attend an
// Event. Registrations are pushed under the event's ID and are never updated
// or deleted by this application.
type Registration struct {
	ID           string `json:"id"`
	EventID      string `json:"eventId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone"`
	Instagram    string `json:"instagram,omitempty"`
	Notes        string `json:"notes,omitempty"`
	EventName    string `json:"eventName"`
	Method       string `json:"method,omitempty"`
	RegisteredAt string `json:"registeredAt"`
}

// Registration methods.
const (
	MethodDirect   = "direct"
	MethodWhatsApp = "whatsapp"
)
