// Package register builds registration messages and external deep links.
// Everything here is pure string work so the HTTP layer and the WhatsApp
// sender can share one source of truth for formats.
package register

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adityar/eventpin/internal/event"
)

// WhatsAppLink builds a wa.me deep link that opens a chat with number and
// the given text prefilled. The number is reduced to digits; anything like
// "+62 812-3456" becomes "628123456".
func WhatsAppLink(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}

// DirectionsLink builds a Google Maps directions URL for the event's
// coordinates. Returns event.ErrInvalidCoordinates when the stored
// coordinate string cannot be parsed strictly.
func DirectionsLink(coordinates string) (string, error) {
	lat, lng, err := event.ParseCoordinates(coordinates)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%g,%g", lat, lng), nil
}

// SupportMailto builds a mailto link for reporting a problem with an event.
func SupportMailto(address, eventName string) string {
	subject := "Event report: " + eventName
	return "mailto:" + address + "?subject=" + url.QueryEscape(subject)
}
