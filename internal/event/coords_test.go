package event

import (
	"errors"
	"testing"
)

func TestParseCoordinates_Valid(t *testing.T) {
	lat, lng, err := ParseCoordinates("-7.5, 110.3")
	if err != nil {
		t.Fatalf("ParseCoordinates: %v", err)
	}
	if lat != -7.5 || lng != 110.3 {
		t.Errorf("got %v,%v want -7.5,110.3", lat, lng)
	}
}

func TestParseCoordinates_Invalid(t *testing.T) {
	cases := []string{"invalid", "", "1,2,3", "1.0", "abc,def", "1.0,xyz"}
	for _, c := range cases {
		if _, _, err := ParseCoordinates(c); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ParseCoordinates(%q): err = %v, want ErrInvalidCoordinates", c, err)
		}
	}
}

func TestMarkerCoordinates_SilentFallback(t *testing.T) {
	lat, lng := MarkerCoordinates("invalid")
	if lat != 0 || lng != 0 {
		t.Errorf("got %v,%v want 0,0", lat, lng)
	}

	lat, lng = MarkerCoordinates("-6.2, 106.8")
	if lat != -6.2 || lng != 106.8 {
		t.Errorf("got %v,%v want -6.2,106.8", lat, lng)
	}
}

func TestNormalizedCategory(t *testing.T) {
	e := &Event{}
	if got := e.NormalizedCategory(); got != CategoryOther {
		t.Errorf("empty category normalized to %q", got)
	}

	e.Category = "Music"
	if got := e.NormalizedCategory(); got != "Music" {
		t.Errorf("got %q, want Music", got)
	}
}

func TestCategoryColor(t *testing.T) {
	if got := CategoryColor("Workshop"); got != "#10B981" {
		t.Errorf("Workshop color = %q", got)
	}
	if got := CategoryColor(""); got != "#6B7280" {
		t.Errorf("empty category color = %q, want Other's", got)
	}
	if got := CategoryColor("Underwater Basket Weaving"); got != DefaultColor {
		t.Errorf("unknown category color = %q, want default", got)
	}
}

func TestDisplayDefaults(t *testing.T) {
	e := &Event{Category: "Bazaar"}
	if e.DisplayEmoji() != DefaultEmoji {
		t.Errorf("emoji default not applied")
	}
	if e.DisplayColor() != "#F59E0B" {
		t.Errorf("category color not applied, got %q", e.DisplayColor())
	}

	e.Color = "#123456"
	if e.DisplayColor() != "#123456" {
		t.Errorf("explicit color not preferred")
	}
}
