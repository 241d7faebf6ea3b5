package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be split
// into exactly two numeric parts.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParseCoordinates parses a "lat,lng" string strictly: splitting on "," must
// yield exactly two trimmable numeric substrings. Used where an invalid
// record must be rejected (directions links, calendar geo).
func ParseCoordinates(s string) (lat, lng float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, parts[0])
	}

	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, parts[1])
	}

	return lat, lng, nil
}

// MarkerCoordinates parses a coordinate string leniently for map marker
// display: any parse failure yields 0,0 instead of an error. The silent
// default keeps a single malformed record from emptying the whole map.
func MarkerCoordinates(s string) (lat, lng float64) {
	lat, lng, err := ParseCoordinates(s)
	if err != nil {
		return 0, 0
	}
	return lat, lng
}
