package store

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// pushIDAlphabet is ordered by ASCII value so that generated IDs sort
// lexically by generation time.
const pushIDAlphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// pushIDSource generates 20-character push IDs: 8 characters encoding the
// millisecond timestamp followed by 12 random characters. IDs generated in
// the same millisecond reuse the previous random suffix incremented by one,
// which keeps same-millisecond IDs strictly ordered too.
type pushIDSource struct {
	mu       sync.Mutex
	lastMs   int64
	lastRand [12]byte // indexes into pushIDAlphabet
	now      func() time.Time
}

func newPushIDSource() *pushIDSource {
	return &pushIDSource{now: time.Now}
}

// Next returns a new push ID.
func (g *pushIDSource) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()

	var id [20]byte
	ts := ms
	for i := 7; i >= 0; i-- {
		id[i] = pushIDAlphabet[ts%64]
		ts /= 64
	}

	if ms == g.lastMs {
		// Increment the previous suffix (carry from the last position).
		for i := 11; i >= 0; i-- {
			if g.lastRand[i] < 63 {
				g.lastRand[i]++
				break
			}
			g.lastRand[i] = 0
		}
	} else {
		var buf [12]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("generate push id: %w", err)
		}
		for i, b := range buf {
			g.lastRand[i] = b % 64
		}
		g.lastMs = ms
	}

	for i, r := range g.lastRand {
		id[8+i] = pushIDAlphabet[r]
	}

	return string(id[:]), nil
}
