// Package webembed provides the embedded map page.
package webembed

import (
	_ "embed"
)

//go:embed web/map.html
var mapPage []byte

// MapPage returns the HTML served at /map for the headless renderer.
func MapPage() []byte {
	return mapPage
}
