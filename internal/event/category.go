package event

// categoryColors is the fixed category→color lookup used when a record has
// no explicit color of its own.
var categoryColors = map[string]string{
	"Workshop":  "#10B981",
	"Bazaar":    "#F59E0B",
	"Seminar":   "#3B82F6",
	"Concert":   "#EC4899",
	"Sports":    "#EF4444",
	"Food":      "#F97316",
	"Travel":    "#8B5CF6",
	"Education": "#06B6D4",
	"Other":     "#6B7280",
}

// CategoryColor returns the fixed color for a category. Unknown (and empty)
// categories fall back to DefaultColor.
func CategoryColor(category string) string {
	if category == "" {
		category = CategoryOther
	}
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultColor
}
