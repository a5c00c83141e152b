package domain

import (
	"strings"
)

// NormalizeCity converts city input to normalized form for matching.
// Examples: "Sydney" -> "sydney", "  MELBOURNE  " -> "melbourne"
func NormalizeCity(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
