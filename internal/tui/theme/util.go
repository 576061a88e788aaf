package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// InterpolateColor blends between two hex colors based on position.
// pos 0 gives colorA, 1 gives colorB; values outside [0, 1] are clamped.
// Used for the progress bar and logo gradients.
func InterpolateColor(colorA, colorB string, pos float64) string {
	pos = max(0, min(pos, 1))

	// Parse hex colors (format: #RRGGBB)
	r1, g1, b1 := ParseHexColor(colorA)
	r2, g2, b2 := ParseHexColor(colorB)

	// Linear blend per channel, truncated toward zero
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-pos) + float64(b)*pos)
	}
	return FormatHexColor(mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// ParseHexColor extracts RGB values from "#rrggbb" or "rrggbb".
// Anything else parses as black.
func ParseHexColor(hex string) (uint8, uint8, uint8) {
	// Remove # prefix if present
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}

	// Read all six digits as one number, then split out the bytes
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// FormatHexColor converts RGB values to a lowercase "#rrggbb" string.
func FormatHexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
