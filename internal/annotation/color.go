package annotation

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color is an RGB triple with an alpha channel. The zero value (A == 0) means
// "no color": styles skip fully transparent channels rather than painting
// black.
type Color struct {
	R, G, B uint8
	A       float64
}

// RGBA constructs a Color from explicit channel values.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex parses a "#rrggbb" string into a Color with alpha fixed to 1.0.
func Hex(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid hex color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 1.0,
	}, nil
}

// Transparent reports whether the color should not be painted at all.
func (c Color) Transparent() bool {
	return c.A == 0
}

// String renders the color as "#rrggbb". Alpha is not representable in the
// 6-digit form and is dropped.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Term converts the color to a lipgloss terminal color.
func (c Color) Term() lipgloss.Color {
	return lipgloss.Color(c.String())
}
