// Package style holds the site palette and the helpers stylesheets use to
// derive values from it.
package style

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// FontSize is the regular body font size in pixels.
const FontSize = 16

// EmSize converts a pixel size into ems relative to FontSize.
func EmSize(px float64) string {
	return formatUnit(px/FontSize, "em")
}

func Rem(v float64) string {
	return formatUnit(v, "rem")
}

func Px(v float64) string {
	return formatUnit(v, "px")
}

// MinWidth is a min-width media query for a pixel breakpoint.
func MinWidth(px float64) string {
	return fmt.Sprintf("(min-width: %s)", EmSize(px))
}

// Darken reduces the HSL lightness of a hex colour by amount (0 to 1).
func Darken(amount float64, hex string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("darken %q: %w", hex, err)
	}

	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, clamp01(l-amount)).Clamped().Hex(), nil
}

// Lighten is the inverse of Darken.
func Lighten(amount float64, hex string) (string, error) {
	return Darken(-amount, hex)
}

// Alpha renders a hex colour as rgba() with the given opacity.
func Alpha(alpha float64, hex string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("alpha %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(clamp01(alpha), 'f', -1, 64)), nil
}

func formatUnit(v float64, unit string) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
