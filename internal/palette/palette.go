// Package palette holds the preset paint colours offered to the user and the
// helpers that turn free-form hex input into a ColorOption.
package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// CustomID is the id carried by every colour synthesized from a hex value.
const CustomID = "custom"

// CustomName is the display name of a synthesized colour.
const CustomName = "Custom Color"

// ErrInvalidHex is returned when a value is not a #RRGGBB colour.
var ErrInvalidHex = errors.New("invalid hex color")

// ColorOption is a named paint colour. Values are never mutated once built.
type ColorOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Hex         string `json:"hex"`
	Description string `json:"description"`
}

// IsCustom reports whether the option was synthesized from a hex value.
func (c ColorOption) IsCustom() bool {
	return c.ID == CustomID
}

var presets = []ColorOption{
	{ID: "1", Name: "Sage Green", Hex: "#879b8a", Description: "Calming and organic."},
	{ID: "2", Name: "Navy Blue", Hex: "#000080", Description: "Deep, dramatic, and sophisticated."},
	{ID: "3", Name: "Terracotta", Hex: "#e2725b", Description: "Warm and earthy."},
	{ID: "4", Name: "Soft Charcoal", Hex: "#545454", Description: "Modern and versatile."},
	{ID: "5", Name: "Warm Cream", Hex: "#fdf5e6", Description: "Bright yet cozy."},
	{ID: "6", Name: "Lavender Mist", Hex: "#e6e6fa", Description: "Light and airy."},
	{ID: "7", Name: "Ochre Yellow", Hex: "#ccaa2b", Description: "Bold and energetic."},
	{ID: "8", Name: "Blush Pink", Hex: "#fef1f1", Description: "Soft and romantic."},
	{ID: "9", Name: "Emerald Forest", Hex: "#043927", Description: "Rich, deep woodland green."},
	{ID: "10", Name: "Dusty Blue", Hex: "#6699CC", Description: "Muted, serene sky tones."},
	{ID: "11", Name: "Sandstone", Hex: "#D2B48C", Description: "Natural desert warmth."},
	{ID: "12", Name: "Deep Plum", Hex: "#673147", Description: "Luxurious and mysterious."},
	{ID: "13", Name: "Teal Ocean", Hex: "#008080", Description: "Balanced and vibrant."},
	{ID: "14", Name: "Slate Gray", Hex: "#708090", Description: "Clean and industrial."},
	{ID: "15", Name: "Mustard", Hex: "#E1AD01", Description: "Vintage mid-century vibes."},
	{ID: "16", Name: "Espresso", Hex: "#3E2723", Description: "Strong and grounded."},
}

// Presets returns the preset palette in display order. The returned slice is a
// copy; callers may not mutate the palette.
func Presets() []ColorOption {
	out := make([]ColorOption, len(presets))
	copy(out, presets)
	return out
}

// ByID returns the preset with the given id.
func ByID(id string) (ColorOption, bool) {
	for _, c := range presets {
		if c.ID == id {
			return c, true
		}
	}
	return ColorOption{}, false
}

// ByName returns the preset whose name matches case-insensitively.
func ByName(name string) (ColorOption, bool) {
	name = strings.TrimSpace(name)
	for _, c := range presets {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColorOption{}, false
}

// NormalizeHex validates a colour and returns it as lowercase #rrggbb.
// The leading '#' is optional on input.
func NormalizeHex(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 7 || strings.IndexFunc(hex[1:], notHexDigit) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return c.Hex(), nil
}

// Custom synthesizes a ColorOption for an arbitrary hex value picked by the user.
func Custom(hex string) (ColorOption, error) {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return ColorOption{}, err
	}
	return ColorOption{
		ID:          CustomID,
		Name:        CustomName,
		Hex:         norm,
		Description: "Your personalized shade: " + norm,
	}, nil
}

// Resolve turns a user reference into a colour. The reference may be a preset
// id, a preset name, or a hex value (which yields a custom colour).
func Resolve(ref string) (ColorOption, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ColorOption{}, errors.New("empty color reference")
	}
	if c, ok := ByID(ref); ok {
		return c, nil
	}
	if c, ok := ByName(ref); ok {
		return c, nil
	}
	c, err := Custom(ref)
	if err != nil {
		return ColorOption{}, fmt.Errorf("unknown color %q: not a preset id, name, or hex value", ref)
	}
	return c, nil
}

// Nearest returns the preset perceptually closest to hex (CIEDE2000).
func Nearest(hex string) (ColorOption, error) {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return ColorOption{}, err
	}
	target, _ := colorful.Hex(norm)

	best := presets[0]
	bestDist := -1.0
	for _, p := range presets {
		pc, err := colorful.Hex(strings.ToLower(p.Hex))
		if err != nil {
			continue
		}
		d := target.DistanceCIEDE2000(pc)
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, nil
}

// colorful.Hex stops scanning at the first non-hex rune without failing.
func notHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return false
	}
	return true
}
