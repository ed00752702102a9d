package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

// colorNames maps image position to a color name by convention.
var colorNames = []string{"Ash", "White", "Sea Green", "Coffee", "Black", "Maroon"}

// ColorName names the color at image index idx.
func ColorName(idx int) string {
	if idx >= 0 && idx < len(colorNames) {
		return colorNames[idx]
	}
	return fmt.Sprintf("Color %d", idx+1)
}

// ColorImage returns images[idx], falling back to the thumbnail.
func ColorImage(images []string, idx int) string {
	if idx >= 0 && idx < len(images) {
		return images[idx]
	}
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// ColorOption is one selectable swatch.
type ColorOption struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ColorOptions lists swatches for products with more than one image.
func ColorOptions(images []string) []ColorOption {
	if len(images) <= 1 {
		return nil
	}
	out := make([]ColorOption, len(images))
	for i, img := range images {
		out[i] = ColorOption{Index: i, Name: ColorName(i), Image: img}
	}
	return out
}

var phonePattern = regexp.MustCompile(`^01[3-9]\d{8}$`)

// ValidPhone checks a Bangladeshi mobile number after removing whitespace.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.Join(strings.Fields(phone), ""))
}

// SizeLabel strips the "Size " / "Weight: " prefixes stored on variation names.
func SizeLabel(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"Size:", "Size ", "Weight:", "Weight "} {
		if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}
