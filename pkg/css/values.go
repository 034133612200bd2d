package css

import (
	"math"
	"strconv"
	"strings"

	"domxform/pkg/geom"
)

// pixels per unit, at the CSS reference 96dpi and a 16px root font.
var lengthUnits = map[string]float64{
	"px":  1,
	"":    1,
	"em":  16,
	"rem": 16,
	"pt":  96.0 / 72,
	"pc":  16,
	"in":  96,
	"cm":  96 / 2.54,
	"mm":  96 / 25.4,
	"q":   96 / 101.6,
}

// splitNumber separates "12.5px" into 12.5 and "px".
func splitNumber(val string) (float64, string, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	end := 0
	for end < len(val) {
		c := val[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			end++
			continue
		}
		// exponent, but not the start of "em"
		if (c == 'e') && end > 0 && end+1 < len(val) && (val[end+1] == '-' || val[end+1] == '+' || (val[end+1] >= '0' && val[end+1] <= '9')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, "", false
	}
	num, err := strconv.ParseFloat(val[:end], 64)
	if err != nil {
		return 0, "", false
	}
	return num, val[end:], true
}

// ParseLength parses an absolute length value (e.g., "100px", "1in" or "100").
func ParseLength(val string) (float64, bool) {
	num, unit, ok := splitNumber(val)
	if !ok {
		return 0, false
	}
	scale, ok := lengthUnits[unit]
	if !ok {
		return 0, false
	}
	return num * scale, true
}

// ParseLengthRef parses a length or a percentage of ref.
func ParseLengthRef(val string, ref float64) (float64, bool) {
	num, unit, ok := splitNumber(val)
	if !ok {
		return 0, false
	}
	if unit == "%" {
		return num / 100 * ref, true
	}
	return ParseLength(val)
}

// ParseUnitValue converts a computed length such as a perspective distance
// to pixels. Unparseable input yields 0.
func ParseUnitValue(text string) float64 {
	v, _ := ParseLength(text)
	return v
}

// ParseAngle converts an angle to radians. A bare zero is accepted.
func ParseAngle(val string) (float64, bool) {
	num, unit, ok := splitNumber(val)
	if !ok {
		return 0, false
	}
	switch unit {
	case "deg":
		return num * math.Pi / 180, true
	case "rad":
		return num, true
	case "grad":
		return num * math.Pi / 200, true
	case "turn":
		return num * 2 * math.Pi, true
	case "":
		if num == 0 {
			return 0, true
		}
	}
	return 0, false
}

// ParseOriginValue reads a computed origin ("10px 20px 5px") into a point.
// Missing or unparseable components are 0.
func ParseOriginValue(text string) geom.Vec3 {
	var xyz [3]float64
	for i, f := range strings.Fields(text) {
		if i == len(xyz) {
			break
		}
		xyz[i], _ = ParseLength(f)
	}
	return geom.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}

// DefaultTransformOrigin is the initial value of transform-origin and
// perspective-origin.
const DefaultTransformOrigin = "50% 50% 0"

// ResolveOrigin turns a declared transform-origin or perspective-origin
// (keywords, percentages, lengths) into its computed pixel form for a box
// of the given size. Invalid input falls back to the box centre.
func ResolveOrigin(text string, width, height float64) string {
	x, y, z, ok := resolveOrigin(text, width, height)
	if !ok {
		x, y, z, _ = resolveOrigin(DefaultTransformOrigin, width, height)
	}
	return FormatLength(x) + " " + FormatLength(y) + " " + FormatLength(z)
}

func resolveOrigin(text string, width, height float64) (x, y, z float64, ok bool) {
	parts := strings.Fields(strings.ToLower(text))
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	x, y = width/2, height/2

	// A leading vertical keyword swaps the axes, as in "top left".
	if len(parts) >= 2 && isVertical(parts[0]) && !isVertical(parts[1]) {
		parts[0], parts[1] = parts[1], parts[0]
	}
	if len(parts) == 1 && isVertical(parts[0]) {
		parts = []string{"center", parts[0]}
	}

	if x, ok = resolveAxis(parts[0], width, "left", "right"); !ok {
		return 0, 0, 0, false
	}
	if len(parts) > 1 {
		if y, ok = resolveAxis(parts[1], height, "top", "bottom"); !ok {
			return 0, 0, 0, false
		}
	}
	if len(parts) > 2 {
		if z, ok = ParseLength(parts[2]); !ok {
			return 0, 0, 0, false
		}
	}
	return x, y, z, true
}

func isVertical(kw string) bool {
	return kw == "top" || kw == "bottom"
}

func resolveAxis(val string, size float64, start, end string) (float64, bool) {
	switch val {
	case start:
		return 0, true
	case "center":
		return size / 2, true
	case end:
		return size, true
	}
	return ParseLengthRef(val, size)
}

// FormatLength writes v as a computed pixel length.
func FormatLength(v float64) string {
	return formatNumber(v) + "px"
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
