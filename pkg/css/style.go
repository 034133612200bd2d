package css

import (
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// GetOr returns the property value or def when it is unset.
func (s *Style) GetOr(property, def string) string {
	if val, ok := s.Properties[property]; ok {
		return val
	}
	return def
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// GetLengthRef resolves a length that may be a percentage of ref.
func (s *Style) GetLengthRef(property string, ref float64) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLengthRef(val, ref)
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns Left + Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

// GetMargin returns the margin values for all four sides. Percentages
// resolve against ref, the containing block width.
func (s *Style) GetMargin(ref float64) BoxEdge {
	return s.edge("margin-%s", ref)
}

// GetPadding returns the padding values for all four sides.
func (s *Style) GetPadding(ref float64) BoxEdge {
	return s.edge("padding-%s", ref)
}

// GetBorderWidth returns the border width for all four sides. Borders
// with style none or hidden have zero width.
func (s *Style) GetBorderWidth() BoxEdge {
	e := s.edge("border-%s-width", 0)
	if st := s.GetOr("border-style", "solid"); st == "none" || st == "hidden" {
		return BoxEdge{}
	}
	return e
}

func (s *Style) edge(pattern string, ref float64) BoxEdge {
	side := func(name string) float64 {
		v, _ := s.GetLengthRef(strings.Replace(pattern, "%s", name, 1), ref)
		return v
	}
	return BoxEdge{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
	PositionSticky   PositionType = "sticky"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	switch PositionType(s.GetOr("position", "static")) {
	case PositionRelative:
		return PositionRelative
	case PositionAbsolute:
		return PositionAbsolute
	case PositionFixed:
		return PositionFixed
	case PositionSticky:
		return PositionSticky
	}
	return PositionStatic
}

// PositionOffset holds the resolved top/right/bottom/left of a positioned
// box. The Has flags distinguish auto from zero.
type PositionOffset struct {
	Top       float64
	Right     float64
	Bottom    float64
	Left      float64
	HasTop    bool
	HasRight  bool
	HasBottom bool
	HasLeft   bool
}

// GetPositionOffset resolves the offsets against the containing block size.
func (s *Style) GetPositionOffset(cbWidth, cbHeight float64) PositionOffset {
	var o PositionOffset
	o.Top, o.HasTop = s.GetLengthRef("top", cbHeight)
	o.Right, o.HasRight = s.GetLengthRef("right", cbWidth)
	o.Bottom, o.HasBottom = s.GetLengthRef("bottom", cbHeight)
	o.Left, o.HasLeft = s.GetLengthRef("left", cbWidth)
	return o
}

// GetDisplay returns the display value (default: block).
func (s *Style) GetDisplay() string {
	return s.GetOr("display", "block")
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for prop, val := range parseDeclarations(styleAttr) {
		style.Set(prop, val)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property+"-%s", value)
	case "border-width":
		expandBoxProperty(style, "border-%s-width", value)
	case "border":
		expandBorderProperty(style, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty applies the 1-to-4 value rule of box shorthands.
func expandBoxProperty(style *Style, pattern, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(strings.Replace(pattern, "%s", "top", 1), top)
	style.Set(strings.Replace(pattern, "%s", "right", 1), right)
	style.Set(strings.Replace(pattern, "%s", "bottom", 1), bottom)
	style.Set(strings.Replace(pattern, "%s", "left", 1), left)
}

// expandBorderProperty picks the width and style out of "border: 1px solid red".
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		if _, ok := ParseLength(part); ok {
			expandBoxProperty(style, "border-%s-width", part)
			continue
		}
		switch part {
		case "none", "hidden", "solid", "dashed", "dotted", "double":
			style.Set("border-style", part)
		}
	}
}
