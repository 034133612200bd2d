package css

import "domxform/pkg/geom"

// Values implements transform.ValueParser over the parsers in this
// package. ParseTransform flips the Y-down matrices of ParseTransformValue
// into the frame that interface documents.
type Values struct{}

func (Values) ParseUnit(text string) float64 {
	return ParseUnitValue(text)
}

func (Values) ParseOrigin(text string) geom.Vec3 {
	return ParseOriginValue(text)
}

func (Values) ParseTransform(text string) geom.Mat4 {
	return geom.FlipY(ParseTransformValue(text))
}
