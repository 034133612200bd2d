package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// BuildSVG lays the quads out as an SVG document of the given size, one
// polygon (and optional label) per quad, back to front.
func BuildSVG(quads []Quad, width, height int, style Style) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", strconv.Itoa(width))
	svg.CreateAttr("height", strconv.Itoa(height))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", width, height))

	for _, q := range paintOrder(quads) {
		g := svg.CreateElement("g")
		if q.ID != "" {
			g.CreateAttr("id", q.ID)
		}

		poly := g.CreateElement("polygon")
		points := make([]string, len(q.Points))
		for i, p := range q.Points {
			points[i] = svgNumber(p.X) + "," + svgNumber(p.Y)
		}
		poly.CreateAttr("points", strings.Join(points, " "))
		poly.CreateAttr("fill", style.Fill)
		poly.CreateAttr("fill-opacity", svgNumber(style.Opacity))
		poly.CreateAttr("stroke", style.Stroke)

		if style.Labels && q.ID != "" {
			text := g.CreateElement("text")
			text.CreateAttr("x", svgNumber(q.Points[0].X+2))
			text.CreateAttr("y", svgNumber(q.Points[0].Y+12))
			text.CreateAttr("font-family", "monospace")
			text.CreateAttr("font-size", "11")
			text.SetText("#" + q.ID)
		}
	}
	return doc
}

// WriteSVG writes the quads as an indented SVG document to w.
func WriteSVG(w io.Writer, quads []Quad, width, height int, style Style) error {
	doc := BuildSVG(quads, width, height, style)
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

func svgNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
